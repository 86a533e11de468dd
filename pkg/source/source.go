package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minispec/visual/pkg/elkgraph"
	"golang.org/x/term"
)

const (
	// Stdin is the path naming the standard input.
	Stdin = "-"

	NameInline = "inline"
	NameStdin  = "stdin"
	NameSample = "sample"
)

// ErrStdinReused is returned when the standard input is requested more than once.
var ErrStdinReused = errors.New("standard input can only be read once")

// Input is one graph description, read but not decoded yet.
type Input struct {
	// Name identifies the input in logs and output file names: a file path, "inline",
	// "stdin" or "sample".
	Name   string
	Format elkgraph.Format
	Data   []byte
}

// Options describes where graph descriptions may come from.
type Options struct {
	// Inline is a graph description given directly on the command line.
	Inline string
	// Paths are graph description files or directories containing them. Stdin ("-") reads
	// the standard input.
	Paths []string
	// Exclude are ignore patterns applied to files found in directories.
	Exclude []string
	// Stdin defaults to os.Stdin.
	Stdin io.Reader
	// StdinPiped reports whether the standard input carries data. Defaults to checking that
	// os.Stdin is not a terminal.
	StdinPiped func() bool
}

// Resolve returns the inputs to process, in order of precedence: the inline description, the
// files, the piped standard input, and finally the sample graph.
func Resolve(opts Options) ([]Input, error) {
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	if strings.TrimSpace(opts.Inline) != "" {
		data := []byte(opts.Inline)
		return []Input{{Name: NameInline, Format: DetectFormat(data), Data: data}}, nil
	}

	if len(opts.Paths) > 0 {
		inputs := make([]Input, 0, len(opts.Paths))
		stdinRead := false

		for _, path := range opts.Paths {
			if path == Stdin {
				if stdinRead {
					return nil, ErrStdinReused
				}
				stdinRead = true

				input, err := readStdin(stdin)
				if err != nil {
					return nil, err
				}
				inputs = append(inputs, input)
				continue
			}

			if info, err := os.Stat(path); err == nil && info.IsDir() {
				found, err := ReadDir(path, opts.Exclude)
				if err != nil {
					return nil, err
				}
				inputs = append(inputs, found...)
				continue
			}

			input, err := ReadFile(path)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, input)
		}

		if len(inputs) == 0 {
			return nil, fmt.Errorf("no graph description found in %s", strings.Join(opts.Paths, ", "))
		}

		return inputs, nil
	}

	piped := opts.StdinPiped
	if piped == nil {
		piped = StdinPiped
	}

	if piped() {
		input, err := readStdin(stdin)
		if err != nil {
			return nil, err
		}
		return []Input{input}, nil
	}

	return []Input{SampleInput()}, nil
}

// ReadFile reads a graph description file.
func ReadFile(path string) (Input, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return Input{}, fmt.Errorf("cannot read graph description: %w", err)
	}

	return Input{Name: path, Format: elkgraph.FormatFromPath(path), Data: data}, nil
}

// SampleInput returns the sample graph as an input.
func SampleInput() Input {
	data, err := elkgraph.Marshal(elkgraph.Sample(), false)
	if err != nil {
		panic(err)
	}

	return Input{Name: NameSample, Format: elkgraph.FormatJSON, Data: data}
}

func readStdin(r io.Reader) (Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("cannot read graph description from standard input: %w", err)
	}

	return Input{Name: NameStdin, Format: DetectFormat(data), Data: data}, nil
}

// Graph decodes the input.
func (in Input) Graph() (*elkgraph.Node, error) {
	graph, err := elkgraph.ParseBytes(in.Data, in.Format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Name, err)
	}

	return graph, nil
}

// BaseName returns the input name without directory nor extension, used to name output files.
func (in Input) BaseName() string {
	base := filepath.Base(in.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DetectFormat guesses the format of a description without file name: ELK JSON always starts
// with an object, anything else is read as YAML.
func DetectFormat(data []byte) elkgraph.Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] == '{' {
		return elkgraph.FormatJSON
	}

	return elkgraph.FormatYAML
}

// StdinPiped reports whether os.Stdin is redirected from a file or a pipe.
func StdinPiped() bool {
	return !term.IsTerminal(int(os.Stdin.Fd()))
}
