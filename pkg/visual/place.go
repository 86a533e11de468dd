package visual

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/minispec/visual/internal/logger"
	"github.com/minispec/visual/pkg/elkgraph"
	"github.com/minispec/visual/pkg/graphviz"
	"github.com/minispec/visual/pkg/layout"
	"github.com/minispec/visual/pkg/sink"
	"github.com/minispec/visual/pkg/source"
	"github.com/minispec/visual/pkg/strutil"
	"golang.org/x/sync/errgroup"
)

// LayoutFileSuffix is appended to the input base name of files written to an output directory.
const LayoutFileSuffix = ".layout.json"

var ErrOutputDirRequired = errors.New("placing several graphs requires an output directory")

type PlaceOpts struct {
	// Root options
	EngineOpts `mapstructure:",squash"`

	// Place specific options
	Graph     string `mapstructure:"graph"`
	Output    string `mapstructure:"output"`
	OutputDir string `mapstructure:"output_dir"`
	Pretty    bool   `mapstructure:"pretty"`
	Jobs      int    `mapstructure:"jobs"`
	Dot       bool   `mapstructure:"dot"`
	// Archive packs the layouts written to OutputDir into a .tar.gz file or S3 object.
	Archive string `mapstructure:"archive"`
	// Exclude are ignore patterns for files found in input directories.
	Exclude []string `mapstructure:"exclude"`
}

// Place lays out every input with engine and writes each result to its sink. Inputs are
// processed concurrently, the first failure cancels the others and is returned.
func Place(ctx context.Context, engine layout.Engine, inputs []source.Input, opts PlaceOpts, stdout io.Writer) error {
	if len(inputs) == 0 {
		return errors.New("no graph description to place")
	}

	overrides, err := strutil.ParseKeyValues(opts.LayoutOption)
	if err != nil {
		return err
	}

	// DOT text of every input goes to a single output, --output-dir does not apply.
	if opts.Dot {
		return printDot(ctx, inputs, overrides, opts, stdout)
	}

	if len(inputs) > 1 && opts.OutputDir == "" {
		return fmt.Errorf("%d graph descriptions given: %w", len(inputs), ErrOutputDirRequired)
	}

	if opts.OutputDir != "" && opts.Output != "" && opts.Output != sink.Stdout {
		return errors.New("--output and --output-dir are mutually exclusive")
	}

	if opts.Archive != "" && opts.OutputDir == "" {
		return fmt.Errorf("--archive: %w", ErrOutputDirRequired)
	}


	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	targets := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))

	for i, input := range inputs {
		targets[i] = opts.Output
		if opts.OutputDir == "" {
			continue
		}

		targets[i] = filepath.Join(opts.OutputDir, input.BaseName()+LayoutFileSuffix)
		if other, ok := seen[targets[i]]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", other, input.Name, targets[i])
		}
		seen[targets[i]] = input.Name
	}

	errG, groupCtx := errgroup.WithContext(ctx)
	errG.SetLimit(jobs)

	for i, input := range inputs {
		errG.Go(func() error {
			return placeOne(groupCtx, engine, input, overrides, targets[i], opts.Pretty, stdout)
		})
	}

	if err := errG.Wait(); err != nil {
		return err
	}

	if opts.Archive != "" {
		return Bundle(ctx, targets, opts.Archive)
	}

	return nil
}

func placeOne(ctx context.Context, engine layout.Engine, input source.Input, overrides map[string]string,
	target string, pretty bool, stdout io.Writer,
) error {
	graph, err := input.Graph()
	if err != nil {
		return err
	}

	elkgraph.SetLayoutOptions(graph, overrides)

	result, err := layout.Apply(ctx, engine, graph)
	if err != nil {
		return fmt.Errorf("%s: %w", input.Name, err)
	}

	out, err := sink.Open(ctx, target, stdout)
	if err != nil {
		return err
	}

	if _, isStdout := out.(*sink.WriterSink); isStdout && sink.IsTerminal(stdout) {
		pretty = true
	}

	data, err := elkgraph.Marshal(result, pretty)
	if err != nil {
		return err
	}

	if err := out.Write(ctx, data); err != nil {
		return fmt.Errorf("%s: %w", input.Name, err)
	}

	logger.Infof("Placed %s (%d nodes) with %s, written to %s",
		input.Name, elkgraph.CountNodes(result), engine.Name(), out)

	return nil
}

func printDot(ctx context.Context, inputs []source.Input, overrides map[string]string, opts PlaceOpts,
	stdout io.Writer,
) error {
	var buf bytes.Buffer

	for _, input := range inputs {
		graph, err := input.Graph()
		if err != nil {
			return err
		}

		if err := elkgraph.Validate(graph); err != nil {
			return fmt.Errorf("%s: invalid graph description: %w", input.Name, err)
		}

		elkgraph.SetLayoutOptions(graph, overrides)

		raw, err := graphviz.GenerateRawOutput(graph, opts.Algorithm)
		if err != nil {
			return fmt.Errorf("%s: %w", input.Name, err)
		}

		buf.WriteString(raw)
	}

	out, err := sink.Open(ctx, opts.Output, stdout)
	if err != nil {
		return err
	}

	return out.Write(ctx, buf.Bytes())
}
