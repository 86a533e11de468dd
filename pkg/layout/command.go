package layout

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minispec/visual/pkg/elkgraph"
	"github.com/minispec/visual/pkg/executor"
)

// DefaultCommandTimeout bounds a single external layout run.
const DefaultCommandTimeout = 2 * time.Minute

// CommandEngine lays out graphs by running an external command. The graph is written as ELK
// JSON on the command's standard input, and the command must print the laid-out graph as ELK
// JSON on its standard output.
type CommandEngine struct {
	Executor executor.ShellExecutor
	// EngineName is reported by Name. Defaults to the command name.
	EngineName string
	Command    string
	Args       []string
	Timeout    time.Duration
}

// NewCommandEngine creates a CommandEngine running command with args.
func NewCommandEngine(shell executor.ShellExecutor, command string, args ...string) *CommandEngine {
	return &CommandEngine{
		Executor: shell,
		Command:  command,
		Args:     args,
		Timeout:  DefaultCommandTimeout,
	}
}

func (e *CommandEngine) Name() string {
	if e.EngineName != "" {
		return e.EngineName
	}

	return e.Command
}

func (e *CommandEngine) Layout(ctx context.Context, graph *elkgraph.Node) (*elkgraph.Node, error) {
	if e.Command == "" {
		return nil, fmt.Errorf("no layout command configured")
	}

	input, err := elkgraph.Marshal(graph, false)
	if err != nil {
		return nil, err
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	output, err := e.Executor.ExecuteWithInput(ctx, bytes.NewReader(input), e.Command, e.Args...)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(output) == "" {
		return nil, fmt.Errorf("command %s printed no graph", e.Command)
	}

	result, err := elkgraph.ParseBytes([]byte(lastJSONDocument(output)), elkgraph.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("command %s: %w", e.Command, err)
	}

	return result, nil
}

// lastJSONDocument skips any chatter a layout script prints before its result, such as the
// argv dump or the "done" lines of hand-written drivers. The result starts at the last line
// opening a top-level object and ends at the last line closing one.
func lastJSONDocument(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if !strings.HasPrefix(lines[i], "{") {
			continue
		}

		end := len(lines)
		for end > i+1 && !strings.HasSuffix(strings.TrimSpace(lines[end-1]), "}") {
			end--
		}

		return strings.Join(lines[i:end], "\n")
	}

	return output
}
