package layout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minispec/visual/internal/logger"
	"github.com/minispec/visual/pkg/elkgraph"
)

// ErrRootMismatch is returned when an engine answers with another graph than the one it was given.
var ErrRootMismatch = errors.New("layout result does not match the input graph")

// Engine computes a layout for a graph description.
type Engine interface {
	// Name identifies the engine in logs and on the command line.
	Name() string
	// Layout returns an annotated copy of graph. The input graph must not be modified.
	Layout(ctx context.Context, graph *elkgraph.Node) (*elkgraph.Node, error)
}

// Apply validates the graph, runs the engine on it and checks the result.
func Apply(ctx context.Context, engine Engine, graph *elkgraph.Node) (*elkgraph.Node, error) {
	if err := elkgraph.Validate(graph); err != nil {
		return nil, fmt.Errorf("invalid graph description: %w", err)
	}

	start := time.Now()

	result, err := engine.Layout(ctx, graph)
	if err != nil {
		return nil, fmt.Errorf("%s layout of graph %q failed: %w", engine.Name(), graph.ID, err)
	}

	if result == nil || result.ID != graph.ID {
		return nil, fmt.Errorf("%s layout of graph %q: %w", engine.Name(), graph.ID, ErrRootMismatch)
	}

	logger.Debugf("Graph %q (%d nodes) laid out by %s in %s",
		graph.ID, elkgraph.CountNodes(graph), engine.Name(), time.Since(start).Round(time.Millisecond))

	return result, nil
}
