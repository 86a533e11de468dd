package mock

import (
	"context"
	"sync"

	"github.com/minispec/visual/pkg/elkgraph"
)

// Engine is a layout engine placing every top-level child on a single row, 10 units apart.
type Engine struct {
	mu     sync.Mutex
	Calls  []string
	Error  error
	Result *elkgraph.Node
}

func (e *Engine) Name() string {
	return "mock"
}

func (e *Engine) Layout(_ context.Context, graph *elkgraph.Node) (*elkgraph.Node, error) {
	e.mu.Lock()
	e.Calls = append(e.Calls, graph.ID)
	e.mu.Unlock()

	if e.Error != nil {
		return nil, e.Error
	}
	if e.Result != nil {
		return e.Result, nil
	}

	result := graph.Clone()

	x := 0.0
	for _, child := range result.Children {
		child.X = x
		child.Y = 0
		x += child.Width + 10
		result.Height = max(result.Height, child.Height)
	}
	result.Width = max(x-10, 0)

	return result, nil
}

// CallCount returns how many layouts were requested.
func (e *Engine) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.Calls)
}
