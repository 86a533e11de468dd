package mock

import (
	"context"
	"io"
	"sync"
)

type ExecutorCommand struct {
	Command string
	Args    []string
	Input   string
}

type ExecutorResult struct {
	Output string
	Error  error
}

type Executor struct {
	mu       sync.Mutex
	Executed []ExecutorCommand
	Expected []ExecutorResult
}

func NewExecutor(expected []ExecutorResult) *Executor {
	return &Executor{
		Executed: []ExecutorCommand{},
		Expected: expected,
	}
}

func (e *Executor) Execute(name string, args ...string) (string, error) {
	return e.ExecuteWithInput(context.Background(), nil, name, args...)
}

func (e *Executor) ExecuteWithInput(_ context.Context, input io.Reader, name string, args ...string) (string, error) {
	var stdin []byte
	if input != nil {
		stdin, _ = io.ReadAll(input)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.Executed = append(e.Executed, ExecutorCommand{
		Command: name,
		Args:    args,
		Input:   string(stdin),
	})

	if len(e.Expected) >= len(e.Executed) {
		currentIndex := len(e.Executed) - 1
		return e.Expected[currentIndex].Output, e.Expected[currentIndex].Error
	}

	return "", nil
}
