package executor

import (
	"context"
	"io"
)

/*
Package executor defines interfaces for execution functionalities (producer)
that can be utilized by layout engines running outside of the current process.
*/

// ShellExecutor defines an interface for executing shell commands.
type ShellExecutor interface {
	// Execute a command and return the standard output.
	Execute(name string, args ...string) (string, error)
	// ExecuteWithInput executes a command with input piped to its standard input, and returns
	// the standard output. The command is killed when ctx is done.
	ExecuteWithInput(ctx context.Context, input io.Reader, name string, args ...string) (string, error)
}
