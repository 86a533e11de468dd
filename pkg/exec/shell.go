package exec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/minispec/visual/internal/logger"
)

// ShellExecutor is an implementation of executor.ShellExecutor that uses the standard exec
// package to run commands.
type ShellExecutor struct {
	Dir string
	Env []string
}

// NewShellExecutor initializes a ShellExecutor with the specified working directory and environment variables.
func NewShellExecutor(workingDir string, env []string) *ShellExecutor {
	return &ShellExecutor{
		Dir: workingDir,
		Env: env,
	}
}

// Execute a shell command and return the standard output.
func (e ShellExecutor) Execute(name string, args ...string) (string, error) {
	return e.ExecuteWithInput(context.Background(), nil, name, args...)
}

// ExecuteWithInput executes a command with input as its standard input and returns the
// standard output. On failure the error carries the command's standard error.
func (e ShellExecutor) ExecuteWithInput(ctx context.Context, input io.Reader, name string, args ...string,
) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = e.Env
	cmd.Dir = e.Dir
	cmd.Stdin = input

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("Exec cmd: %s", printable(cmd))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("command %s interrupted: %w", name, ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("failed to execute command: %s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("failed to execute command: %s: %w", name, err)
	}

	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		logger.Debugf("%s stderr: %s", name, msg)
	}

	return stdout.String(), nil
}

// printable shortens inline scripts (node -e ...) so debug logs stay readable.
func printable(cmd *exec.Cmd) string {
	const maxArgLen = 80

	parts := make([]string, 0, len(cmd.Args))
	for _, arg := range cmd.Args {
		if len(arg) > maxArgLen || strings.Contains(arg, "\n") {
			arg = fmt.Sprintf("<%d bytes>", len(arg))
		}
		parts = append(parts, arg)
	}

	return strings.Join(parts, " ")
}
