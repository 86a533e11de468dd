package exec_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/minispec/visual/pkg/exec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ShellExecutor_Execute(t *testing.T) {
	t.Parallel()

	shell := exec.NewShellExecutor(t.TempDir(), nil)

	out, err := shell.Execute("echo", "placed")
	require.NoError(t, err)
	assert.Equal(t, "placed\n", out)
}

func Test_ShellExecutor_ExecuteWithInput(t *testing.T) {
	t.Parallel()

	shell := exec.NewShellExecutor("", nil)

	out, err := shell.ExecuteWithInput(context.Background(), strings.NewReader(`{"id":"root"}`), "cat")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"root"}`, out)
}

func Test_ShellExecutor_Failure_CarriesStderr(t *testing.T) {
	t.Parallel()

	shell := exec.NewShellExecutor("", nil)

	_, err := shell.ExecuteWithInput(context.Background(), nil, "sh", "-c", "echo 'no such graph' >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute command: sh")
	assert.Contains(t, err.Error(), "no such graph")
}

func Test_ShellExecutor_Timeout(t *testing.T) {
	t.Parallel()

	shell := exec.NewShellExecutor("", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := shell.ExecuteWithInput(ctx, nil, "sleep", "5")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
