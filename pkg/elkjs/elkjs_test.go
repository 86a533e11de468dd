package elkjs_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/minispec/visual/pkg/elkgraph"
	"github.com/minispec/visual/pkg/elkjs"
	"github.com/minispec/visual/pkg/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const laidOut = `{"id":"root","x":0,"y":0,"width":114,"height":92,` +
	`"children":[{"id":"n1","x":12,"y":37,"width":30,"height":30},` +
	`{"id":"n2","x":62,"y":12,"width":30,"height":30},` +
	`{"id":"n3","x":62,"y":62,"width":30,"height":30}],` +
	`"edges":[{"id":"e1","sources":["n1"],"targets":["n2"],` +
	`"sections":[{"id":"e1_s0","startPoint":{"x":42,"y":47},"endPoint":{"x":62,"y":27},` +
	`"bendPoints":[{"x":52,"y":47},{"x":52,"y":27}]}]},` +
	`{"id":"e2","sources":["n1"],"targets":["n3"]}]}`

func Test_Layout(t *testing.T) {
	t.Parallel()

	executor := mock.NewExecutor([]mock.ExecutorResult{{Output: laidOut + "\n"}})
	engine := elkjs.NewEngine(executor, "", "")

	result, err := engine.Layout(context.Background(), elkgraph.Sample())
	require.NoError(t, err)

	assert.Equal(t, elkjs.EngineName, engine.Name())
	require.Len(t, executor.Executed, 1)

	cmd := executor.Executed[0]
	assert.Equal(t, "node", cmd.Command)
	assert.Equal(t, []string{"-e", elkjs.Driver(), elkjs.DefaultModule}, cmd.Args)

	input, err := elkgraph.ParseBytes([]byte(cmd.Input), elkgraph.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, elkgraph.Sample(), input)

	assert.InDelta(t, 114.0, result.Width, 0)
	assert.InDelta(t, 62.0, result.Children[2].Y, 0)
	require.Len(t, result.Edges[0].Sections, 1)
	assert.Len(t, result.Edges[0].Sections[0].BendPoints, 2)
}

func Test_Layout_CustomRuntime(t *testing.T) {
	t.Parallel()

	executor := mock.NewExecutor([]mock.ExecutorResult{{Output: laidOut}})
	engine := elkjs.NewEngine(executor, "/usr/local/bin/node20", "./elk.bundled.js")

	_, err := engine.Layout(context.Background(), elkgraph.Sample())
	require.NoError(t, err)

	abs, err := filepath.Abs("elk.bundled.js")
	require.NoError(t, err)

	cmd := executor.Executed[0]
	assert.Equal(t, "/usr/local/bin/node20", cmd.Command)
	assert.Equal(t, abs, cmd.Args[len(cmd.Args)-1])
}

func Test_Layout_Error(t *testing.T) {
	t.Parallel()

	executor := mock.NewExecutor([]mock.ExecutorResult{{
		Error: errors.New("failed to execute command: node: exit status 1: Error: Cannot find module 'elkjs'"),
	}})

	_, err := elkjs.NewEngine(executor, "", "").Layout(context.Background(), elkgraph.Sample())
	require.ErrorContains(t, err, "Cannot find module 'elkjs'")
}

func Test_ResolveModule(t *testing.T) {
	t.Parallel()

	abs, err := filepath.Abs("elk.bundled.js")
	require.NoError(t, err)

	assert.Equal(t, elkjs.DefaultModule, elkjs.ResolveModule(""))
	assert.Equal(t, "elkjs", elkjs.ResolveModule("elkjs"))
	assert.Equal(t, "elkjs/lib/elk-api.js", elkjs.ResolveModule("elkjs/lib/elk-api.js"))
	assert.Equal(t, abs, elkjs.ResolveModule("./elk.bundled.js"))
	assert.Equal(t, abs, elkjs.ResolveModule("elk.bundled.js"))
	assert.Equal(t, "/opt/elk/elk.bundled.js", elkjs.ResolveModule("/opt/elk/elk.bundled.js"))
}

func Test_Driver(t *testing.T) {
	t.Parallel()

	assert.Contains(t, elkjs.Driver(), "process.argv[process.argv.length - 1]")
	assert.Contains(t, elkjs.Driver(), "JSON.stringify(output)")
}
