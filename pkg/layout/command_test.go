package layout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/minispec/visual/pkg/elkgraph"
	"github.com/minispec/visual/pkg/layout"
	"github.com/minispec/visual/pkg/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const laidOut = `{"id":"root","x":0,"y":0,"width":102,"height":74,` +
	`"children":[{"id":"n1","x":12,"y":22,"width":30,"height":30},` +
	`{"id":"n2","x":62,"y":12,"width":30,"height":30},{"id":"n3","x":62,"y":32,"width":30,"height":30}],` +
	`"edges":[{"id":"e1","sources":["n1"],"targets":["n2"],` +
	`"sections":[{"id":"e1_s0","startPoint":{"x":42,"y":37},"endPoint":{"x":62,"y":27}}]}]}`

func Test_CommandEngine_Layout(t *testing.T) {
	t.Parallel()

	shell := mock.NewExecutor([]mock.ExecutorResult{{Output: laidOut + "\n"}})
	engine := layout.NewCommandEngine(shell, "java", "-jar", "place.jar")

	result, err := engine.Layout(context.Background(), elkgraph.Sample())
	require.NoError(t, err)

	require.Len(t, shell.Executed, 1)
	assert.Equal(t, "java", shell.Executed[0].Command)
	assert.Equal(t, []string{"-jar", "place.jar"}, shell.Executed[0].Args)
	assert.Contains(t, shell.Executed[0].Input, `"id":"root"`)

	assert.Equal(t, "java", engine.Name())
	assert.InDelta(t, 102.0, result.Width, 0)
	require.Len(t, result.Edges[0].Sections, 1)
	assert.Equal(t, elkgraph.Point{X: 62, Y: 27}, result.Edges[0].Sections[0].EndPoint)
}

func Test_CommandEngine_SkipsChatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
	}{
		{
			name:   "argv dump and inspected object before the JSON line",
			output: "[ 'node', 'place.js' ]\n{\n  id: 'root',\n  children: [ [Object] ]\n}\n" + laidOut + "\n",
		},
		{
			name:   "trailing done line",
			output: laidOut + "\ndone\n",
		},
		{
			name: "pretty printed result",
			output: "Execution time: 3 ms\n{\n  \"id\": \"root\",\n  \"width\": 102,\n" +
				"  \"children\": [\n    {\n      \"id\": \"n1\"\n    }\n  ]\n}\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			shell := mock.NewExecutor([]mock.ExecutorResult{{Output: test.output}})
			engine := layout.NewCommandEngine(shell, "node", "place.js")

			result, err := engine.Layout(context.Background(), elkgraph.Sample())
			require.NoError(t, err)
			assert.Equal(t, "root", result.ID)
			assert.InDelta(t, 102.0, result.Width, 0)
		})
	}
}

func Test_CommandEngine_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   mock.ExecutorResult
		command  string
		contains string
	}{
		{
			name:     "command failure",
			result:   mock.ExecutorResult{Error: errors.New("exit status 1")},
			command:  "node",
			contains: "exit status 1",
		},
		{
			name:     "no output",
			result:   mock.ExecutorResult{Output: "  \n"},
			command:  "node",
			contains: "printed no graph",
		},
		{
			name:     "garbage output",
			result:   mock.ExecutorResult{Output: "{not json}"},
			command:  "node",
			contains: "failed to parse JSON graph description",
		},
		{
			name:     "no command",
			command:  "",
			contains: "no layout command configured",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			shell := mock.NewExecutor([]mock.ExecutorResult{test.result})
			engine := layout.NewCommandEngine(shell, test.command)

			_, err := engine.Layout(context.Background(), elkgraph.Sample())
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.contains)
		})
	}
}
