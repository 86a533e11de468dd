package elkgraph_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/minispec/visual/pkg/elkgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "id": "root",
  "layoutOptions": { "elk.algorithm": "layered" },
  "children": [
    { "id": "n1", "width": 30, "height": 30 },
    { "id": "n2", "width": 30, "height": 30 },
    { "id": "n3", "width": 30, "height": 30 }
  ],
  "edges": [
    { "id": "e1", "sources": [ "n1" ], "targets": [ "n2" ] },
    { "id": "e2", "sources": [ "n1" ], "targets": [ "n3" ] }
  ]
}`

const sampleYAML = `
id: root
layoutOptions:
  elk.algorithm: layered
children:
  - {id: n1, width: 30, height: 30}
  - {id: n2, width: 30, height: 30}
  - {id: n3, width: 30, height: 30}
edges:
  - {id: e1, sources: [n1], targets: [n2]}
  - {id: e2, sources: [n1], targets: [n3]}
`

func Test_FormatFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, elkgraph.FormatYAML, elkgraph.FormatFromPath("graph.yaml"))
	assert.Equal(t, elkgraph.FormatYAML, elkgraph.FormatFromPath("dir/graph.YML"))
	assert.Equal(t, elkgraph.FormatJSON, elkgraph.FormatFromPath("elkInput.txt"))
	assert.Equal(t, elkgraph.FormatJSON, elkgraph.FormatFromPath("graph.json"))
}

func Test_Parse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		format elkgraph.Format
	}{
		{name: "json", input: sampleJSON, format: elkgraph.FormatJSON},
		{name: "yaml", input: sampleYAML, format: elkgraph.FormatYAML},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			graph, err := elkgraph.Parse(strings.NewReader(test.input), test.format)
			require.NoError(t, err)

			assert.Equal(t, "root", graph.ID)
			require.Len(t, graph.Children, 3)
			assert.InDelta(t, 30.0, graph.Children[1].Width, 0)
			require.Len(t, graph.Edges, 2)
			assert.Equal(t, []string{"n1"}, graph.Edges[1].Sources)
			assert.Equal(t, []string{"n3"}, graph.Edges[1].Targets)

			algorithm, ok := graph.Option("elk.algorithm")
			require.True(t, ok)
			assert.Equal(t, "layered", algorithm)
			assert.Equal(t, elkgraph.Sample(), graph)
		})
	}
}

func Test_Parse_Errors(t *testing.T) {
	t.Parallel()

	_, err := elkgraph.Parse(strings.NewReader("  \n"), elkgraph.FormatJSON)
	require.ErrorIs(t, err, elkgraph.ErrEmptyInput)

	_, err = elkgraph.Parse(strings.NewReader("{ id: 'root' "), elkgraph.FormatJSON)
	require.ErrorContains(t, err, "failed to parse JSON graph description")

	_, err = elkgraph.Parse(strings.NewReader("id: [root"), elkgraph.FormatYAML)
	require.ErrorContains(t, err, "failed to parse YAML graph description")

	_, err = elkgraph.Parse(strings.NewReader(sampleJSON), elkgraph.Format("toml"))
	require.ErrorContains(t, err, "unsupported graph description format")
}

func Test_Encode_KeepsZeroGeometry(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, elkgraph.Encode(&buf, elkgraph.Sample(), false))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	for _, key := range []string{"x", "y", "width", "height"} {
		assert.Contains(t, decoded, key)
	}

	children, ok := decoded["children"].([]any)
	require.True(t, ok)
	first, ok := children[0].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, first, "x")
	assert.Contains(t, first, "y")
	assert.NotContains(t, first, "children")
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))
}

func Test_Encode_Pretty(t *testing.T) {
	t.Parallel()

	raw, err := elkgraph.Marshal(elkgraph.Sample(), true)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"layoutOptions\": {")

	compact, err := elkgraph.Marshal(elkgraph.Sample(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(compact), "\n"))
}
