package visual_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mholt/archiver/v3"
	"github.com/minispec/visual/pkg/elkgraph"
	"github.com/minispec/visual/pkg/mock"
	"github.com/minispec/visual/pkg/source"
	"github.com/minispec/visual/pkg/visual"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedInput(t *testing.T, name, id string) source.Input {
	t.Helper()

	graph := elkgraph.Sample()
	graph.ID = id

	data, err := elkgraph.Marshal(graph, false)
	require.NoError(t, err)

	return source.Input{Name: name, Format: elkgraph.FormatJSON, Data: data}
}

func Test_Place_Stdout(t *testing.T) {
	t.Parallel()

	engine := &mock.Engine{}
	var stdout bytes.Buffer

	err := visual.Place(context.Background(), engine, []source.Input{source.SampleInput()},
		visual.PlaceOpts{}, &stdout)
	require.NoError(t, err)

	result, err := elkgraph.ParseBytes(stdout.Bytes(), elkgraph.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "root", result.ID)
	assert.InDelta(t, 40.0, result.Children[1].X, 0)
	assert.InDelta(t, 110.0, result.Width, 0)
	assert.NotContains(t, stdout.String(), "\n  ", "output is compact unless asked otherwise")
}

func Test_Place_PrettyFile(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "out", "layout.json")

	err := visual.Place(context.Background(), &mock.Engine{}, []source.Input{source.SampleInput()},
		visual.PlaceOpts{Output: target, Pretty: true}, &bytes.Buffer{})
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "\n  \"id\": \"root\"")
}

func Test_Place_LayoutOptions(t *testing.T) {
	t.Parallel()

	engine := &mock.Engine{}
	var stdout bytes.Buffer

	err := visual.Place(context.Background(), engine, []source.Input{source.SampleInput()},
		visual.PlaceOpts{EngineOpts: visual.EngineOpts{LayoutOption: []string{"elk.direction=DOWN"}}}, &stdout)
	require.NoError(t, err)

	result, err := elkgraph.ParseBytes(stdout.Bytes(), elkgraph.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "DOWN", result.LayoutOptions["elk.direction"])
	assert.Equal(t, "layered", result.LayoutOptions["elk.algorithm"])

	err = visual.Place(context.Background(), engine, []source.Input{source.SampleInput()},
		visual.PlaceOpts{EngineOpts: visual.EngineOpts{LayoutOption: []string{"elk.direction"}}}, &stdout)
	require.ErrorContains(t, err, "expected key=value")
}

func Test_Place_Batch(t *testing.T) {
	t.Parallel()

	engine := &mock.Engine{}
	dir := t.TempDir()

	inputs := []source.Input{
		namedInput(t, "graphs/adder.json", "adder"),
		namedInput(t, "graphs/mux.yaml", "mux"),
		namedInput(t, "other/alu.json", "alu"),
	}

	err := visual.Place(context.Background(), engine, inputs, visual.PlaceOpts{OutputDir: dir, Jobs: 2}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 3, engine.CallCount())
	assert.ElementsMatch(t, []string{"adder", "mux", "alu"}, engine.Calls)

	for _, name := range []string{"adder", "mux", "alu"} {
		content, err := os.ReadFile(filepath.Join(dir, name+visual.LayoutFileSuffix))
		require.NoError(t, err)

		result, err := elkgraph.ParseBytes(content, elkgraph.FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, name, result.ID)
	}
}

func Test_Place_BatchNeedsOutputDir(t *testing.T) {
	t.Parallel()

	inputs := []source.Input{namedInput(t, "a.json", "a"), namedInput(t, "b.json", "b")}

	err := visual.Place(context.Background(), &mock.Engine{}, inputs, visual.PlaceOpts{}, &bytes.Buffer{})
	require.ErrorIs(t, err, visual.ErrOutputDirRequired)

	err = visual.Place(context.Background(), &mock.Engine{}, inputs[:1],
		visual.PlaceOpts{Output: "x.json", OutputDir: t.TempDir()}, &bytes.Buffer{})
	require.ErrorContains(t, err, "mutually exclusive")

	err = visual.Place(context.Background(), &mock.Engine{}, nil, visual.PlaceOpts{}, &bytes.Buffer{})
	require.Error(t, err)
}

func Test_Place_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    source.Input
		engine   *mock.Engine
		expected string
	}{
		{
			name:     "unparsable input",
			input:    source.Input{Name: "broken.json", Format: elkgraph.FormatJSON, Data: []byte(`{"id":`)},
			engine:   &mock.Engine{},
			expected: "broken.json: failed to parse JSON graph description",
		},
		{
			name: "invalid graph",
			input: source.Input{
				Name:   "dangling.json",
				Format: elkgraph.FormatJSON,
				Data:   []byte(`{"id":"root","edges":[{"id":"e","sources":["a"],"targets":["b"]}]}`),
			},
			engine:   &mock.Engine{},
			expected: "dangling.json: invalid graph description",
		},
		{
			name:     "engine failure",
			input:    source.SampleInput(),
			engine:   &mock.Engine{Error: errors.New("elk exploded")},
			expected: "sample: mock layout of graph \"root\" failed: elk exploded",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			var stdout bytes.Buffer
			err := visual.Place(context.Background(), test.engine, []source.Input{test.input}, visual.PlaceOpts{}, &stdout)
			require.ErrorContains(t, err, test.expected)
			assert.Empty(t, stdout.String())
		})
	}
}

func Test_Place_Dot(t *testing.T) {
	t.Parallel()

	engine := &mock.Engine{}
	var stdout bytes.Buffer

	err := visual.Place(context.Background(), engine, []source.Input{source.SampleInput()},
		visual.PlaceOpts{Dot: true}, &stdout)
	require.NoError(t, err)

	assert.Zero(t, engine.CallCount())
	assert.Contains(t, stdout.String(), "digraph \"root\" {")
	assert.Contains(t, stdout.String(), "\"n1\" -> \"n2\"")
}

func Test_Place_DotSeveralInputs(t *testing.T) {
	t.Parallel()

	inputs := []source.Input{namedInput(t, "adder.json", "adder"), namedInput(t, "mux.json", "mux")}

	var stdout bytes.Buffer
	err := visual.Place(context.Background(), &mock.Engine{}, inputs, visual.PlaceOpts{Dot: true}, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "digraph \"adder\" {")
	assert.Contains(t, stdout.String(), "digraph \"mux\" {")

	output := filepath.Join(t.TempDir(), "graphs.dot")
	stdout.Reset()
	err = visual.Place(context.Background(), &mock.Engine{}, inputs, visual.PlaceOpts{Dot: true, Output: output}, &stdout)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(written), "digraph \"adder\" {")
	assert.Contains(t, string(written), "digraph \"mux\" {")
}

func Test_Place_DotInvalidGraph(t *testing.T) {
	t.Parallel()

	input := source.Input{
		Name:   "broken.json",
		Format: elkgraph.FormatJSON,
		Data:   []byte(`{"id":"root","children":[{"id":"a","width":10,"height":10},null]}`),
	}

	err := visual.Place(context.Background(), &mock.Engine{}, []source.Input{input}, visual.PlaceOpts{Dot: true}, &bytes.Buffer{})
	require.ErrorIs(t, err, elkgraph.ErrMissingID)
}

func Test_Place_Archive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := filepath.Join(t.TempDir(), "layouts.tar.gz")

	inputs := []source.Input{namedInput(t, "adder.json", "adder"), namedInput(t, "mux.json", "mux")}

	err := visual.Place(context.Background(), &mock.Engine{}, inputs,
		visual.PlaceOpts{OutputDir: dir, Archive: archive}, &bytes.Buffer{})
	require.NoError(t, err)

	var names []string
	err = archiver.Walk(archive, func(f archiver.File) error {
		names = append(names, f.Name())
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"adder.layout.json", "mux.layout.json"}, names)
}

func Test_Place_ArchiveErrors(t *testing.T) {
	t.Parallel()

	inputs := []source.Input{namedInput(t, "adder.json", "adder")}

	err := visual.Place(context.Background(), &mock.Engine{}, inputs,
		visual.PlaceOpts{Archive: "layouts.tar.gz"}, &bytes.Buffer{})
	require.ErrorIs(t, err, visual.ErrOutputDirRequired)

	err = visual.Place(context.Background(), &mock.Engine{}, inputs,
		visual.PlaceOpts{OutputDir: t.TempDir(), Archive: filepath.Join(t.TempDir(), "layouts.zip")}, &bytes.Buffer{})
	require.ErrorContains(t, err, "can't create tar archive")
}

func Test_Place_OutputCollision(t *testing.T) {
	t.Parallel()

	inputs := []source.Input{namedInput(t, "a/adder.json", "a"), namedInput(t, "b/adder.yaml", "b")}

	err := visual.Place(context.Background(), &mock.Engine{}, inputs, visual.PlaceOpts{OutputDir: t.TempDir()}, &bytes.Buffer{})
	require.ErrorContains(t, err, "would both be written to")
}
