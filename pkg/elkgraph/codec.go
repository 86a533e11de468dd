package elkgraph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the serialization of a graph description.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrEmptyInput is returned when a graph description has no content at all.
var ErrEmptyInput = errors.New("empty graph description")

// FormatFromPath guesses the format of a graph description from its file extension.
// Anything that is not a YAML file is read as JSON, which is what ELK tooling produces.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a graph description.
func Parse(r io.Reader, format Format) (*Node, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph description: %w", err)
	}

	return ParseBytes(raw, format)
}

// ParseBytes decodes a graph description held in memory.
func ParseBytes(raw []byte, format Format) (*Node, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyInput
	}

	root := &Node{}

	switch format {
	case FormatJSON, "":
		if err := json.Unmarshal(raw, root); err != nil {
			return nil, fmt.Errorf("failed to parse JSON graph description: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, root); err != nil {
			return nil, fmt.Errorf("failed to parse YAML graph description: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported graph description format %q", format)
	}

	return root, nil
}

// Encode writes the graph as JSON, followed by a newline.
func Encode(w io.Writer, root *Node, pretty bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(root); err != nil {
		return fmt.Errorf("failed to encode graph %q: %w", root.ID, err)
	}

	return nil
}

// Marshal returns the JSON encoding of the graph.
func Marshal(root *Node, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, root, pretty); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Sample returns the small graph used when no graph description is provided.
func Sample() *Node {
	return &Node{
		ID:            "root",
		LayoutOptions: map[string]any{"elk.algorithm": "layered"},
		Children: []*Node{
			{ID: "n1", Width: 30, Height: 30},
			{ID: "n2", Width: 30, Height: 30},
			{ID: "n3", Width: 30, Height: 30},
		},
		Edges: []*Edge{
			{ID: "e1", Sources: []string{"n1"}, Targets: []string{"n2"}},
			{ID: "e2", Sources: []string{"n1"}, Targets: []string{"n3"}},
		},
	}
}
