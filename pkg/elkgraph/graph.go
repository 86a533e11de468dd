package elkgraph

import (
	"fmt"
	"maps"
)

// Point is a coordinate in the parent's coordinate system.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Label is a text attached to a node, port or edge.
type Label struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	Text   string  `json:"text,omitempty" yaml:"text,omitempty"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Port is a connection point on the border of a node.
type Port struct {
	ID            string         `json:"id" yaml:"id"`
	LayoutOptions map[string]any `json:"layoutOptions,omitempty" yaml:"layoutOptions,omitempty"`
	X             float64        `json:"x" yaml:"x"`
	Y             float64        `json:"y" yaml:"y"`
	Width         float64        `json:"width" yaml:"width"`
	Height        float64        `json:"height" yaml:"height"`
	Labels        []Label        `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Section is one routed piece of an edge.
type Section struct {
	ID            string  `json:"id" yaml:"id"`
	StartPoint    Point   `json:"startPoint" yaml:"startPoint"`
	EndPoint      Point   `json:"endPoint" yaml:"endPoint"`
	BendPoints    []Point `json:"bendPoints,omitempty" yaml:"bendPoints,omitempty"`
	IncomingShape string  `json:"incomingShape,omitempty" yaml:"incomingShape,omitempty"`
	OutgoingShape string  `json:"outgoingShape,omitempty" yaml:"outgoingShape,omitempty"`
}

// Edge connects one or more sources to one or more targets. Sources and targets are node or
// port ids.
type Edge struct {
	ID            string         `json:"id" yaml:"id"`
	Sources       []string       `json:"sources" yaml:"sources"`
	Targets       []string       `json:"targets" yaml:"targets"`
	LayoutOptions map[string]any `json:"layoutOptions,omitempty" yaml:"layoutOptions,omitempty"`
	Labels        []Label        `json:"labels,omitempty" yaml:"labels,omitempty"`
	Sections      []Section      `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// Node is a box in the graph. The root node of a graph description is the graph itself.
type Node struct {
	ID            string         `json:"id" yaml:"id"`
	LayoutOptions map[string]any `json:"layoutOptions,omitempty" yaml:"layoutOptions,omitempty"`
	X             float64        `json:"x" yaml:"x"`
	Y             float64        `json:"y" yaml:"y"`
	Width         float64        `json:"width" yaml:"width"`
	Height        float64        `json:"height" yaml:"height"`
	Labels        []Label        `json:"labels,omitempty" yaml:"labels,omitempty"`
	Ports         []Port         `json:"ports,omitempty" yaml:"ports,omitempty"`
	Children      []*Node        `json:"children,omitempty" yaml:"children,omitempty"`
	Edges         []*Edge        `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// Option returns the first layout option found among keys, formatted as a string.
// ELK accepts the same option with or without its "org.eclipse." or "elk." prefix, so callers
// usually pass every spelling.
func (n *Node) Option(keys ...string) (string, bool) {
	if n == nil || n.LayoutOptions == nil {
		return "", false
	}

	for _, key := range keys {
		if v, ok := n.LayoutOptions[key]; ok && v != nil {
			return fmt.Sprint(v), true
		}
	}

	return "", false
}

// IsCompound reports whether the node contains other nodes.
func (n *Node) IsCompound() bool {
	return len(n.Children) > 0
}

// Clone returns a deep copy of the node and everything below it.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	c := *n
	c.LayoutOptions = maps.Clone(n.LayoutOptions)
	c.Labels = cloneLabels(n.Labels)

	if n.Ports != nil {
		c.Ports = make([]Port, len(n.Ports))
		for i, p := range n.Ports {
			p.LayoutOptions = maps.Clone(p.LayoutOptions)
			p.Labels = cloneLabels(p.Labels)
			c.Ports[i] = p
		}
	}

	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}

	if n.Edges != nil {
		c.Edges = make([]*Edge, len(n.Edges))
		for i, e := range n.Edges {
			c.Edges[i] = e.Clone()
		}
	}

	return &c
}

// Clone returns a deep copy of the edge.
func (e *Edge) Clone() *Edge {
	if e == nil {
		return nil
	}

	c := *e
	c.Sources = append([]string(nil), e.Sources...)
	c.Targets = append([]string(nil), e.Targets...)
	c.LayoutOptions = maps.Clone(e.LayoutOptions)
	c.Labels = cloneLabels(e.Labels)

	if e.Sections != nil {
		c.Sections = make([]Section, len(e.Sections))
		for i, s := range e.Sections {
			s.BendPoints = append([]Point(nil), s.BendPoints...)
			c.Sections[i] = s
		}
	}

	return &c
}

func cloneLabels(labels []Label) []Label {
	if labels == nil {
		return nil
	}

	return append([]Label(nil), labels...)
}
