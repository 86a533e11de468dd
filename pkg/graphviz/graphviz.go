package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/minispec/visual/internal/logger"
	"github.com/minispec/visual/pkg/elkgraph"
)

// EngineName is the name of the Graphviz engine on the command line.
const EngineName = "graphviz"

// graphvizMutex serializes calls into the Graphviz runtime, which is not safe for concurrent use.
var graphvizMutex sync.Mutex

// Engine lays out graphs with Graphviz.
type Engine struct {
	// DefaultAlgorithm is used for levels that do not set elk.algorithm.
	// It accepts ELK algorithm ids as well as Graphviz layout names.
	DefaultAlgorithm string
}

func NewEngine(defaultAlgorithm string) *Engine {
	return &Engine{DefaultAlgorithm: defaultAlgorithm}
}

func (e *Engine) Name() string {
	return EngineName
}

// Layout returns a copy of graph with positions for every node, sizes for compound nodes and
// one section per source/target pair for every edge.
func (e *Engine) Layout(ctx context.Context, graph *elkgraph.Node) (*elkgraph.Node, error) {
	result := graph.Clone()
	clearSections(result)

	graphvizMutex.Lock()
	defer graphvizMutex.Unlock()

	g, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create graphviz: %w", err)
	}

	defer func() {
		_ = g.Close()
	}()

	tree := newHierarchy(result, e.DefaultAlgorithm)
	if err := e.layoutNode(ctx, g, tree, result); err != nil {
		return nil, err
	}

	tree.relocate()

	return result, nil
}

func clearSections(root *elkgraph.Node) {
	_ = elkgraph.Walk(root, func(node, _ *elkgraph.Node) error {
		for _, edge := range node.Edges {
			if edge != nil {
				edge.Sections = nil
			}
		}
		return nil
	})
}

// layoutNode lays out the children of node, deepest levels first, so that compound children
// already have their final size when their parent level runs.
func (e *Engine) layoutNode(ctx context.Context, g *graphviz.Graphviz, tree *hierarchy, node *elkgraph.Node) error {
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if err := e.layoutNode(ctx, g, tree, child); err != nil {
			return err
		}
	}

	lvl, err := tree.level(node)
	if err != nil {
		return err
	}

	if len(node.Children) == 0 {
		if node == tree.root {
			node.Width = lvl.padding.Left + lvl.padding.Right
			node.Height = lvl.padding.Top + lvl.padding.Bottom
		}
		return nil
	}

	rendered, err := render(ctx, g, lvl)
	if err != nil {
		return fmt.Errorf("node %q: %w", node.ID, err)
	}

	if err := lvl.apply(rendered); err != nil {
		return fmt.Errorf("node %q: %w", node.ID, err)
	}

	tree.nested = append(tree.nested, lvl.nested...)

	logger.Debugf("Placed %d children and %d edges of %q with %s", len(node.Children), len(lvl.routes), node.ID, lvl.layout)

	return nil
}

func render(ctx context.Context, g *graphviz.Graphviz, lvl *level) (*cgraph.Graph, error) {
	graph, err := graphviz.ParseBytes([]byte(lvl.dot()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphviz: %w", err)
	}

	defer func() {
		_ = graph.Close()
	}()

	var buf bytes.Buffer
	if err := g.SetLayout(lvl.layout).Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}

	out, err := graphviz.ParseBytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphviz output: %w", err)
	}

	return out, nil
}

// GenerateRawOutput returns the DOT text used to lay out the top level of graph.
func GenerateRawOutput(graph *elkgraph.Node, defaultAlgorithm string) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("no graph: %w", elkgraph.ErrMissingID)
	}

	lvl, err := newHierarchy(graph, defaultAlgorithm).level(graph)
	if err != nil {
		return "", err
	}

	return lvl.dot(), nil
}

// hierarchy resolves edge endpoints against the whole graph.
type hierarchy struct {
	root             *elkgraph.Node
	owners           map[string]*elkgraph.Node
	parents          map[string]*elkgraph.Node
	defaultAlgorithm string
	// routes holds the routes of every level, keyed by the level node.
	routes map[*elkgraph.Node][]route
	nested []nestedSection
}

func newHierarchy(root *elkgraph.Node, defaultAlgorithm string) *hierarchy {
	h := &hierarchy{
		root:             root,
		owners:           elkgraph.Index(root),
		parents:          elkgraph.Parents(root),
		defaultAlgorithm: defaultAlgorithm,
		routes:           map[*elkgraph.Node][]route{},
	}

	_ = elkgraph.Walk(root, func(node, _ *elkgraph.Node) error {
		for _, edge := range node.Edges {
			if edge == nil {
				continue
			}
			for _, src := range edge.Sources {
				for _, dst := range edge.Targets {
					h.addRoute(node, edge, src, dst)
				}
			}
		}
		return nil
	})

	return h
}

// addRoute routes src -> dst in the lowest level holding both endpoints, starting from the
// node the edge is defined on.
func (h *hierarchy) addRoute(container *elkgraph.Node, edge *elkgraph.Edge, src, dst string) {
	node := container

	for depth := 0; depth <= len(h.parents); depth++ {
		s, okSrc := h.lift(src, node)
		t, okDst := h.lift(dst, node)
		if !okSrc || !okDst {
			logger.Debugf("Edge %q (%s -> %s) crosses the boundary of %q, not routed", edge.ID, src, dst, node.ID)
			return
		}

		srcOwner, dstOwner := h.owners[src], h.owners[dst]

		if s != t || (srcOwner.ID == s && dstOwner.ID == s) {
			r := route{edge: edge, source: s, target: t}
			if node != container {
				r.container = container
			}
			h.routes[node] = append(h.routes[node], r)
			return
		}

		if srcOwner.ID == s || dstOwner.ID == s {
			logger.Debugf("Edge %q (%s -> %s) links %q to its own content, not routed", edge.ID, src, dst, s)
			return
		}

		// Both endpoints sit inside the same child.
		node = h.owners[s]
	}

	logger.Debugf("Edge %q (%s -> %s) has no level holding both endpoints, not routed", edge.ID, src, dst)
}

// lift returns the direct child of node containing the node or port ref. The climb is bounded
// by the depth of the graph, so reused ids cannot make it loop.
func (h *hierarchy) lift(ref string, node *elkgraph.Node) (string, bool) {
	steps := 0
	for cur := h.owners[ref]; cur != nil && cur != h.root && steps <= len(h.parents); cur = h.parents[cur.ID] {
		if h.parents[cur.ID] == node {
			return cur.ID, true
		}
		steps++
	}

	return "", false
}

// option reads a layout option of node, falling back on the root options.
func (h *hierarchy) option(node *elkgraph.Node, keys []string) (string, bool) {
	if v, ok := node.Option(keys...); ok {
		return v, true
	}

	return h.root.Option(keys...)
}

type route struct {
	edge           *elkgraph.Edge
	source, target string
	// container is set when the edge is defined on an ancestor of the routing level.
	container *elkgraph.Node
}

// nestedSection is a section computed in the coordinates of level, to be moved into the
// coordinates of container.
type nestedSection struct {
	edge             *elkgraph.Edge
	index            int
	level, container *elkgraph.Node
}

// relocate moves the sections routed in nested levels into the coordinate system of the node
// their edge is defined on. It runs once every level has its position.
func (h *hierarchy) relocate() {
	for _, ns := range h.nested {
		var offset elkgraph.Point
		steps := 0
		for cur := ns.level; cur != nil && cur != ns.container && steps <= len(h.parents); cur = h.parents[cur.ID] {
			offset.X += cur.X
			offset.Y += cur.Y
			steps++
		}

		section := &ns.edge.Sections[ns.index]
		section.StartPoint = translate(section.StartPoint, offset)
		section.EndPoint = translate(section.EndPoint, offset)
		for i, p := range section.BendPoints {
			section.BendPoints[i] = translate(p, offset)
		}
	}

	h.nested = nil
}

func translate(p, offset elkgraph.Point) elkgraph.Point {
	return elkgraph.Point{X: p.X + offset.X, Y: p.Y + offset.Y}
}

// level is one hierarchy level: the children of a node and the edges defined on it.
type level struct {
	node             *elkgraph.Node
	routes           []route
	layout           graphviz.Layout
	rankdir          string
	nodesep, ranksep float64
	padding          padding
	nested           []nestedSection
}

func (h *hierarchy) level(node *elkgraph.Node) (*level, error) {
	algorithm, ok := h.option(node, algorithmKeys)
	if !ok {
		algorithm = h.defaultAlgorithm
	}

	layout, err := ResolveAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}

	direction, _ := h.option(node, directionKeys)

	nodesep, err := spacing(node, nodeSpacing)
	if err != nil {
		return nil, err
	}

	ranksep, err := spacing(node, layerSpacing)
	if err != nil {
		return nil, err
	}

	pad, err := parsePadding(node.Option(paddingKeys...))
	if err != nil {
		return nil, err
	}

	lvl := &level{
		node:    node,
		layout:  layout,
		rankdir: rankdir(direction),
		nodesep: nodesep,
		ranksep: ranksep,
		padding: pad,
		routes:  h.routes[node],
	}

	return lvl, nil
}

func (l *level) dot() string {
	raw := []string{
		fmt.Sprintf("digraph %s {\n", quote(l.node.ID)),
		fmt.Sprintf("  graph[rankdir=%q, nodesep=%q, ranksep=%q, splines=polyline];\n",
			l.rankdir, inches(l.nodesep), inches(l.ranksep)),
		"  node[shape=box, fixedsize=true, label=\"\", margin=0];\n",
		"  edge[arrowhead=none];\n",
		"\n",
	}

	for _, child := range l.node.Children {
		if child == nil {
			continue
		}
		raw = append(raw, fmt.Sprintf("  %s [width=%q, height=%q];\n",
			quote(child.ID), inches(max(child.Width, 1)), inches(max(child.Height, 1))))
	}

	for i, r := range l.routes {
		raw = append(raw, fmt.Sprintf("  %s -> %s [id=\"r%d\"];\n", quote(r.source), quote(r.target), i))
	}

	raw = append(raw, "}\n")

	return strings.Join(raw, "")
}

// apply reads the rendered level back. Graphviz coordinates (origin bottom-left) become
// coordinates relative to the level node (origin top-left, padding included).
func (l *level) apply(out *cgraph.Graph) error {
	defer func() {
		_ = out.Close()
	}()

	bb, err := parseBox(out.GetStr("bb"))
	if err != nil {
		return err
	}

	toLevel := func(x, y float64) elkgraph.Point {
		return elkgraph.Point{
			X: l.padding.Left + (x - bb[0]),
			Y: l.padding.Top + (bb[3] - y),
		}
	}

	children := make(map[string]*elkgraph.Node, len(l.node.Children))
	for _, child := range l.node.Children {
		if child != nil {
			children[child.ID] = child
		}
	}

	n, err := out.FirstNode()
	for ; err == nil && n != nil; n, err = out.NextNode(n) {
		name, err := n.Name()
		if err != nil {
			return err
		}

		child, ok := children[name]
		if !ok {
			continue
		}

		center, err := parsePoint(n.GetStr("pos"))
		if err != nil {
			return fmt.Errorf("node %q: %w", name, err)
		}

		p := toLevel(center.X, center.Y)
		child.X = p.X - child.Width/2
		child.Y = p.Y - child.Height/2

		if err := l.applyEdges(out, n, toLevel); err != nil {
			return err
		}
	}
	if err != nil {
		return err
	}

	l.node.Width = l.padding.Left + (bb[2] - bb[0]) + l.padding.Right
	l.node.Height = l.padding.Top + (bb[3] - bb[1]) + l.padding.Bottom

	return nil
}

func (l *level) applyEdges(out *cgraph.Graph, n *cgraph.Node, toLevel func(x, y float64) elkgraph.Point) error {
	e, err := out.FirstOut(n)
	for ; err == nil && e != nil; e, err = out.NextOut(e) {
		id := strings.TrimPrefix(e.GetStr("id"), "r")

		i, convErr := strconv.Atoi(id)
		if convErr != nil || i < 0 || i >= len(l.routes) {
			continue
		}

		r := l.routes[i]

		section, sErr := parseSpline(e.GetStr("pos"), toLevel)
		if sErr != nil {
			return fmt.Errorf("edge %q: %w", r.edge.ID, sErr)
		}

		section.ID = fmt.Sprintf("%s_s%d", r.edge.ID, len(r.edge.Sections))
		r.edge.Sections = append(r.edge.Sections, section)

		if r.container != nil {
			l.nested = append(l.nested, nestedSection{
				edge:      r.edge,
				index:     len(r.edge.Sections) - 1,
				level:     l.node,
				container: r.container,
			})
		}
	}

	return err
}

func quote(id string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(id) + `"`
}
