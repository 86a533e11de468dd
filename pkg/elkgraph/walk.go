package elkgraph

import "fmt"

// WalkFunc is called for every node with its parent, nil for the root.
// Returning an error stops the walk.
type WalkFunc func(node, parent *Node) error

// Walk visits the node hierarchy depth first, parents before children.
func Walk(root *Node, fn WalkFunc) error {
	return walk(root, nil, fn)
}

func walk(node, parent *Node, fn WalkFunc) error {
	if node == nil {
		return nil
	}

	if err := fn(node, parent); err != nil {
		return err
	}

	for _, child := range node.Children {
		if err := walk(child, node, fn); err != nil {
			return err
		}
	}

	return nil
}

// Index maps every node and port id to the node that carries it: a node owns itself and its
// ports. Layout engines use it to resolve edge endpoints to boxes.
func Index(root *Node) map[string]*Node {
	owners := map[string]*Node{}

	_ = Walk(root, func(node, _ *Node) error {
		owners[node.ID] = node
		for _, port := range node.Ports {
			owners[port.ID] = node
		}
		return nil
	})

	return owners
}

// Parents maps every node id to its parent node. The root is absent.
func Parents(root *Node) map[string]*Node {
	parents := map[string]*Node{}

	_ = Walk(root, func(node, parent *Node) error {
		if parent != nil {
			parents[node.ID] = parent
		}
		return nil
	})

	return parents
}

// CountNodes returns the number of nodes below root, root excluded.
func CountNodes(root *Node) int {
	count := -1
	_ = Walk(root, func(*Node, *Node) error {
		count++
		return nil
	})

	return max(count, 0)
}

// SetLayoutOptions merges overrides into the root layout options.
func SetLayoutOptions(root *Node, overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}

	if root.LayoutOptions == nil {
		root.LayoutOptions = make(map[string]any, len(overrides))
	}

	for k, v := range overrides {
		root.LayoutOptions[k] = v
	}
}

// AbsolutePositions maps every node id to its position in the root coordinate system.
func AbsolutePositions(root *Node) map[string]Point {
	positions := map[string]Point{}

	_ = Walk(root, func(node, parent *Node) error {
		p := Point{X: node.X, Y: node.Y}
		if parent != nil && parent != root {
			offset := positions[parent.ID]
			p.X += offset.X
			p.Y += offset.Y
		}
		positions[node.ID] = p
		return nil
	})

	return positions
}

// AbsolutePosition returns the position of the node in the root coordinate system.
func AbsolutePosition(root *Node, id string) (Point, error) {
	p, ok := AbsolutePositions(root)[id]
	if !ok {
		return Point{}, fmt.Errorf("node %q: %w", id, ErrUnknownEndpoint)
	}

	return p, nil
}
