package elkgraph

import (
	"errors"
	"fmt"
)

var (
	ErrMissingID       = errors.New("missing id")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrNoEndpoints     = errors.New("edge needs at least one source and one target")
	ErrUnknownEndpoint = errors.New("unknown edge endpoint")
	ErrNegativeSize    = errors.New("negative size")
)

// Validate checks the structural rules every layout engine relies on: ids are present and
// unique, sizes are not negative, and edges only reference nodes or ports of the graph.
func Validate(root *Node) error {
	if root == nil {
		return fmt.Errorf("graph: %w", ErrMissingID)
	}

	shapes := map[string]struct{}{}
	edges := map[string]struct{}{}

	var allEdges []*Edge

	err := Walk(root, func(node, _ *Node) error {
		if node.ID == "" {
			return fmt.Errorf("node: %w", ErrMissingID)
		}
		if node.Width < 0 || node.Height < 0 {
			return fmt.Errorf("node %q: %w", node.ID, ErrNegativeSize)
		}
		if err := claim(shapes, node.ID, "node"); err != nil {
			return err
		}

		for _, child := range node.Children {
			if child == nil {
				return fmt.Errorf("child of node %q: %w", node.ID, ErrMissingID)
			}
		}

		for _, port := range node.Ports {
			if port.ID == "" {
				return fmt.Errorf("port of node %q: %w", node.ID, ErrMissingID)
			}
			if port.Width < 0 || port.Height < 0 {
				return fmt.Errorf("port %q: %w", port.ID, ErrNegativeSize)
			}
			if err := claim(shapes, port.ID, "port"); err != nil {
				return err
			}
		}

		for _, edge := range node.Edges {
			if edge == nil || edge.ID == "" {
				return fmt.Errorf("edge of node %q: %w", node.ID, ErrMissingID)
			}
			if err := claim(edges, edge.ID, "edge"); err != nil {
				return err
			}
			allEdges = append(allEdges, edge)
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, edge := range allEdges {
		if len(edge.Sources) == 0 || len(edge.Targets) == 0 {
			return fmt.Errorf("edge %q: %w", edge.ID, ErrNoEndpoints)
		}

		for _, ref := range append(append([]string{}, edge.Sources...), edge.Targets...) {
			if _, ok := shapes[ref]; !ok || ref == root.ID {
				return fmt.Errorf("edge %q references %q: %w", edge.ID, ref, ErrUnknownEndpoint)
			}
		}
	}

	return nil
}

func claim(seen map[string]struct{}, id, kind string) error {
	if _, ok := seen[id]; ok {
		return fmt.Errorf("%s %q: %w", kind, id, ErrDuplicateID)
	}
	seen[id] = struct{}{}

	return nil
}
