package graphviz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/minispec/visual/pkg/elkgraph"
)

// parsePoint reads a Graphviz point "x,y", optionally followed by "!".
func parsePoint(raw string) (elkgraph.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSuffix(strings.TrimSpace(raw), "!"), ",")
	if !ok {
		return elkgraph.Point{}, fmt.Errorf("invalid graphviz point %q", raw)
	}

	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return elkgraph.Point{}, fmt.Errorf("invalid graphviz point %q: %w", raw, err)
	}

	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return elkgraph.Point{}, fmt.Errorf("invalid graphviz point %q: %w", raw, err)
	}

	return elkgraph.Point{X: x, Y: y}, nil
}

// parseBox reads a Graphviz rectangle "llx,lly,urx,ury".
func parseBox(raw string) ([4]float64, error) {
	var box [4]float64

	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != len(box) {
		return box, fmt.Errorf("invalid graphviz bounding box %q", raw)
	}

	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return box, fmt.Errorf("invalid graphviz bounding box %q: %w", raw, err)
		}
		box[i] = v
	}

	return box, nil
}

// parseSpline converts a Graphviz edge "pos" into an ELK section. The spline is a list of
// Bezier control points, optionally prefixed by "s,x,y" and "e,x,y" arrow end points; every
// third control point lies on the curve, so with polyline splines those are the bend points.
func parseSpline(raw string, transform func(x, y float64) elkgraph.Point) (elkgraph.Section, error) {
	var (
		section    elkgraph.Section
		points     []elkgraph.Point
		start, end *elkgraph.Point
	)

	// Multiple splines are separated by ";", only the first is used.
	first, _, _ := strings.Cut(raw, ";")

	for _, token := range strings.Fields(first) {
		switch {
		case strings.HasPrefix(token, "s,"):
			p, err := parsePoint(strings.TrimPrefix(token, "s,"))
			if err != nil {
				return section, err
			}
			p = transform(p.X, p.Y)
			start = &p
		case strings.HasPrefix(token, "e,"):
			p, err := parsePoint(strings.TrimPrefix(token, "e,"))
			if err != nil {
				return section, err
			}
			p = transform(p.X, p.Y)
			end = &p
		default:
			p, err := parsePoint(token)
			if err != nil {
				return section, err
			}
			points = append(points, transform(p.X, p.Y))
		}
	}

	if len(points) < 2 {
		return section, fmt.Errorf("invalid graphviz spline %q", raw)
	}

	section.StartPoint = points[0]
	section.EndPoint = points[len(points)-1]

	if start != nil {
		section.StartPoint = *start
	}
	if end != nil {
		section.EndPoint = *end
	}

	for i := 3; i < len(points)-1; i += 3 {
		section.BendPoints = append(section.BendPoints, points[i])
	}

	return section, nil
}
