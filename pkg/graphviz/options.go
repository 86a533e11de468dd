package graphviz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/minispec/visual/pkg/elkgraph"
)

const (
	pointsPerInch = 72.0

	defaultSpacing = 20.0
	defaultPadding = 12.0
)

var (
	algorithmKeys = []string{"elk.algorithm", "org.eclipse.elk.algorithm", "algorithm"}
	directionKeys = []string{"elk.direction", "org.eclipse.elk.direction", "direction"}
	nodeSpacing   = []string{"elk.spacing.nodeNode", "org.eclipse.elk.spacing.nodeNode", "spacing.nodeNode"}
	layerSpacing  = []string{
		"elk.layered.spacing.nodeNodeBetweenLayers",
		"org.eclipse.elk.layered.spacing.nodeNodeBetweenLayers",
		"layered.spacing.nodeNodeBetweenLayers",
	}
	paddingKeys = []string{"elk.padding", "org.eclipse.elk.padding", "padding"}
)

// elkAlgorithms maps ELK algorithm ids to the closest Graphviz layout.
var elkAlgorithms = map[string]graphviz.Layout{
	"layered":     graphviz.DOT,
	"mrtree":      graphviz.DOT,
	"force":       graphviz.FDP,
	"stress":      graphviz.NEATO,
	"radial":      graphviz.TWOPI,
	"rectpacking": graphviz.OSAGE,
	"box":         graphviz.OSAGE,
}

var graphvizLayouts = map[string]graphviz.Layout{
	"circo":     graphviz.CIRCO,
	"dot":       graphviz.DOT,
	"fdp":       graphviz.FDP,
	"neato":     graphviz.NEATO,
	"osage":     graphviz.OSAGE,
	"patchwork": graphviz.PATCHWORK,
	"sfdp":      graphviz.SFDP,
	"twopi":     graphviz.TWOPI,
}

// ResolveAlgorithm maps an ELK algorithm id ("layered", "org.eclipse.elk.force"...) or a
// Graphviz layout name to a Graphviz layout.
func ResolveAlgorithm(name string) (graphviz.Layout, error) {
	id := strings.ToLower(strings.TrimSpace(name))
	if id == "" {
		return graphviz.DOT, nil
	}

	if l, ok := graphvizLayouts[id]; ok {
		return l, nil
	}

	if i := strings.LastIndex(id, "."); i >= 0 {
		id = id[i+1:]
	}
	if l, ok := elkAlgorithms[id]; ok {
		return l, nil
	}

	return "", fmt.Errorf("unsupported layout algorithm %q", name)
}

// rankdir maps an ELK direction to a Graphviz rankdir. ELK layered flows to the right unless
// told otherwise.
func rankdir(direction string) string {
	switch strings.ToUpper(strings.TrimSpace(direction)) {
	case "DOWN":
		return "TB"
	case "UP":
		return "BT"
	case "LEFT":
		return "RL"
	default:
		return "LR"
	}
}

type padding struct {
	Top, Left, Bottom, Right float64
}

// parsePadding reads ELK padding values: either a single number or "[top=..,left=..,bottom=..,right=..]".
func parsePadding(raw string, ok bool) (padding, error) {
	p := padding{defaultPadding, defaultPadding, defaultPadding, defaultPadding}
	if !ok {
		return p, nil
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return padding{v, v, v, v}, nil
	}

	body := strings.Trim(strings.TrimSpace(raw), "[]")
	for _, part := range strings.Split(body, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return p, fmt.Errorf("invalid padding %q", raw)
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return p, fmt.Errorf("invalid padding %q: %w", raw, err)
		}

		switch strings.TrimSpace(key) {
		case "top":
			p.Top = v
		case "left":
			p.Left = v
		case "bottom":
			p.Bottom = v
		case "right":
			p.Right = v
		default:
			return p, fmt.Errorf("invalid padding %q: unknown side %q", raw, key)
		}
	}

	return p, nil
}

func spacing(node *elkgraph.Node, keys []string) (float64, error) {
	raw, ok := node.Option(keys...)
	if !ok {
		return defaultSpacing, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid spacing %s=%q", keys[0], raw)
	}

	return v, nil
}

func inches(points float64) string {
	return strconv.FormatFloat(points/pointsPerInch, 'f', 4, 64)
}
