package visual

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/minispec/visual/pkg/elkgraph"
	"github.com/minispec/visual/pkg/layout"
	"github.com/minispec/visual/pkg/source"
	"github.com/minispec/visual/pkg/strutil"
	"github.com/olekukonko/tablewriter"
)

type InspectOpts struct {
	// Root options
	EngineOpts `mapstructure:",squash"`

	// Inspect specific options
	Graph    string `mapstructure:"graph"`
	NoLayout bool   `mapstructure:"no_layout"`
}

// Inspect lays out the input, unless opts.NoLayout is set, then prints the node hierarchy
// followed by the geometry of every node and edge.
func Inspect(ctx context.Context, engine layout.Engine, input source.Input, opts InspectOpts, w io.Writer) error {
	graph, err := input.Graph()
	if err != nil {
		return err
	}

	if !opts.NoLayout {
		overrides, err := strutil.ParseKeyValues(opts.LayoutOption)
		if err != nil {
			return err
		}
		elkgraph.SetLayoutOptions(graph, overrides)

		graph, err = layout.Apply(ctx, engine, graph)
		if err != nil {
			return fmt.Errorf("%s: %w", input.Name, err)
		}
	} else if err := elkgraph.Validate(graph); err != nil {
		return fmt.Errorf("%s: invalid graph description: %w", input.Name, err)
	}

	if err := elkgraph.DefaultPrinter.WithRoot(graph).WithWriter(w).Render(); err != nil {
		return err
	}

	renderNodes(graph, w)
	_, _ = fmt.Fprintln(w)
	renderEdges(graph, w)

	return nil
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	return table
}

// renderNodes displays the geometry of every node, in walk order.
func renderNodes(root *elkgraph.Node, w io.Writer) {
	var data [][]string

	positions := elkgraph.AbsolutePositions(root)

	_ = elkgraph.Walk(root, func(node, parent *elkgraph.Node) error {
		if parent == nil {
			return nil
		}

		abs := positions[node.ID]
		data = append(data, []string{
			node.ID, parent.ID,
			formatFloat(node.X), formatFloat(node.Y),
			formatFloat(node.Width), formatFloat(node.Height),
			formatFloat(abs.X), formatFloat(abs.Y),
		})

		return nil
	})

	table := newTable(w)
	table.AppendBulk(data)
	table.SetHeader([]string{"Node", "Parent", "X", "Y", "Width", "Height", "Abs X", "Abs Y"})
	table.Render()
}

// renderEdges displays every edge with the number of routed sections and bend points.
func renderEdges(root *elkgraph.Node, w io.Writer) {
	var data [][]string

	_ = elkgraph.Walk(root, func(node, _ *elkgraph.Node) error {
		for _, edge := range node.Edges {
			bends := 0
			for _, section := range edge.Sections {
				bends += len(section.BendPoints)
			}

			data = append(data, []string{
				edge.ID, node.ID,
				strings.Join(edge.Sources, ","), strings.Join(edge.Targets, ","),
				strconv.Itoa(len(edge.Sections)), strconv.Itoa(bends),
			})
		}

		return nil
	})

	table := newTable(w)
	table.AppendBulk(data)
	table.SetHeader([]string{"Edge", "Container", "Sources", "Targets", "Sections", "Bend points"})
	table.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
