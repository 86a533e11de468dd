package elkgraph

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// DefaultPrinter renders trees with box-drawing characters.
var DefaultPrinter = GraphPrinter{
	TopRightCornerString: "└",
	TopRightDownString:   "├",
	HorizontalString:     "─",
	VerticalString:       "│",
	RightDownLeftString:  "┬",
	Indent:               3,
}

// GraphPrinter prints the node hierarchy of a graph with the geometry of every node.
type GraphPrinter struct {
	Root                 *Node
	TreeStyle            *pterm.Style
	TextStyle            *pterm.Style
	TopRightCornerString string
	TopRightDownString   string
	HorizontalString     string
	VerticalString       string
	RightDownLeftString  string
	Indent               int
	Writer               io.Writer
}

// WithRoot returns a new GraphPrinter with a specific Root node.
func (p GraphPrinter) WithRoot(root *Node) *GraphPrinter {
	p.Root = root
	return &p
}

// WithWriter returns a new GraphPrinter writing to w.
func (p GraphPrinter) WithWriter(w io.Writer) *GraphPrinter {
	p.Writer = w
	return &p
}

// Render prints the tree.
func (p GraphPrinter) Render() error {
	if p.Root == nil {
		return fmt.Errorf("nothing to render: %w", ErrMissingID)
	}

	s := p.Srender()
	if p.Writer == nil {
		pterm.Println(s)
		return nil
	}

	pterm.Fprintln(p.Writer, s)

	return nil
}

// Srender renders the tree as a string.
func (p GraphPrinter) Srender() string {
	if p.TreeStyle == nil {
		p.TreeStyle = pterm.NewStyle()
	}
	if p.TextStyle == nil {
		p.TextStyle = pterm.NewStyle()
	}

	result := p.TextStyle.Sprint(describe(p.Root)) + "\n"
	result += walkOverTree(p.Root.Children, p, "")

	return result
}

func describe(n *Node) string {
	return fmt.Sprintf("%s (x=%g, y=%g, %gx%g)", n.ID, n.X, n.Y, n.Width, n.Height)
}

func walkOverTree(nodes []*Node, printer GraphPrinter, prefix string) string {
	var res strings.Builder

	for i, node := range nodes {
		last := i == len(nodes)-1

		branch := printer.TopRightDownString
		childPrefix := prefix + printer.TreeStyle.Sprint(printer.VerticalString) + strings.Repeat(" ", printer.Indent-1)
		if last {
			branch = printer.TopRightCornerString
			childPrefix = prefix + strings.Repeat(" ", printer.Indent)
		}

		res.WriteString(prefix + printer.TreeStyle.Sprint(branch))
		if node.IsCompound() {
			res.WriteString(strings.Repeat(printer.TreeStyle.Sprint(printer.HorizontalString), printer.Indent-1))
			res.WriteString(printer.TreeStyle.Sprint(printer.RightDownLeftString))
		} else {
			res.WriteString(strings.Repeat(printer.TreeStyle.Sprint(printer.HorizontalString), printer.Indent))
		}
		res.WriteString(printer.TextStyle.Sprint(describe(node)) + "\n")

		if node.IsCompound() {
			res.WriteString(walkOverTree(node.Children, printer, childPrefix))
		}
	}

	return res.String()
}
