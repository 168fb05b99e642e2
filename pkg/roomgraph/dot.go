package roomgraph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// categoryStyles maps categories to DOT node attributes.
var categoryStyles = map[Category]string{
	Entrance:   `shape=house, fillcolor="#b7e4c7"`,
	Corridor:   `shape=box, style="rounded,filled,dashed", fillcolor="#e9ecef"`,
	CorridorNS: `shape=box, style="rounded,filled,dashed", fillcolor="#e9ecef"`,
	CorridorEW: `shape=box, style="rounded,filled,dashed", fillcolor="#e9ecef"`,
	Boss:       `shape=doubleoctagon, fillcolor="#f4a3a8"`,
	Normal:     `shape=box, fillcolor=white`,
	None:       `shape=box, style="filled,dotted", fillcolor="#f8f9fa"`,
}

// ToDOT returns a Graphviz DOT representation of the room graph.
//
// Nodes are labeled with their id and category; edges point from parent to
// child in declaration order. Corridors are drawn dashed, the entrance as a
// house and the boss room as a double octagon.
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph RoomGraph {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled];\n")
	if g.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", g.Name)
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		label := n.ID + "\n" + n.Category.String()
		fmt.Fprintf(&buf, "  %q [label=%q, %s];\n", n.ID, label, categoryStyles[n.Category])
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT document to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
