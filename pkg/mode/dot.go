package mode

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// edges are the legal transitions, in the order they are drawn.
var edges = []Transition{
	{Nothing, ShowingModel, "model loaded"},
	{Nothing, ShowingGcode, "gcode loaded"},
	{ShowingModel, ShowingModel, "model loaded"},
	{ShowingGcode, ShowingGcode, "gcode loaded"},
	{ShowingModel, ShowingBoth, "gcode loaded"},
	{ShowingGcode, ShowingBoth, "model loaded"},
	{ShowingBoth, ShowingBoth, "model loaded / gcode loaded"},
	{ShowingModel, MovingModel, "move started"},
	{MovingModel, ShowingModel, "move finished"},
	{ShowingBoth, MovingModel, "move started"},
	{MovingModel, ShowingBoth, "move finished"},
}

// Edges returns the legal transitions.
func Edges() []Transition { return append([]Transition(nil), edges...) }

// DOT renders the state machine as a Graphviz digraph. Each node lists its
// capability mask.
func DOT() string {
	var b strings.Builder
	b.WriteString("digraph modes {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\"];\n")
	for _, m := range Modes {
		ops := Capabilities(m).Operations()
		names := make([]string, len(ops))
		for i, op := range ops {
			names[i] = op.String()
		}
		fmt.Fprintf(&b, "  %q [label=\"%s\\n%s\"];\n", m.String(), m, strings.Join(names, ", "))
	}
	for _, e := range edges {
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.From.String(), e.To.String(), e.Event)
	}
	b.WriteString("}\n")
	return b.String()
}

// SVG lays out DOT with Graphviz and returns the diagram as SVG.
func SVG(ctx context.Context) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(DOT()))
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
