package depgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// ToDOT renders g as a bare Graphviz digraph: the opening line, one
// quoted edge per line in insertion order, and the closing brace. Nodes
// without edges are not listed.
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph {\n")
	for _, e := range g.edges {
		fmt.Fprintf(&buf, "%q -> %q;\n", e.From, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out a DOT document with Graphviz and returns SVG bytes.
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// sized from the viewBox so browsers scale the drawing.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	head := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(head))
}
