package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/hausweber/heatnet/pkg/geom"
	"github.com/hausweber/heatnet/pkg/synth"
)

// ToDOT converts a result to Graphviz DOT format for schematic visualization.
// The supply network is drawn as an undirected graph whose vertices are the
// unique segment endpoints; attachment points carry their terminal ID as
// label. The resulting DOT string can be rendered with [RenderSVG] or
// [RenderPNG].
func ToDOT(res *synth.Result) string {
	labels := make(map[geom.Point]string, len(res.Connections))
	for _, c := range res.Connections {
		labels[c.Point] = c.TerminalID
	}

	ids := make(map[geom.Point]int)
	nodeID := func(p geom.Point) int {
		id, ok := ids[p]
		if !ok {
			id = len(ids)
			ids[p] = id
		}
		return id
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=point, width=0.08];\n")
	buf.WriteString("  edge [color=\"" + colorSupply + "\", penwidth=2];\n")
	buf.WriteString("\n")

	var edges bytes.Buffer
	for _, s := range res.Supply {
		fmt.Fprintf(&edges, "  n%d -- n%d;\n", nodeID(s.A), nodeID(s.B))
	}

	for _, pe := range pointsByID(ids) {
		if label, ok := labels[pe.p]; ok {
			fmt.Fprintf(&buf, "  n%d [shape=circle, width=0.25, label=%q, fontsize=10, pos=\"%f,%f!\"];\n",
				pe.id, label, pe.p.X, pe.p.Y)
			continue
		}
		fmt.Fprintf(&buf, "  n%d [pos=\"%f,%f!\"];\n", pe.id, pe.p.X, pe.p.Y)
	}

	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String()
}

type pointEntry struct {
	p  geom.Point
	id int
}

func pointsByID(ids map[geom.Point]int) []pointEntry {
	out := make([]pointEntry, len(ids))
	for p, id := range ids {
		out[id] = pointEntry{p: p, id: id}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPNG renders a DOT graph as PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
