package render

import (
	"strings"
	"testing"

	"github.com/hausweber/heatnet/pkg/geom"
	"github.com/hausweber/heatnet/pkg/synth"
)

func sampleResult() *synth.Result {
	return &synth.Result{
		Connections: []synth.Connection{
			{TerminalID: "b1", Point: geom.Point{X: 5, Y: 0}, Kind: synth.EdgeSplit, EdgeID: 1},
		},
		Supply: synth.Network{
			{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 5, Y: 0}},
			{A: geom.Point{X: 5, Y: 0}, B: geom.Point{X: 10, Y: 0}},
		},
		Return: synth.Network{
			{A: geom.Point{X: 1, Y: 1}, B: geom.Point{X: 6, Y: 1}},
			{A: geom.Point{X: 6, Y: 1}, B: geom.Point{X: 11, Y: 1}},
		},
		Houses: []synth.HouseConnection{
			{BuildingID: "b1", Line: geom.Segment{A: geom.Point{X: 5, Y: 2}, B: geom.Point{X: 6, Y: 3}}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleResult())

	if !strings.HasPrefix(dot, "graph G {") {
		t.Fatalf("expected undirected graph header, got %q", dot[:20])
	}
	if strings.Contains(dot, "->") {
		t.Error("schematic must use undirected edges")
	}
	if got := strings.Count(dot, " -- "); got != 2 {
		t.Errorf("expected 2 edges, got %d\n%s", got, dot)
	}
	if !strings.Contains(dot, `label="b1"`) {
		t.Errorf("attachment point should be labeled with its terminal ID\n%s", dot)
	}
	// Three unique endpoints across the two supply segments.
	if got := strings.Count(dot, "pos="); got != 3 {
		t.Errorf("expected 3 positioned nodes, got %d\n%s", got, dot)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	res := sampleResult()
	first := ToDOT(res)
	for i := 0; i < 5; i++ {
		if got := ToDOT(res); got != first {
			t.Fatal("DOT output should be deterministic across runs")
		}
	}
}

func TestRenderPlanSVG(t *testing.T) {
	svg := string(RenderPlanSVG(sampleResult()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Fatalf("missing SVG header:\n%s", svg)
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("SVG not closed")
	}
	// 2 supply + 2 return + 1 house line.
	if got := strings.Count(svg, "<line "); got != 5 {
		t.Errorf("expected 5 lines, got %d\n%s", got, svg)
	}
	if got := strings.Count(svg, "<circle "); got != 1 {
		t.Errorf("expected 1 attachment marker, got %d", got)
	}
	if !strings.Contains(svg, colorSupply) || !strings.Contains(svg, colorReturn) {
		t.Error("supply and return strokes missing")
	}
}

func TestRenderPlanSVGOptions(t *testing.T) {
	res := sampleResult()

	svg := string(RenderPlanSVG(res, WithoutReturn(), WithoutAttachments()))
	if strings.Contains(svg, colorReturn) {
		t.Error("WithoutReturn should omit the return network")
	}
	if strings.Contains(svg, "<circle ") {
		t.Error("WithoutAttachments should omit markers")
	}

	labeled := string(RenderPlanSVG(res, WithLabels()))
	if !strings.Contains(labeled, ">b1</text>") {
		t.Errorf("WithLabels should draw the terminal ID\n%s", labeled)
	}
}

func TestRenderPlanSVGEmptyResult(t *testing.T) {
	svg := string(RenderPlanSVG(&synth.Result{}))
	if !strings.Contains(svg, "<svg ") || !strings.Contains(svg, "</svg>") {
		t.Fatalf("empty result should still render a valid SVG:\n%s", svg)
	}
}
