package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/hausweber/heatnet/pkg/geom"
	"github.com/hausweber/heatnet/pkg/synth"
)

// Plan colors, chosen to match common district heating plan conventions:
// supply warm red, return cool blue.
const (
	colorSupply    = "#c0392b"
	colorReturn    = "#2980b9"
	colorHouse     = "#27ae60"
	colorGenerator = "#e67e22"
	colorAttach    = "#2c3e50"
)

type PlanOption func(*planRenderer)

type planRenderer struct {
	scale       float64
	padding     float64
	strokeWidth float64
	showReturn  bool
	showAttach  bool
	labels      bool
}

// WithScale sets the SVG units per length unit. Default 10.
func WithScale(s float64) PlanOption { return func(r *planRenderer) { r.scale = s } }

// WithPadding sets the margin around the drawing in length units. Default 2.
func WithPadding(p float64) PlanOption { return func(r *planRenderer) { r.padding = p } }

// WithoutReturn omits the return network from the plan.
func WithoutReturn() PlanOption { return func(r *planRenderer) { r.showReturn = false } }

// WithoutAttachments omits the attachment point markers.
func WithoutAttachments() PlanOption { return func(r *planRenderer) { r.showAttach = false } }

// WithLabels draws terminal IDs next to their attachment points.
func WithLabels() PlanOption { return func(r *planRenderer) { r.labels = true } }

// RenderPlanSVG draws the result as a to-scale SVG plan.
func RenderPlanSVG(res *synth.Result, opts ...PlanOption) []byte {
	r := planRenderer{
		scale:       10,
		padding:     2,
		strokeWidth: 0.2,
		showReturn:  true,
		showAttach:  true,
	}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := bounds(res)
	minX -= r.padding
	minY -= r.padding
	maxX += r.padding
	maxY += r.padding
	width := (maxX - minX) * r.scale
	height := (maxY - minY) * r.scale

	// SVG y grows downward; the plan flips it so north stays up.
	tx := func(p geom.Point) (float64, float64) {
		return (p.X - minX) * r.scale, (maxY - p.Y) * r.scale
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	stroke := r.strokeWidth * r.scale
	if r.showReturn {
		r.writeNetwork(&buf, tx, res.Return, colorReturn, stroke)
	}
	r.writeNetwork(&buf, tx, res.Supply, colorSupply, stroke)

	for _, h := range res.Houses {
		r.writeLine(&buf, tx, h.Line, colorHouse, stroke)
	}
	for _, g := range res.Generators {
		r.writeLine(&buf, tx, g.Line, colorGenerator, stroke)
	}

	if r.showAttach {
		for _, c := range res.Connections {
			x, y := tx(c.Point)
			fmt.Fprintf(&buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
				x, y, stroke*1.5, colorAttach)
			if r.labels {
				fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-size="%.2f" fill="%s">%s</text>`+"\n",
					x+stroke*2, y-stroke*2, stroke*6, colorAttach, c.TerminalID)
			}
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *planRenderer) writeNetwork(buf *bytes.Buffer, tx func(geom.Point) (float64, float64), n synth.Network, color string, stroke float64) {
	for _, s := range n {
		r.writeLine(buf, tx, s, color, stroke)
	}
}

func (r *planRenderer) writeLine(buf *bytes.Buffer, tx func(geom.Point) (float64, float64), s geom.Segment, color string, stroke float64) {
	x1, y1 := tx(s.A)
	x2, y2 := tx(s.B)
	fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-linecap="round"/>`+"\n",
		x1, y1, x2, y2, color, stroke)
}

// bounds computes the bounding box over all drawn geometry.
func bounds(res *synth.Result) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)

	extend := func(p geom.Point) {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	for _, n := range []synth.Network{res.Supply, res.Return} {
		for _, s := range n {
			extend(s.A)
			extend(s.B)
		}
	}
	for _, h := range res.Houses {
		extend(h.Line.A)
		extend(h.Line.B)
	}
	for _, g := range res.Generators {
		extend(g.Line.A)
		extend(g.Line.B)
	}
	if math.IsInf(minX, 1) {
		// Empty result: a unit box keeps the SVG well-formed.
		return 0, 0, 1, 1
	}
	return minX, minY, maxX, maxY
}
