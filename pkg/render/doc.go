// Package render turns synthesis results into viewable artifacts.
//
// Two renderers are provided:
//
//   - A geometric plan ([RenderPlanSVG]): the supply and return networks,
//     house and generator connections and attachment points drawn to scale
//     in an SVG, suitable for overlaying on a site plan.
//   - A schematic ([ToDOT] plus [RenderSVG]/[RenderPNG]): the network
//     topology laid out by Graphviz, which makes the tree structure and
//     the terminal attachments easy to inspect regardless of geometry.
//
// Both operate on a [synth.Result] and never mutate it.
package render
