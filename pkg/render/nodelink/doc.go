// Package nodelink renders automata networks as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz. States
// are drawn as circles, reporting states as double circles, start states
// with a bold outline, and counters as boxes. Activation edges are arrows;
// counter activations are dashed.
//
// # Usage
//
// Convert a network to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(n, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, state labels include the sanitized symbol set and
//     counter labels include the target and at-target mode.
//
// The generated DOT uses left-to-right layout (rankdir=LR), the usual
// orientation for automata.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
// No external tools are required.
package nodelink
