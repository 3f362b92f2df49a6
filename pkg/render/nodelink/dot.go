package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-graphviz"

	"github.com/tjt7a/anml/pkg/automata"
	"github.com/tjt7a/anml/pkg/symbolset"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes symbol sets and counter targets in node labels.
	// When false, only the element ID is shown.
	Detailed bool
}

// ToDOT converts a network to Graphviz DOT format for visualization.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(n *automata.Network, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(n.ID()))
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, h := range n.Handles() {
		el, err := n.Element(h)
		if err != nil {
			continue
		}
		attrs := fmtAttrs(el, fmtLabel(el, opts.Detailed))
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(el.ElementID()), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, h := range n.Handles() {
		el, err := n.Element(h)
		if err != nil {
			continue
		}
		_, isCounter := el.(*automata.Counter)
		for _, to := range n.SuccessorIDs(h) {
			if isCounter {
				fmt.Fprintf(&buf, "  %s -> %s [style=dashed];\n", quote(el.ElementID()), quote(to))
				continue
			}
			fmt.Fprintf(&buf, "  %s -> %s;\n", quote(el.ElementID()), quote(to))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(el automata.Element, detailed bool) string {
	if !detailed {
		return el.ElementID()
	}

	switch e := el.(type) {
	case *automata.State:
		label := e.ID + "\n" + symbolset.Sanitize(e.Symbols.String())
		if e.Reports {
			label += "\nreport: " + e.ReportCode
		}
		return label
	case *automata.Counter:
		return fmt.Sprintf("%s\ntarget: %d (%s)", e.ID, e.Target, e.AtTarget)
	}
	return el.ElementID()
}

func fmtAttrs(el automata.Element, label string) []string {
	attrs := []string{"label=" + quote(label)}
	switch e := el.(type) {
	case *automata.State:
		if e.Reports {
			attrs = append(attrs, "shape=doublecircle")
		}
		if e.Start.IsStart() {
			attrs = append(attrs, "penwidth=3", "fillcolor=lightblue")
		}
	case *automata.Counter:
		attrs = append(attrs, "shape=box", "style=\"rounded,filled\"", "fillcolor=lightyellow")
	}
	return attrs
}

// quote renders s as a DOT double-quoted string. Backslashes are doubled so
// symbol-set escapes display literally.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// renderMu serializes access to the embedded Graphviz runtime.
var renderMu sync.Mutex

func render(dot string, format graphviz.Format) ([]byte, error) {
	renderMu.Lock()
	defer renderMu.Unlock()

	ctx := context.Background()
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	svg, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
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
