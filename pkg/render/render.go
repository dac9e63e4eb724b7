package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/maxcopeland/openml-go/pkg/flow"
)

// Options configures component tree rendering.
type Options struct {
	// Detailed includes parameter counts and external versions in node
	// labels. When false, only the class name is shown.
	Detailed bool
}

// ToDOT converts a flow's component tree to Graphviz DOT format. Every flow
// becomes a node labeled with its class name; edges carry the component key
// under which the child is registered. The resulting DOT string can be
// rendered with [RenderSVG].
func ToDOT(f *flow.Flow, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	ids := map[*flow.Flow]string{}
	writeNodes(&buf, f, "0", ids, opts)
	buf.WriteString("\n")
	writeEdges(&buf, f, ids)

	buf.WriteString("}\n")
	return buf.String()
}

// writeNodes assigns stable path-based ids ("0", "0.1", ...) in component
// order, so repeated rendering of the same flow emits identical DOT.
func writeNodes(buf *bytes.Buffer, f *flow.Flow, id string, ids map[*flow.Flow]string, opts Options) {
	ids[f] = id
	fmt.Fprintf(buf, "  %q [label=%q];\n", id, fmtLabel(f, opts.Detailed))

	i := 0
	for _, sub := range f.Components.All() {
		writeNodes(buf, sub, id+"."+strconv.Itoa(i), ids, opts)
		i++
	}
}

func writeEdges(buf *bytes.Buffer, f *flow.Flow, ids map[*flow.Flow]string) {
	for key, sub := range f.Components.All() {
		fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", ids[f], ids[sub], key)
		writeEdges(buf, sub, ids)
	}
}

func fmtLabel(f *flow.Flow, detailed bool) string {
	if !detailed {
		return f.ClassName
	}
	parts := []string{
		f.ClassName,
		fmt.Sprintf("%d parameters", f.Parameters.Len()),
	}
	if f.ExternalVersion != "" {
		parts = append(parts, f.ExternalVersion)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
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
