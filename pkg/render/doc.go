// Package render draws flow component trees.
//
// [ToDOT] converts a flow and its nested components to Graphviz DOT;
// [RenderSVG] rasterizes the DOT text to SVG in-process using
// [github.com/goccy/go-graphviz]. The CLI and the registry server both use
// this pair to serve quick visual summaries of composite estimators.
package render
