// Package depgraph holds the directed package graph produced by dependency
// prediction, the worklist closure used to compute it, and its rendering
// to Graphviz DOT and SVG.
//
// Unlike a layered layout graph, a dependency graph here may contain
// cycles: TeX packages routinely load each other (a class pulls in a
// package which in turn checks for the class). [Closure] therefore gates
// every enqueue on set membership, so it terminates on any input.
//
// # Rendering
//
// [ToDOT] emits a minimal document, one edge per line:
//
//	digraph {
//	"amsmath" -> "tools";
//	}
//
// [RenderSVG] lays such a document out with the embedded Graphviz engine.
package depgraph
