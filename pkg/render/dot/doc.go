// Package dot projects a graph document onto Graphviz DOT text.
//
// # Overview
//
// The projection keeps only structure and labels: one statement per node,
// labeled with the node's label, and one statement per edge, labeled with
// its relation. Node and edge metadata is dropped.
//
//	digraph "itis-042721" {
//	"kingdom-3" [label="Plantae"];
//	"kingdom-3" -> "rank-3.10" [label="uses"];
//	}
//
// Nodes are written in document order, then edges in document order, so the
// same document always yields the same text.
//
// # Escaping
//
// Output is UTF-8. Inside quoted strings a backslash or double quote is
// preceded by a backslash, and newline and carriage return become \n and \r.
// Everything else passes through unchanged.
//
// # Rendering
//
// [RenderSVG] and [RenderPNG] lay DOT text out with an embedded Graphviz
// (no external binaries). Layout of a full kingdom is slow; rendering is
// meant for small excerpts.
package dot
