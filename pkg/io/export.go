package io

import (
	"io"

	"github.com/matzehuels/itisgraph/pkg/graph"
	"github.com/matzehuels/itisgraph/pkg/render/dot"
)

// WriteDOT writes the DOT projection of doc to w.
func WriteDOT(doc *graph.Document, w io.Writer) error {
	return dot.Write(w, doc)
}

// ExportDOT writes the DOT projection of doc to the file at path.
func ExportDOT(doc *graph.Document, path string) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return WriteDOT(doc, w)
	})
}
