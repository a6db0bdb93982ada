package io

import (
	"bufio"
	"io"
	"os"

	"github.com/matzehuels/itisgraph/pkg/errors"
	"github.com/matzehuels/itisgraph/pkg/graph"
)

// ReadGraph decodes and validates a graph document from r.
func ReadGraph(r io.Reader) (*graph.Document, error) {
	return graph.ReadDocument(bufio.NewReader(r))
}

// ImportGraph reads a graph document from the file at path.
func ImportGraph(path string) (*graph.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	doc, err := ReadGraph(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return doc, nil
}
