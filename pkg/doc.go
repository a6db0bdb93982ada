// Package pkg provides the libraries behind itisgraph, which converts an ITIS
// SQLite release into a JSON Graph Format document.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Domain: [label] (node ids and vocabularies), [itis] (typed record
//     cursors over the source), [convert] (two-phase node and edge emission)
//     and [graph] (document types and reader)
//  2. Output: [jsonstream] (scoped streaming writer), [io] (atomic files) and
//     [render/dot] (DOT projection and Graphviz images)
//  3. Infrastructure: [pipeline], [provenance], [cache], [config],
//     [observability], [errors] and [buildinfo]
//
// # Architecture
//
// The data flow of one run:
//
//	ITIS SQLite
//	     ↓
//	[provenance] MD5 digest and creation time
//	     ↓
//	[itis] cursors, one kingdom in scope
//	     ↓
//	[convert] all nodes, then all edges, into [jsonstream]
//	     ↓
//	graph document (atomic replace-on-success)
//	     ↓
//	[render/dot] DOT text, SVG or PNG
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source: "ITIS.sqlite",
//	    Output: "itis.json",
//	    DOT:    "itis.dot",
//	})
package pkg
