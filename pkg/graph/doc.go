// Package graph defines the ITIS graph document: its node types, edge
// relations and an in-memory model used when a finished document is read
// back.
//
// # Document Format
//
// The document is a JSON Graph Format object with a single "graph" member:
//
//	{
//	  "graph": {
//	    "id": "itis-042721",
//	    "type": "ITIS",
//	    "label": "ITIS (2021-04-27)",
//	    "directed": true,
//	    "metadata": {
//	      "created": "2021-04-27T10:11:12.123456789+02:00",
//	      "metadata": {"type": "sqlite", "md5": "..."}
//	    },
//	    "nodes": {
//	      "kingdom-3": {"label": "Plantae", "metadata": {"type": "kingdom", ...}}
//	    },
//	    "edges": [
//	      {"source": "kingdom-3", "target": "rank-3.10", "relation": "uses"}
//	    ]
//	  }
//	}
//
// Field names and nesting are a compatibility contract. Nodes are keyed by
// id, every node's metadata carries a "type" from [NodeTypes], and every
// edge's relation is one of [Relations].
//
// # Reading
//
// [ReadDocument] parses a complete document, keeping nodes in document order
// so renderings of it are reproducible:
//
//	doc, err := graph.ReadDocument(r)
//	if errors.Is(err, errors.ErrCodeMalformedDocument) {
//	    // not a graph document
//	}
//
// Documents are written incrementally by pkg/convert, never through this
// model.
package graph
