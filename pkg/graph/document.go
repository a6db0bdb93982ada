package graph

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/matzehuels/itisgraph/pkg/errors"
)

// Document is a fully parsed graph document.
type Document struct {
	ID         string
	Type       string
	Label      string
	Directed   bool
	Created    string
	SourceType string
	MD5        string
	Nodes      []Node // document order
	Edges      []Edge // document order
}

// Node is a graph node.
type Node struct {
	ID       string
	Label    string
	Metadata map[string]any
}

// Type returns the node's "type" metadata.
func (n Node) Type() NodeType {
	s, _ := n.Metadata["type"].(string)
	return NodeType(s)
}

// Edge is a directed, typed edge.
type Edge struct {
	Source   string
	Target   string
	Relation Relation
	Metadata map[string]any
}

// readBufSize is the iterator's read buffer.
const readBufSize = 64 * 1024

// ReadDocument parses a complete graph document from r.
//
// Node order follows the document, not Go map order. ReadDocument fails with
// MALFORMED_GRAPH_DOCUMENT when the input is not a single JSON value, lacks
// the "graph" object, has a node with an empty id or without a label, repeats
// a node id, or has an edge with an unknown relation or an endpoint that is
// not a node of the document.
func ReadDocument(r io.Reader) (*Document, error) {
	it := jsoniter.Parse(jsoniter.ConfigDefault, r, readBufSize)
	p := parser{it: it}
	doc := p.root()
	if it.Error != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, it.Error, "parse graph document")
	}
	if !p.atEOF() {
		return nil, errors.New(errors.ErrCodeMalformedDocument, "trailing data after graph document")
	}
	if it.Error != nil && it.Error != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, it.Error, "parse graph document")
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeMalformedDocument, `missing "graph" object`)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks node id uniqueness, labels, relations and referential
// integrity.
func (d *Document) Validate() error {
	ids := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeMalformedDocument, "node with empty id")
		}
		if _, dup := ids[n.ID]; dup {
			return errors.Wrap(errors.ErrCodeMalformedDocument, &errors.CollisionError{ID: n.ID}, "nodes")
		}
		ids[n.ID] = struct{}{}
	}
	for i, e := range d.Edges {
		if !e.Relation.Valid() {
			return errors.New(errors.ErrCodeMalformedDocument, "edge %d: unknown relation %q", i, e.Relation)
		}
		if _, ok := ids[e.Source]; !ok {
			return errors.New(errors.ErrCodeMalformedDocument, "edge %d: unknown source %q", i, e.Source)
		}
		if _, ok := ids[e.Target]; !ok {
			return errors.New(errors.ErrCodeMalformedDocument, "edge %d: unknown target %q", i, e.Target)
		}
	}
	return nil
}

// parser walks a document with a jsoniter iterator. The first error is
// recorded on the iterator and ends every loop.
type parser struct {
	it *jsoniter.Iterator
}

// atEOF reports whether only whitespace follows the root value. The iterator
// records io.EOF when it runs out of input.
func (p *parser) atEOF() bool {
	p.it.WhatIsNext()
	return p.it.Error != nil
}

// members calls fn for every key of the object at path, including the empty
// key, with the iterator positioned on the key's value.
func (p *parser) members(path string, fn func(key string)) {
	if !p.expect(jsoniter.ObjectValue, path) {
		return
	}
	p.it.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		fn(key)
		return it.Error == nil
	})
}

func (p *parser) root() *Document {
	var doc *Document
	p.members("document", func(f string) {
		if f != "graph" {
			p.it.Skip()
			return
		}
		doc = p.graph()
	})
	return doc
}

func (p *parser) graph() *Document {
	doc := &Document{}
	p.members("graph", func(f string) {
		switch f {
		case "id":
			doc.ID = p.str("graph.id")
		case "type":
			doc.Type = p.str("graph.type")
		case "label":
			doc.Label = p.str("graph.label")
		case "directed":
			if p.expect(jsoniter.BoolValue, "graph.directed") {
				doc.Directed = p.it.ReadBool()
			}
		case "metadata":
			p.graphMetadata(doc)
		case "nodes":
			p.nodes(doc)
		case "edges":
			p.edges(doc)
		default:
			p.it.Skip()
		}
	})
	return doc
}

func (p *parser) graphMetadata(doc *Document) {
	p.members("graph.metadata", func(f string) {
		switch f {
		case "created":
			doc.Created = p.str("graph.metadata.created")
		case "metadata":
			p.members("graph.metadata.metadata", func(g string) {
				switch g {
				case "type":
					doc.SourceType = p.str("graph.metadata.metadata.type")
				case "md5":
					doc.MD5 = p.str("graph.metadata.metadata.md5")
				default:
					p.it.Skip()
				}
			})
		default:
			p.it.Skip()
		}
	})
}

func (p *parser) nodes(doc *Document) {
	p.members("graph.nodes", func(id string) {
		n := Node{ID: id}
		hasLabel := false
		p.members("graph.nodes."+id, func(f string) {
			switch f {
			case "label":
				n.Label = p.str("graph.nodes." + id + ".label")
				hasLabel = true
			case "metadata":
				n.Metadata = p.object("graph.nodes." + id + ".metadata")
			default:
				p.it.Skip()
			}
		})
		if !hasLabel && p.it.Error == nil {
			p.it.ReportError("graph.nodes."+id, "missing label")
		}
		doc.Nodes = append(doc.Nodes, n)
	})
}

func (p *parser) edges(doc *Document) {
	if !p.expect(jsoniter.ArrayValue, "graph.edges") {
		return
	}
	for p.it.ReadArray() && p.it.Error == nil {
		var e Edge
		p.members("graph.edges[]", func(f string) {
			switch f {
			case "source":
				e.Source = p.str("edge.source")
			case "target":
				e.Target = p.str("edge.target")
			case "relation":
				e.Relation = Relation(p.str("edge.relation"))
			case "metadata":
				e.Metadata = p.object("edge.metadata")
			default:
				p.it.Skip()
			}
		})
		if p.it.Error != nil {
			return
		}
		doc.Edges = append(doc.Edges, e)
	}
}

// expect reports an error unless the next value has type t.
func (p *parser) expect(t jsoniter.ValueType, path string) bool {
	if p.it.Error != nil {
		return false
	}
	if p.it.WhatIsNext() != t {
		p.it.ReportError(path, "unexpected value type")
		return false
	}
	return true
}

func (p *parser) str(path string) string {
	if !p.expect(jsoniter.StringValue, path) {
		return ""
	}
	return p.it.ReadString()
}

func (p *parser) object(path string) map[string]any {
	if !p.expect(jsoniter.ObjectValue, path) {
		return nil
	}
	m, _ := p.it.Read().(map[string]any)
	return m
}
