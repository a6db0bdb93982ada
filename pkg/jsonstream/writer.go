// Package jsonstream writes large JSON documents incrementally.
//
// A [Writer] emits a document through nested, closure-scoped objects and
// arrays. Each scope's closing delimiter is written when its function
// returns, whether it returns normally, with an error or by panicking, so
// the output is always balanced. Nothing but the stack of open scopes is held
// in memory; leaf values are encoded into a bounded buffer that is flushed to
// the sink whenever it grows past a threshold.
//
//	w := jsonstream.New(f, jsonstream.WithIndent(2))
//	err := w.Object(func(root *jsonstream.Object) error {
//	    return root.Object("graph", func(g *jsonstream.Object) error {
//	        if err := g.Field("id", "itis-042721"); err != nil {
//	            return err
//	        }
//	        return g.Array("edges", func(edges *jsonstream.Array) error {
//	            return edges.Value("...")
//	        })
//	    })
//	})
//
// Writing through a scope that is not the innermost open one returns
// [ErrScopeNotInnermost]. A Writer is not safe for concurrent use.
package jsonstream

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

// DefaultFlushThreshold is the buffered byte count that triggers a flush.
const DefaultFlushThreshold = 64 * 1024

var (
	// ErrScopeNotInnermost is returned when writing through a scope handle
	// that is closed or has an open child scope.
	ErrScopeNotInnermost = errors.New("jsonstream: scope is not the innermost open scope")

	// ErrDocumentComplete is returned when a second root value is started.
	ErrDocumentComplete = errors.New("jsonstream: document already has a root value")
)

type kind uint8

const (
	kindObject kind = iota
	kindArray
)

type frame struct {
	kind   kind
	seq    uint64
	opened bool
}

// Writer is a streaming JSON document writer.
type Writer struct {
	stream    *jsoniter.Stream
	stack     []frame
	seq       uint64
	threshold int
	done      bool
}

// Option configures a Writer.
type Option func(*config)

type config struct {
	indent    int
	threshold int
}

// WithIndent sets the number of spaces per nesting level. Zero produces
// compact output.
func WithIndent(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.indent = n
		}
	}
}

// WithFlushThreshold sets the buffered byte count that triggers a flush.
func WithFlushThreshold(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// New returns a Writer that writes to w. Output is indented by two spaces
// unless configured otherwise.
func New(w io.Writer, opts ...Option) *Writer {
	cfg := config{indent: 2, threshold: DefaultFlushThreshold}
	for _, opt := range opts {
		opt(&cfg)
	}
	api := jsoniter.Config{
		IndentionStep: cfg.indent,
		EscapeHTML:    false,
		SortMapKeys:   true,
	}.Froze()
	return &Writer{
		stream:    jsoniter.NewStream(api, w, cfg.threshold+4096),
		threshold: cfg.threshold,
	}
}

// Object writes the document's root object. The document is flushed once fn
// returns and the object is closed.
func (w *Writer) Object(fn func(*Object) error) error {
	return w.root(kindObject, func(seq uint64) error {
		return fn(&Object{w: w, seq: seq})
	})
}

// Array writes the document's root array.
func (w *Writer) Array(fn func(*Array) error) error {
	return w.root(kindArray, func(seq uint64) error {
		return fn(&Array{w: w, seq: seq})
	})
}

// Depth returns the number of open scopes.
func (w *Writer) Depth() int {
	return len(w.stack)
}

// Flush writes buffered output to the sink.
func (w *Writer) Flush() error {
	return w.stream.Flush()
}

func (w *Writer) root(k kind, fn func(uint64) error) error {
	if w.done {
		return ErrDocumentComplete
	}
	if len(w.stack) > 0 {
		return ErrScopeNotInnermost
	}
	w.done = true
	err := w.scope(k, fn)
	if w.stream.Buffered() > 0 && w.stream.Error == nil {
		w.stream.WriteRaw("\n")
	}
	if ferr := w.stream.Flush(); err == nil {
		err = ferr
	}
	return err
}

// scope pushes a frame, runs fn and pops the frame on every exit path.
func (w *Writer) scope(k kind, fn func(uint64) error) (err error) {
	w.seq++
	seq := w.seq
	w.stack = append(w.stack, frame{kind: k, seq: seq})
	defer func() {
		if cerr := w.close(); err == nil {
			err = cerr
		}
	}()
	return fn(seq)
}

func (w *Writer) close() error {
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	switch {
	case f.kind == kindObject && f.opened:
		w.stream.WriteObjectEnd()
	case f.kind == kindObject:
		w.stream.WriteEmptyObject()
	case f.opened:
		w.stream.WriteArrayEnd()
	default:
		w.stream.WriteEmptyArray()
	}
	return w.maybeFlush()
}

// member starts a new member of the scope identified by seq, writing the
// scope's opening token or a separator as needed.
func (w *Writer) member(seq uint64) error {
	if w.stream.Error != nil {
		return w.stream.Error
	}
	top := len(w.stack) - 1
	if top < 0 || w.stack[top].seq != seq {
		return ErrScopeNotInnermost
	}
	f := &w.stack[top]
	switch {
	case !f.opened && f.kind == kindObject:
		w.stream.WriteObjectStart()
	case !f.opened:
		w.stream.WriteArrayStart()
	default:
		w.stream.WriteMore()
	}
	f.opened = true
	return nil
}

func (w *Writer) value(v any) error {
	switch v := v.(type) {
	case nil:
		w.stream.WriteNil()
	case string:
		w.stream.WriteString(validUTF8(v))
	case bool:
		w.stream.WriteBool(v)
	case int:
		w.stream.WriteInt(v)
	case int64:
		w.stream.WriteInt64(v)
	case float64:
		w.stream.WriteFloat64(v)
	default:
		w.stream.WriteVal(v)
	}
	if w.stream.Error != nil {
		return w.stream.Error
	}
	return w.maybeFlush()
}

// validUTF8 replaces invalid byte sequences with U+FFFD. The stream copies
// strings through unchanged when HTML escaping is off.
func validUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "\uFFFD")
}

func (w *Writer) maybeFlush() error {
	if w.stream.Error != nil {
		return w.stream.Error
	}
	if w.stream.Buffered() < w.threshold {
		return nil
	}
	return w.stream.Flush()
}
