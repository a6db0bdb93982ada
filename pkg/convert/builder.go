// Package convert builds the ITIS graph document from an [itis.Source].
//
// A [Builder] streams the document in two phases. The node phase writes every
// node of the kingdom, domain by domain; the edge phase then writes every
// edge. Because all nodes precede all edges, an edge never refers forward to
// a node that has not been written.
//
// Domain order is fixed in both phases:
//
//	nodes: kingdoms, ranks, taxonomic units, vernaculars, authors,
//	       geographic divisions, languages
//	edges: ranks, unit links, synonym links, unit geographies, vernaculars
//
// Every cursor is ordered by its natural key, so a duplicate node id shows up
// as two adjacent records and is detected without remembering earlier ids.
// Any error aborts the build; the partial output must be discarded by the
// caller.
package convert

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/itisgraph/pkg/errors"
	"github.com/matzehuels/itisgraph/pkg/graph"
	"github.com/matzehuels/itisgraph/pkg/itis"
	"github.com/matzehuels/itisgraph/pkg/jsonstream"
	"github.com/matzehuels/itisgraph/pkg/observability"
	"github.com/matzehuels/itisgraph/pkg/provenance"
)

// Phases reported to hooks.
const (
	PhaseNodes = "nodes"
	PhaseEdges = "edges"
)

// progressEvery is the number of records between progress events.
const progressEvery = 1000

// Builder converts one kingdom of an ITIS database into a graph document.
type Builder struct {
	src    *itis.Source
	info   graph.Info
	indent int
	logger *log.Logger
	hooks  observability.ConvertHooks
}

// Option configures a Builder.
type Option func(*Builder)

// WithGraphInfo sets the document's id, type and label.
func WithGraphInfo(info graph.Info) Option {
	return func(b *Builder) { b.info = info }
}

// WithIndent sets the indentation width; 0 writes compact JSON.
func WithIndent(n int) Option {
	return func(b *Builder) { b.indent = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithHooks sets the hooks notified of phase and domain progress.
func WithHooks(h observability.ConvertHooks) Option {
	return func(b *Builder) {
		if h != nil {
			b.hooks = h
		}
	}
}

// New returns a Builder reading from src. Without options the document
// carries [graph.DefaultInfo], is indented by two spaces and reports to the
// globally registered hooks.
func New(src *itis.Source, opts ...Option) *Builder {
	b := &Builder{
		src:    src,
		info:   graph.DefaultInfo(),
		indent: 2,
		logger: log.Default(),
		hooks:  observability.Convert(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build writes the complete document to w.
//
// It fails with INVALID_INPUT when the source has no kingdom with the
// configured id, and otherwise with the first source, vocabulary, collision
// or write error. On failure w holds a truncated document.
func (b *Builder) Build(ctx context.Context, w io.Writer, stamp provenance.Stamp) (Stats, error) {
	start := time.Now()
	n, err := b.src.Count(ctx, itis.DomainKingdoms)
	if err != nil {
		return Stats{}, err
	}
	if n == 0 {
		return Stats{}, errors.New(errors.ErrCodeInvalidInput, "kingdom %d not found in %s", b.src.KingdomID(), b.src.Path())
	}

	r := &run{Builder: b, ctx: ctx, stats: newStats()}
	jw := jsonstream.New(w, jsonstream.WithIndent(b.indent))
	err = jw.Object(func(root *jsonstream.Object) error {
		return root.Object("graph", func(g *jsonstream.Object) error {
			return r.graph(g, stamp)
		})
	})
	r.stats.Duration = time.Since(start)
	if err != nil {
		return r.stats, err
	}
	b.logger.Info("built graph",
		"kingdom", b.src.KingdomID(),
		"nodes", r.stats.NodeCount(),
		"edges", r.stats.EdgeCount(),
		"elapsed", r.stats.Duration.Round(time.Millisecond))
	return r.stats, nil
}

// run is the state of one Build call.
type run struct {
	*Builder
	ctx   context.Context
	stats Stats
}

func (r *run) graph(g *jsonstream.Object, stamp provenance.Stamp) error {
	f := &fields{o: g}
	f.set("id", r.info.ID)
	f.set("type", r.info.Type)
	f.set("label", r.info.Label)
	f.set("directed", true)
	if f.err != nil {
		return f.err
	}
	err := g.Object("metadata", func(m *jsonstream.Object) error {
		if err := m.Field("created", stamp.CreatedString()); err != nil {
			return err
		}
		return m.Object("metadata", func(src *jsonstream.Object) error {
			if err := src.Field("type", stamp.SourceType); err != nil {
				return err
			}
			return src.Field("md5", stamp.MD5)
		})
	})
	if err != nil {
		return err
	}
	if err := r.phase(PhaseNodes, func() error {
		return g.Object("nodes", r.nodes)
	}); err != nil {
		return err
	}
	return r.phase(PhaseEdges, func() error {
		return g.Array("edges", r.edges)
	})
}

func (r *run) phase(name string, fn func() error) error {
	start := time.Now()
	r.hooks.OnPhaseStart(r.ctx, name)
	before := r.stats.NodeCount() + r.stats.EdgeCount()
	err := fn()
	count := r.stats.NodeCount() + r.stats.EdgeCount() - before
	r.hooks.OnPhaseComplete(r.ctx, name, count, time.Since(start), err)
	if err == nil {
		r.logger.Debug("phase complete", "phase", name, "count", count, "elapsed", time.Since(start).Round(time.Millisecond))
	}
	return err
}

// each streams one domain's cursor through fn, checking for cancellation
// between records and reporting progress to the hooks.
func each[T any](r *run, phase string, d itis.Domain, open func(context.Context) (*itis.Cursor[T], error), fn func(T) error) (err error) {
	start := time.Now()
	total, err := r.src.Count(r.ctx, d)
	if err != nil {
		total = -1
		r.logger.Debug("count failed", "domain", d, "error", err)
	}
	r.hooks.OnDomainStart(r.ctx, phase, string(d), total)

	var read int64
	defer func() {
		r.hooks.OnDomainComplete(r.ctx, phase, string(d), read, time.Since(start), err)
	}()

	c, err := open(r.ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	for c.Next() {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		if err := fn(c.Record()); err != nil {
			return err
		}
		read = c.Read()
		if read%progressEvery == 0 {
			r.hooks.OnDomainProgress(r.ctx, phase, string(d), read)
		}
	}
	if err := c.Err(); err != nil {
		return err
	}
	r.logger.Debug("wrote "+phase, "domain", d, "records", read)
	return nil
}

// fields writes object members, keeping the first error.
type fields struct {
	o   *jsonstream.Object
	err error
}

func (f *fields) set(key string, v any) {
	if f.err == nil {
		f.err = f.o.Field(key, v)
	}
}

// opt writes key only when v is present.
func (f *fields) opt(key string, v optional) {
	if v.Valid {
		f.set(key, v.V)
	}
}

// sequence detects a repeated node id within one key-ordered domain.
type sequence struct {
	domain itis.Domain
	prev   string
	seen   bool
}

func (s *sequence) next(id string) error {
	if s.seen && id == s.prev {
		return &errors.CollisionError{ID: id, Domain: string(s.domain)}
	}
	s.prev, s.seen = id, true
	return nil
}
