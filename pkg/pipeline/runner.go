package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/itisgraph/pkg/cache"
	"github.com/matzehuels/itisgraph/pkg/convert"
	"github.com/matzehuels/itisgraph/pkg/errors"
	"github.com/matzehuels/itisgraph/pkg/itis"
	pkgio "github.com/matzehuels/itisgraph/pkg/io"
	"github.com/matzehuels/itisgraph/pkg/observability"
	"github.com/matzehuels/itisgraph/pkg/provenance"
	"github.com/matzehuels/itisgraph/pkg/render/dot"
)

// Runner executes conversions. The cache holds source digests between runs.
//
// The Runner is stateless except for the cache and logger, so one Runner can
// serve several runs in sequence.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute converts opts.Source into the document at opts.Output and, when
// requested, its DOT projection.
func (r *Runner) Execute(ctx context.Context, opts Options) (res *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	observability.Pipeline().OnRunStart(ctx, opts.Source)
	defer func() {
		observability.Pipeline().OnRunComplete(ctx, opts.Source, opts.Output, time.Since(start), err)
	}()

	result := &Result{Output: opts.Output}

	// Stage 1: Stamp
	stampStart := time.Now()
	stamper := provenance.NewStamper(
		provenance.WithCache(r.Cache),
		provenance.WithClock(opts.Clock),
		provenance.WithLogger(r.Logger),
	)
	stamp, err := stamper.Stamp(ctx, opts.Source)
	if err != nil {
		return nil, err
	}
	result.Stamp = stamp
	result.StampTime = time.Since(stampStart)
	r.Logger.Debug("digested source", "md5", stamp.MD5, "duration", result.StampTime)

	// Stage 2: Build into a temporary file
	buildStart := time.Now()
	stats, err := r.build(ctx, opts, stamp)
	result.Stats = stats
	result.BuildTime = time.Since(buildStart)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("wrote graph",
		"output", opts.Output,
		"nodes", stats.NodeCount(),
		"edges", stats.EdgeCount(),
		"duration", result.BuildTime.Round(time.Millisecond))

	// Stage 3: DOT
	if opts.DOT != "" {
		dotStart := time.Now()
		if err := r.ExportDOT(ctx, opts.Output, opts.DOT); err != nil {
			return nil, fmt.Errorf("dot: %w", err)
		}
		result.DOT = opts.DOT
		result.DOTTime = time.Since(dotStart)
	}

	return result, nil
}

func (r *Runner) build(ctx context.Context, opts Options, stamp provenance.Stamp) (convert.Stats, error) {
	src, err := itis.Open(ctx, opts.Source, itis.Options{KingdomID: opts.KingdomID})
	if err != nil {
		return convert.Stats{}, err
	}
	defer src.Close()

	out, err := pkgio.CreateAtomic(opts.Output)
	if err != nil {
		return convert.Stats{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "output")
	}
	defer out.Abort()

	b := convert.New(src,
		convert.WithGraphInfo(opts.Graph),
		convert.WithIndent(opts.Indent),
		convert.WithLogger(r.Logger),
		convert.WithHooks(opts.Hooks),
	)
	stats, err := b.Build(ctx, out, stamp)
	if err != nil {
		return stats, err
	}
	if err := out.Commit(); err != nil {
		return stats, err
	}
	return stats, nil
}

// ExportDOT writes the DOT projection of the document at in to out.
func (r *Runner) ExportDOT(ctx context.Context, in, out string) (err error) {
	start := time.Now()
	defer func() {
		observability.Pipeline().OnExport(ctx, "dot", out, time.Since(start), err)
	}()

	doc, err := pkgio.ImportGraph(in)
	if err != nil {
		return err
	}
	if err := pkgio.ExportDOT(doc, out); err != nil {
		return err
	}
	r.Logger.Info("wrote dot", "output", out, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return nil
}

// RenderImage renders a graph document or DOT file as an image. Inputs ending
// in .dot or .gv are read as DOT text; anything else is read as a document.
func (r *Runner) RenderImage(ctx context.Context, in, out string, format dot.Format) (err error) {
	start := time.Now()
	defer func() {
		observability.Pipeline().OnExport(ctx, string(format), out, time.Since(start), err)
	}()

	text, err := readDOT(in)
	if err != nil {
		return err
	}
	img, err := dot.Render(ctx, text, format)
	if err != nil {
		return err
	}
	err = pkgio.WriteFileAtomic(out, func(w io.Writer) error {
		_, err := w.Write(img)
		return err
	})
	if err != nil {
		return err
	}
	r.Logger.Info("rendered image", "output", out, "format", format, "bytes", len(img))
	return nil
}

func readDOT(path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
		}
		return data, nil
	}
	doc, err := pkgio.ImportGraph(path)
	if err != nil {
		return nil, err
	}
	return []byte(dot.ToDOT(doc)), nil
}
