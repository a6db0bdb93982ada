// Package pipeline runs a complete itisgraph conversion.
//
// This package implements the stamp → open → build → commit sequence shared
// by every entry point, plus the derived DOT and image exports. By
// centralizing it, the CLI and tests exercise the same output discipline:
// documents are written through an atomic file and appear at their
// destination only when the build succeeded.
//
// # Usage
//
// Create a Runner and execute a conversion:
//
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source: "ITIS.sqlite",
//	    Output: "itis.json",
//	    DOT:    "itis.dot",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.NodeCount())
//
// Run the derived stages on an existing document:
//
//	err := runner.ExportDOT(ctx, "itis.json", "itis.dot")
//	err := runner.RenderImage(ctx, "itis.dot", "itis.svg", dot.FormatSVG)
package pipeline

import (
	"path/filepath"
	"time"

	"github.com/matzehuels/itisgraph/pkg/convert"
	"github.com/matzehuels/itisgraph/pkg/errors"
	"github.com/matzehuels/itisgraph/pkg/graph"
	"github.com/matzehuels/itisgraph/pkg/itis"
	"github.com/matzehuels/itisgraph/pkg/observability"
	"github.com/matzehuels/itisgraph/pkg/provenance"
)

// DefaultIndent is the default indentation of the graph document.
const DefaultIndent = 2

// Options configures one conversion run.
type Options struct {
	// Source is the ITIS SQLite file.
	Source string

	// Output is the graph document path. It is replaced only on success.
	Output string

	// DOT is an optional path for the DOT projection of the document.
	DOT string

	// Graph identifies the document. The zero value selects
	// [graph.DefaultInfo].
	Graph graph.Info

	// KingdomID scopes the conversion. Zero selects [itis.DefaultKingdomID].
	KingdomID int64

	// Indent is the number of spaces per nesting level; 0 is compact.
	Indent int

	// Hooks receives conversion progress. Nil uses the registered hooks.
	Hooks observability.ConvertHooks

	// Clock stamps the document's creation time. Nil uses time.Now.
	Clock func() time.Time
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source database is required")
	}
	if o.Output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "output path is required")
	}
	if samePath(o.Source, o.Output) {
		return errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite the source", o.Output)
	}
	if o.DOT != "" && (samePath(o.DOT, o.Output) || samePath(o.DOT, o.Source)) {
		return errors.New(errors.ErrCodeInvalidInput, "DOT output %s collides with another file", o.DOT)
	}
	if o.Graph == (graph.Info{}) {
		o.Graph = graph.DefaultInfo()
	}
	if o.Graph.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "graph id must not be empty")
	}
	if o.KingdomID == 0 {
		o.KingdomID = itis.DefaultKingdomID
	}
	if o.KingdomID < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "kingdom id must be positive, got %d", o.KingdomID)
	}
	if o.Indent < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "indent must not be negative, got %d", o.Indent)
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return nil
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

// Result describes a finished run.
type Result struct {
	Output string
	DOT    string
	Stamp  provenance.Stamp
	Stats  convert.Stats

	// Durations of the individual stages.
	StampTime time.Duration
	BuildTime time.Duration
	DOTTime   time.Duration
}
