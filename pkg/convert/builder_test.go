package convert_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/itisgraph/pkg/convert"
	"github.com/matzehuels/itisgraph/pkg/errors"
	"github.com/matzehuels/itisgraph/pkg/graph"
	"github.com/matzehuels/itisgraph/pkg/itis"
	"github.com/matzehuels/itisgraph/pkg/itis/itistest"
	"github.com/matzehuels/itisgraph/pkg/observability"
	"github.com/matzehuels/itisgraph/pkg/provenance"
)

var testStamp = provenance.Stamp{
	Created:    time.Date(2021, 4, 27, 10, 11, 12, 0, time.UTC),
	SourceType: graph.SourceTypeSQLite,
	MD5:        "0123456789abcdef0123456789abcdef",
}

func open(t *testing.T, fx *itistest.DB, kingdom int64) *itis.Source {
	t.Helper()
	src, err := itis.Open(context.Background(), fx.Path(), itis.Options{KingdomID: kingdom})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func quiet() convert.Option {
	return convert.WithLogger(log.New(&bytes.Buffer{}))
}

func build(t *testing.T, src *itis.Source, opts ...convert.Option) ([]byte, convert.Stats) {
	t.Helper()
	var buf bytes.Buffer
	stats, err := convert.New(src, append([]convert.Option{quiet()}, opts...)...).Build(context.Background(), &buf, testStamp)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return buf.Bytes(), stats
}

func parse(t *testing.T, data []byte) *graph.Document {
	t.Helper()
	doc, err := graph.ReadDocument(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadDocument() error: %v\n%s", err, data)
	}
	return doc
}

func nodeByID(doc *graph.Document, id string) (graph.Node, bool) {
	for _, n := range doc.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return graph.Node{}, false
}

func hasEdge(doc *graph.Document, source, target string, rel graph.Relation) bool {
	for _, e := range doc.Edges {
		if e.Source == source && e.Target == target && e.Relation == rel {
			return true
		}
	}
	return false
}

func TestBuildPlantae(t *testing.T) {
	data, stats := build(t, open(t, itistest.Plantae(t), 3))
	doc := parse(t, data)

	if doc.ID != graph.DefaultID || doc.Type != graph.DefaultType || doc.Label != graph.DefaultLabel || !doc.Directed {
		t.Errorf("header = %q %q %q %v", doc.ID, doc.Type, doc.Label, doc.Directed)
	}
	if doc.SourceType != "sqlite" || doc.MD5 != testStamp.MD5 {
		t.Errorf("provenance = %q %q", doc.SourceType, doc.MD5)
	}
	if doc.Created != testStamp.CreatedString() {
		t.Errorf("Created = %q, want %q", doc.Created, testStamp.CreatedString())
	}

	wantIDs := []string{
		"kingdom-3",
		"rank-3.10", "rank-3.20", "rank-3.220",
		"tu-0", "tu-1", "tu-100", "tu-101", "tu-102", "tu-103",
		"vn-500", "vn-501", "vn-502",
		"author-42", "author-43",
		"europe_northern_asia", "north_america",
		"english", "french",
	}
	if len(doc.Nodes) != len(wantIDs) {
		t.Fatalf("len(Nodes) = %d, want %d", len(doc.Nodes), len(wantIDs))
	}
	for i, id := range wantIDs {
		if doc.Nodes[i].ID != id {
			t.Errorf("Nodes[%d] = %q, want %q", i, doc.Nodes[i].ID, id)
		}
	}

	wantEdges := map[graph.Relation]int64{
		graph.RelUses:             3,
		graph.RelDirectParentOf:   2,
		graph.RelRequiredParentOf: 2,
		graph.RelParentOf:         5,
		graph.RelHasRank:          5,
		graph.RelAuthor:           3,
		graph.RelSynonymOf:        1,
		graph.RelHasGeographicDiv: 3,
		graph.RelVernacularOf:     3,
		graph.RelHasLanguage:      3,
	}
	for rel, want := range wantEdges {
		if got := stats.Edges[rel]; got != want {
			t.Errorf("Edges[%s] = %d, want %d", rel, got, want)
		}
	}
	if int64(len(doc.Edges)) != stats.EdgeCount() || stats.EdgeCount() != 30 {
		t.Errorf("edges = %d, stats = %d, want 30", len(doc.Edges), stats.EdgeCount())
	}
	if stats.NodeCount() != int64(len(wantIDs)) {
		t.Errorf("NodeCount() = %d, want %d", stats.NodeCount(), len(wantIDs))
	}
	if stats.SkippedAuthors != 1 {
		t.Errorf("SkippedAuthors = %d, want 1", stats.SkippedAuthors)
	}
}

func TestBuildScenarios(t *testing.T) {
	data, _ := build(t, open(t, itistest.Plantae(t), 3))
	doc := parse(t, data)

	t.Run("kingdom and rank", func(t *testing.T) {
		k, ok := nodeByID(doc, "kingdom-3")
		if !ok || k.Label != "Plantae" || k.Type() != graph.TypeKingdom {
			t.Fatalf("kingdom-3 = %+v", k)
		}
		if k.Metadata["itis_kingdom_id"] != float64(3) || k.Metadata["update_date"] != itistest.UpdateDate {
			t.Errorf("kingdom metadata = %v", k.Metadata)
		}
		r, ok := nodeByID(doc, "rank-3.10")
		if !ok || r.Label != "Kingdom" || r.Type() != graph.TypeRank {
			t.Fatalf("rank-3.10 = %+v", r)
		}
		if r.Metadata["itis_rank_id"] != float64(10) {
			t.Errorf("itis_rank_id = %v, want 10", r.Metadata["itis_rank_id"])
		}
		if !hasEdge(doc, "kingdom-3", "rank-3.10", graph.RelUses) {
			t.Error("missing kingdom-3 uses rank-3.10")
		}
	})

	t.Run("rank self loops suppressed", func(t *testing.T) {
		for _, e := range doc.Edges {
			if e.Source == e.Target {
				t.Errorf("self loop %+v", e)
			}
		}
		if !hasEdge(doc, "rank-3.20", "rank-3.220", graph.RelDirectParentOf) {
			t.Error("missing rank-3.20 direct_parent_of rank-3.220")
		}
		if !hasEdge(doc, "rank-3.10", "rank-3.220", graph.RelRequiredParentOf) {
			t.Error("missing rank-3.10 required_parent_of rank-3.220")
		}
	})

	t.Run("unit hierarchy", func(t *testing.T) {
		if !hasEdge(doc, "tu-1", "tu-100", graph.RelParentOf) {
			t.Error("missing tu-1 parent_of tu-100")
		}
		if !hasEdge(doc, "tu-100", "rank-3.10", graph.RelHasRank) {
			t.Error("missing tu-100 has_rank rank-3.10")
		}
		if !hasEdge(doc, convert.RootID, "tu-1", graph.RelParentOf) {
			t.Error("root unit not attached to the sentinel")
		}
		root, _ := nodeByID(doc, convert.RootID)
		if root.Label != convert.RootLabel || root.Metadata["sentinel"] != true {
			t.Errorf("sentinel = %+v", root)
		}
	})

	t.Run("unit metadata", func(t *testing.T) {
		u, _ := nodeByID(doc, "tu-100")
		want := map[string]any{
			"type":       "taxonomic_unit",
			"tsn":        float64(100),
			"name_usage": "accepted",
			"accepted":   true,
			"unit_name1": "Viridiplantae",
			"created":    "1996-06-13T14:51:08",
			"nodc_id":    "9400000000",
		}
		for k, v := range want {
			if u.Metadata[k] != v {
				t.Errorf("metadata[%s] = %v, want %v", k, u.Metadata[k], v)
			}
		}
		for _, k := range []string{"unit_ind1", "unit_name2", "unit_ind4"} {
			if _, ok := u.Metadata[k]; ok {
				t.Errorf("absent %s written", k)
			}
		}
		if u.Label != "Viridiplantae Cavalier-Smith" {
			t.Errorf("label = %q, want long name", u.Label)
		}
		s, _ := nodeByID(doc, "tu-101")
		if s.Metadata["accepted"] != false {
			t.Errorf("tu-101 accepted = %v, want false", s.Metadata["accepted"])
		}
	})

	t.Run("vernacular language", func(t *testing.T) {
		v, ok := nodeByID(doc, "vn-500")
		if !ok || v.Label != "green plants" || v.Metadata["language"] != "English" {
			t.Fatalf("vn-500 = %+v", v)
		}
		if !hasEdge(doc, "vn-500", "tu-100", graph.RelVernacularOf) {
			t.Error("missing vn-500 vernacular_of tu-100")
		}
		if !hasEdge(doc, "tu-100", "english", graph.RelHasLanguage) {
			t.Error("missing tu-100 has_language english")
		}
		if fr, _ := nodeByID(doc, "vn-501"); fr.Label != "érable rouge" {
			t.Errorf("vn-501 label = %q", fr.Label)
		}
	})

	t.Run("authors", func(t *testing.T) {
		roles := make(map[string]string)
		for _, e := range doc.Edges {
			if e.Relation == graph.RelAuthor {
				roles[e.Source+" "+e.Target] = e.Metadata["role"].(string)
			}
		}
		want := map[string]string{
			"tu-101 author-42": graph.RoleTaxon,
			"tu-103 author-43": graph.RoleTaxon,
			"tu-103 author-42": graph.RoleHybrid,
		}
		if len(roles) != len(want) {
			t.Errorf("author edges = %v, want %v", roles, want)
		}
		for k, v := range want {
			if roles[k] != v {
				t.Errorf("role of %s = %q, want %q", k, roles[k], v)
			}
		}
		a, _ := nodeByID(doc, "author-43")
		if _, ok := a.Metadata["short_author"]; ok {
			t.Error("author-43 has no short author")
		}
	})

	t.Run("synonym and geography metadata", func(t *testing.T) {
		for _, e := range doc.Edges {
			switch e.Relation {
			case graph.RelSynonymOf, graph.RelHasGeographicDiv:
				if e.Metadata["update_date"] != itistest.UpdateDate {
					t.Errorf("%+v lacks update_date", e)
				}
			case graph.RelAuthor:
			default:
				if e.Metadata != nil {
					t.Errorf("%+v has metadata", e)
				}
			}
		}
		if !hasEdge(doc, "tu-101", "tu-100", graph.RelSynonymOf) {
			t.Error("missing tu-101 synonym_of tu-100")
		}
	})

	t.Run("kingdom scope", func(t *testing.T) {
		for _, id := range []string{"kingdom-5", "tu-900", "vn-900", "author-77", "rank-5.10"} {
			if _, ok := nodeByID(doc, id); ok {
				t.Errorf("out of scope node %s written", id)
			}
		}
	})
}

func TestBuildNodesPrecedeEdges(t *testing.T) {
	data, _ := build(t, open(t, itistest.Plantae(t), 3))
	nodes := bytes.Index(data, []byte(`"nodes"`))
	edges := bytes.Index(data, []byte(`"edges"`))
	if nodes < 0 || edges < nodes {
		t.Errorf(`"nodes" at %d, "edges" at %d`, nodes, edges)
	}
}

func TestBuildIdempotent(t *testing.T) {
	fx := itistest.Plantae(t)
	first, _ := build(t, open(t, fx, 3))
	second, _ := build(t, open(t, fx, 3))
	if !bytes.Equal(first, second) {
		t.Error("two builds over the same source differ")
	}
}

func TestBuildOptions(t *testing.T) {
	src := open(t, itistest.Plantae(t), 3)
	info := graph.Info{ID: "itis-test", Type: "ITIS", Label: "test"}
	data, _ := build(t, src, convert.WithGraphInfo(info), convert.WithIndent(0))

	if bytes.Count(data, []byte("\n")) != 1 {
		t.Errorf("compact output has %d newlines, want 1", bytes.Count(data, []byte("\n")))
	}
	if !bytes.HasPrefix(data, []byte(`{"graph":{"id":"itis-test","type":"ITIS","label":"test","directed":true,`)) {
		t.Errorf("output starts %q", data[:min(len(data), 80)])
	}
}

func TestBuildIndented(t *testing.T) {
	data, _ := build(t, open(t, itistest.Plantae(t), 3))
	if !bytes.HasPrefix(data, []byte("{\n  \"graph\": {\n    \"id\": \"itis-042721\",")) {
		t.Errorf("output starts %q", data[:min(len(data), 60)])
	}
}

func TestBuildEmptyKingdom(t *testing.T) {
	fx := itistest.New(t)
	fx.Kingdom(3, "Plantae")
	data, stats := build(t, open(t, fx, 3))
	doc := parse(t, data)

	// The sentinel is always present.
	if len(doc.Nodes) != 2 || doc.Nodes[1].ID != convert.RootID {
		t.Errorf("nodes = %+v", doc.Nodes)
	}
	if len(doc.Edges) != 0 || stats.EdgeCount() != 0 {
		t.Errorf("edges = %+v", doc.Edges)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		kingdom int64
		setup   func(*itistest.DB)
		want    errors.Code
		wantMsg string
	}{
		{
			name:    "missing kingdom",
			kingdom: 4,
			setup:   func(*itistest.DB) {},
			want:    errors.ErrCodeInvalidInput,
		},
		{
			name:    "unknown geography",
			kingdom: 3,
			setup: func(fx *itistest.DB) {
				fx.Geography(100, "Atlantis")
			},
			want:    errors.ErrCodeUnknownVocabulary,
			wantMsg: `"Atlantis"`,
		},
		{
			name:    "unknown language",
			kingdom: 3,
			setup: func(fx *itistest.DB) {
				fx.Vernacular(503, 100, "Klingon", "qach")
			},
			want:    errors.ErrCodeUnknownVocabulary,
			wantMsg: `"Klingon"`,
		},
		{
			name:    "duplicate vernacular id",
			kingdom: 3,
			setup: func(fx *itistest.DB) {
				fx.Vernacular(500, 101, "English", "maple")
			},
			want:    errors.ErrCodeLabelCollision,
			wantMsg: `"vn-500"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := itistest.Plantae(t)
			tt.setup(fx)
			var buf bytes.Buffer
			_, err := convert.New(open(t, fx, tt.kingdom), quiet()).Build(context.Background(), &buf, testStamp)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Build() error = %v, want %s", err, tt.want)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Build() error = %q, want it to mention %s", err, tt.wantMsg)
			}
		})
	}
}

func TestBuildTSNZeroCollides(t *testing.T) {
	fx := itistest.New(t)
	fx.Kingdom(3, "Plantae").
		Rank(3, 10, "Kingdom", 10, 10).
		Unit(itistest.Unit{TSN: 0, KingdomID: 3, RankID: 10, Name: "Zero"})
	var buf bytes.Buffer
	_, err := convert.New(open(t, fx, 3), quiet()).Build(context.Background(), &buf, testStamp)
	if !errors.Is(err, errors.ErrCodeLabelCollision) {
		t.Errorf("Build() error = %v, want %s", err, errors.ErrCodeLabelCollision)
	}
}

// cancelHooks cancels the build when a domain starts.
type cancelHooks struct {
	observability.NoopConvertHooks
	domain string
	cancel context.CancelFunc
}

func (h *cancelHooks) OnDomainStart(_ context.Context, _, domain string, _ int64) {
	if domain == h.domain {
		h.cancel()
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hooks := &cancelHooks{domain: string(itis.DomainUnits), cancel: cancel}

	var buf bytes.Buffer
	_, err := convert.New(open(t, itistest.Plantae(t), 3), quiet(), convert.WithHooks(hooks)).Build(ctx, &buf, testStamp)
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

// recordingHooks records domain events.
type recordingHooks struct {
	observability.NoopConvertHooks
	phases    []string
	completed map[string]int64
}

func (h *recordingHooks) OnPhaseStart(_ context.Context, phase string) {
	h.phases = append(h.phases, phase)
}

func (h *recordingHooks) OnDomainComplete(_ context.Context, phase, domain string, count int64, _ time.Duration, _ error) {
	h.completed[phase+"/"+domain] = count
}

func TestBuildReportsToHooks(t *testing.T) {
	hooks := &recordingHooks{completed: make(map[string]int64)}
	build(t, open(t, itistest.Plantae(t), 3), convert.WithHooks(hooks))

	if strings.Join(hooks.phases, ",") != "nodes,edges" {
		t.Errorf("phases = %v", hooks.phases)
	}
	want := map[string]int64{
		"nodes/kingdoms":             1,
		"nodes/taxonomic units":      5,
		"nodes/geographic divisions": 2,
		"nodes/languages":            2,
		"edges/unit links":           5,
		"edges/unit geographies":     3,
		"edges/vernaculars":          3,
	}
	for k, v := range want {
		if hooks.completed[k] != v {
			t.Errorf("completed[%s] = %d, want %d", k, hooks.completed[k], v)
		}
	}
}
