package itis_test

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/itisgraph/pkg/errors"
	"github.com/matzehuels/itisgraph/pkg/itis"
	"github.com/matzehuels/itisgraph/pkg/itis/itistest"
)

func openPlantae(t *testing.T) *itis.Source {
	t.Helper()
	fx := itistest.Plantae(t)
	src, err := itis.Open(context.Background(), fx.Path(), itis.Options{KingdomID: 3})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

// drain opens a cursor and reads it to the end.
func drain[T any](t *testing.T, open func(context.Context) (*itis.Cursor[T], error)) []T {
	t.Helper()
	c, err := open(context.Background())
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	defer c.Close()
	var out []T
	for c.Next() {
		out = append(out, c.Record())
	}
	if err := c.Err(); err != nil {
		t.Fatalf("cursor error: %v", err)
	}
	return out
}

func TestOpen(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := itis.Open(context.Background(), filepath.Join(t.TempDir(), "missing.sqlite"), itis.Options{})
		if !errors.Is(err, errors.ErrCodeSourceRead) {
			t.Errorf("Open() error = %v, want %s", err, errors.ErrCodeSourceRead)
		}
	})

	t.Run("negative kingdom", func(t *testing.T) {
		fx := itistest.New(t)
		_, err := itis.Open(context.Background(), fx.Path(), itis.Options{KingdomID: -1})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Open() error = %v, want %s", err, errors.ErrCodeInvalidInput)
		}
	})

	t.Run("default kingdom", func(t *testing.T) {
		fx := itistest.New(t)
		src, err := itis.Open(context.Background(), fx.Path(), itis.Options{})
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}
		defer src.Close()
		if src.KingdomID() != itis.DefaultKingdomID {
			t.Errorf("KingdomID() = %d, want %d", src.KingdomID(), itis.DefaultKingdomID)
		}
	})
}

func TestKingdomsAndRanks(t *testing.T) {
	src := openPlantae(t)

	kingdoms := drain(t, src.Kingdoms)
	if len(kingdoms) != 1 || kingdoms[0].ID != 3 || kingdoms[0].Name != "Plantae" {
		t.Fatalf("Kingdoms() = %+v, want only Plantae", kingdoms)
	}
	if !kingdoms[0].UpdateDate.Valid || kingdoms[0].UpdateDate.V != itistest.UpdateDate {
		t.Errorf("UpdateDate = %+v, want %s", kingdoms[0].UpdateDate, itistest.UpdateDate)
	}

	ranks := drain(t, src.Ranks)
	var ids []int64
	for _, r := range ranks {
		ids = append(ids, r.RankID)
	}
	if want := []int64{10, 20, 220}; !slices.Equal(ids, want) {
		t.Errorf("rank ids = %v, want %v", ids, want)
	}
	if ranks[2].DirParentRankID != 20 || ranks[2].ReqParentRankID != 10 {
		t.Errorf("Species parents = %d/%d, want 20/10", ranks[2].DirParentRankID, ranks[2].ReqParentRankID)
	}
}

func TestUnits(t *testing.T) {
	src := openPlantae(t)
	units := drain(t, src.Units)

	var tsns []int64
	for _, u := range units {
		tsns = append(tsns, u.TSN)
	}
	if want := []int64{1, 100, 101, 102, 103}; !slices.Equal(tsns, want) {
		t.Fatalf("tsns = %v, want %v", tsns, want)
	}

	u := units[1]
	if u.Label() != "Viridiplantae Cavalier-Smith" {
		t.Errorf("Label() = %q, want long name", u.Label())
	}
	if u.NODCID.V != "9400000000" {
		t.Errorf("NODCID = %+v, want lowest id", u.NODCID)
	}
	if u.Created.V != "1996-06-13T14:51:08" {
		t.Errorf("Created = %q, want T separator", u.Created.V)
	}
	if !u.Accepted() {
		t.Error("Accepted() = false, want true")
	}
	if u.UnitInd[0].Valid || u.UnitName[1].Valid {
		t.Errorf("absent columns decoded as present: %+v %+v", u.UnitInd[0], u.UnitName[1])
	}
	if !u.UnitName[0].Valid || u.UnitName[0].V != "Viridiplantae" {
		t.Errorf("UnitName[0] = %+v", u.UnitName[0])
	}

	if units[2].Label() != "Acer rubrum" || units[2].Accepted() {
		t.Errorf("unit 101 = %q accepted=%v", units[2].Label(), units[2].Accepted())
	}
	if units[2].NODCID.Valid {
		t.Error("unit 101 has no NODC id")
	}
}

func TestUnitLinks(t *testing.T) {
	src := openPlantae(t)
	links := drain(t, src.UnitLinks)

	byTSN := make(map[int64]itis.UnitLink)
	for _, l := range links {
		byTSN[l.TSN] = l
	}

	tests := []struct {
		tsn        int64
		root       bool
		taxonValid bool
		hybrid     bool
	}{
		{tsn: 1, root: true},
		{tsn: 100},
		{tsn: 101, taxonValid: true},
		{tsn: 102},
		{tsn: 103, taxonValid: true, hybrid: true},
	}
	for _, tt := range tests {
		l, ok := byTSN[tt.tsn]
		if !ok {
			t.Errorf("no link for %d", tt.tsn)
			continue
		}
		if l.IsRoot() != tt.root {
			t.Errorf("%d IsRoot() = %v, want %v", tt.tsn, l.IsRoot(), tt.root)
		}
		if l.TaxonAuthor.Valid() != tt.taxonValid {
			t.Errorf("%d taxon author %+v Valid() = %v, want %v", tt.tsn, l.TaxonAuthor, l.TaxonAuthor.Valid(), tt.taxonValid)
		}
		if l.HybridAuthor.Valid() != tt.hybrid {
			t.Errorf("%d hybrid author %+v Valid() = %v, want %v", tt.tsn, l.HybridAuthor, l.HybridAuthor.Valid(), tt.hybrid)
		}
	}
	if byTSN[102].HybridAuthor.ID != 999 || byTSN[102].HybridAuthor.Known {
		t.Errorf("unit 102 hybrid author = %+v, want unknown 999", byTSN[102].HybridAuthor)
	}
}

func TestVocabularyDomains(t *testing.T) {
	src := openPlantae(t)

	geos := drain(t, src.Geographies)
	if want := []string{"Europe & Northern Asia (excluding China)", "North America"}; !slices.Equal(geos, want) {
		t.Errorf("Geographies() = %v, want %v", geos, want)
	}

	langs := drain(t, src.Languages)
	if want := []string{"English", "French"}; !slices.Equal(langs, want) {
		t.Errorf("Languages() = %v, want %v", langs, want)
	}

	verns := drain(t, src.Vernaculars)
	if len(verns) != 3 || verns[0].VernID != 500 || verns[0].TSN != 100 || verns[0].Language != "English" {
		t.Errorf("Vernaculars() = %+v", verns)
	}

	authors := drain(t, src.Authors)
	if len(authors) != 2 || authors[0].ShortAuthor.V != "Linnaeus" || authors[1].ShortAuthor.Valid {
		t.Errorf("Authors() = %+v", authors)
	}
}

func TestCountMatchesCursor(t *testing.T) {
	ctx := context.Background()
	src := openPlantae(t)

	tests := []struct {
		domain itis.Domain
		want   int64
	}{
		{itis.DomainKingdoms, 1},
		{itis.DomainRanks, 3},
		{itis.DomainUnits, 5},
		{itis.DomainUnitLinks, 5},
		{itis.DomainVernaculars, 3},
		{itis.DomainAuthors, 2},
		{itis.DomainGeographies, 2},
		{itis.DomainLanguages, 2},
		{itis.DomainSynonymLinks, 1},
		{itis.DomainUnitGeographies, 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.domain), func(t *testing.T) {
			got, err := src.Count(ctx, tt.domain)
			if err != nil {
				t.Fatalf("Count() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := src.Count(ctx, itis.Domain("bogus")); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Count(bogus) error = %v, want %s", err, errors.ErrCodeInternal)
	}
}

func TestCursorLifecycle(t *testing.T) {
	src := openPlantae(t)
	c, err := src.Ranks(context.Background())
	if err != nil {
		t.Fatalf("Ranks() error: %v", err)
	}

	if !c.Next() {
		t.Fatal("Next() = false on first record")
	}
	if c.Read() != 1 || c.Domain() != itis.DomainRanks {
		t.Errorf("Read() = %d Domain() = %q", c.Read(), c.Domain())
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if c.Next() {
		t.Error("Next() = true after Close")
	}
}

func TestQueryAfterClose(t *testing.T) {
	src := openPlantae(t)
	src.Close()
	if _, err := src.Units(context.Background()); !errors.Is(err, errors.ErrCodeSourceRead) {
		t.Errorf("Units() error = %v, want %s", err, errors.ErrCodeSourceRead)
	}
}
