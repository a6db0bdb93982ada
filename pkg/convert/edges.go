package convert

import (
	"fmt"

	"github.com/matzehuels/itisgraph/pkg/graph"
	"github.com/matzehuels/itisgraph/pkg/itis"
	"github.com/matzehuels/itisgraph/pkg/jsonstream"
	"github.com/matzehuels/itisgraph/pkg/label"
)

// edges writes the edge phase into the "edges" array.
func (r *run) edges(edges *jsonstream.Array) error {
	steps := []func(*jsonstream.Array) error{
		r.rankEdges,
		r.unitEdges,
		r.synonymEdges,
		r.geographyEdges,
		r.vernacularEdges,
	}
	for _, step := range steps {
		if err := step(edges); err != nil {
			return err
		}
	}
	return nil
}

// edge writes one edge. A nil meta writes no "metadata" member.
func (r *run) edge(edges *jsonstream.Array, source, target string, rel graph.Relation, meta func(*fields)) error {
	err := edges.Object(func(e *jsonstream.Object) error {
		f := &fields{o: e}
		f.set("source", source)
		f.set("target", target)
		f.set("relation", string(rel))
		if f.err != nil || meta == nil {
			return f.err
		}
		return e.Object("metadata", func(m *jsonstream.Object) error {
			mf := &fields{o: m}
			meta(mf)
			return mf.err
		})
	})
	if err == nil {
		r.stats.Edges[rel]++
	}
	return err
}

// rankEdges links the kingdom to its ranks and every rank to its direct and
// required parent ranks. Ranks that are their own parent get no loop.
func (r *run) rankEdges(edges *jsonstream.Array) error {
	return each(r, PhaseEdges, itis.DomainRanks, r.src.Ranks, func(rk itis.Rank) error {
		id := label.Rank(rk.KingdomID, rk.RankID)
		if err := r.edge(edges, label.Kingdom(rk.KingdomID), id, graph.RelUses, nil); err != nil {
			return err
		}
		if rk.DirParentRankID != rk.RankID {
			if err := r.edge(edges, label.Rank(rk.KingdomID, rk.DirParentRankID), id, graph.RelDirectParentOf, nil); err != nil {
				return err
			}
		}
		if rk.ReqParentRankID != rk.RankID {
			return r.edge(edges, label.Rank(rk.KingdomID, rk.ReqParentRankID), id, graph.RelRequiredParentOf, nil)
		}
		return nil
	})
}

// unitEdges writes the hierarchy, rank and author edges of every unit.
func (r *run) unitEdges(edges *jsonstream.Array) error {
	return each(r, PhaseEdges, itis.DomainUnitLinks, r.src.UnitLinks, func(l itis.UnitLink) error {
		id := label.Unit(l.TSN)
		parent := RootID
		if !l.IsRoot() {
			parent = label.Unit(l.ParentTSN.V)
		}
		if err := r.edge(edges, parent, id, graph.RelParentOf, nil); err != nil {
			return err
		}
		if err := r.edge(edges, id, label.Rank(l.KingdomID, l.RankID), graph.RelHasRank, nil); err != nil {
			return err
		}
		if err := r.author(edges, l.TSN, l.TaxonAuthor, graph.RoleTaxon); err != nil {
			return err
		}
		return r.author(edges, l.TSN, l.HybridAuthor, graph.RoleHybrid)
	})
}

// author writes a unit's author edge for one role. Ids of zero or below mean
// "no author". Positive ids that are not authors of the kingdom have no node
// in the document, so their edges are skipped and counted instead.
func (r *run) author(edges *jsonstream.Array, tsn int64, ref itis.AuthorRef, role string) error {
	if ref.ID <= 0 {
		return nil
	}
	if !ref.Known {
		r.stats.SkippedAuthors++
		r.logger.Debug("skipped unknown author", "tsn", tsn, "author", ref.ID, "role", role)
		return nil
	}
	return r.edge(edges, label.Unit(tsn), label.Author(ref.ID), graph.RelAuthor, func(f *fields) {
		f.set("role", role)
	})
}

func (r *run) synonymEdges(edges *jsonstream.Array) error {
	return each(r, PhaseEdges, itis.DomainSynonymLinks, r.src.SynonymLinks, func(s itis.SynonymLink) error {
		var meta func(*fields)
		if s.UpdateDate.Valid {
			meta = func(f *fields) { f.set("update_date", s.UpdateDate.V) }
		}
		return r.edge(edges, label.Unit(s.TSN), label.Unit(s.AcceptedTSN), graph.RelSynonymOf, meta)
	})
}

func (r *run) geographyEdges(edges *jsonstream.Array) error {
	return each(r, PhaseEdges, itis.DomainUnitGeographies, r.src.UnitGeographies, func(g itis.UnitGeography) error {
		target, err := label.Geography(g.Value)
		if err != nil {
			return fmt.Errorf("tsn %d: %w", g.TSN, err)
		}
		var meta func(*fields)
		if g.UpdateDate.Valid {
			meta = func(f *fields) { f.set("update_date", g.UpdateDate.V) }
		}
		return r.edge(edges, label.Unit(g.TSN), target, graph.RelHasGeographicDiv, meta)
	})
}

// vernacularEdges links every vernacular name to its unit, and the unit to
// the name's language.
func (r *run) vernacularEdges(edges *jsonstream.Array) error {
	return each(r, PhaseEdges, itis.DomainVernaculars, r.src.Vernaculars, func(v itis.Vernacular) error {
		lang, err := label.Language(v.Language)
		if err != nil {
			return fmt.Errorf("vernacular %d: %w", v.VernID, err)
		}
		unit := label.Unit(v.TSN)
		if err := r.edge(edges, label.Vernacular(v.VernID), unit, graph.RelVernacularOf, nil); err != nil {
			return err
		}
		return r.edge(edges, unit, lang, graph.RelHasLanguage, nil)
	})
}
