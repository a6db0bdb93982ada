package convert

import (
	"database/sql"

	"github.com/matzehuels/itisgraph/pkg/errors"
	"github.com/matzehuels/itisgraph/pkg/graph"
	"github.com/matzehuels/itisgraph/pkg/itis"
	"github.com/matzehuels/itisgraph/pkg/jsonstream"
	"github.com/matzehuels/itisgraph/pkg/label"
)

type optional = sql.Null[string]

// Root sentinel. Units without a parent hang below it.
const (
	RootID    = label.PrefixUnit + "0"
	RootLabel = "(root)"
)

// nodes writes the node phase into the "nodes" object.
func (r *run) nodes(nodes *jsonstream.Object) error {
	steps := []func(*jsonstream.Object) error{
		r.kingdomNodes,
		r.rankNodes,
		r.unitNodes,
		r.vernacularNodes,
		r.authorNodes,
		r.geographyNodes,
		r.languageNodes,
	}
	for _, step := range steps {
		if err := step(nodes); err != nil {
			return err
		}
	}
	return nil
}

// node writes one node. meta adds attributes after "type".
func (r *run) node(nodes *jsonstream.Object, t graph.NodeType, id, name string, meta func(*fields)) error {
	err := nodes.Object(id, func(n *jsonstream.Object) error {
		if err := n.Field("label", name); err != nil {
			return err
		}
		return n.Object("metadata", func(m *jsonstream.Object) error {
			f := &fields{o: m}
			f.set("type", string(t))
			if meta != nil {
				meta(f)
			}
			return f.err
		})
	})
	if err == nil {
		r.stats.Nodes[t]++
	}
	return err
}

func (r *run) kingdomNodes(nodes *jsonstream.Object) error {
	seq := sequence{domain: itis.DomainKingdoms}
	return each(r, PhaseNodes, itis.DomainKingdoms, r.src.Kingdoms, func(k itis.Kingdom) error {
		id := label.Kingdom(k.ID)
		if err := seq.next(id); err != nil {
			return err
		}
		return r.node(nodes, graph.TypeKingdom, id, k.Name, func(f *fields) {
			f.set("itis_kingdom_id", k.ID)
			f.opt("update_date", k.UpdateDate)
		})
	})
}

func (r *run) rankNodes(nodes *jsonstream.Object) error {
	seq := sequence{domain: itis.DomainRanks}
	return each(r, PhaseNodes, itis.DomainRanks, r.src.Ranks, func(rk itis.Rank) error {
		id := label.Rank(rk.KingdomID, rk.RankID)
		if err := seq.next(id); err != nil {
			return err
		}
		return r.node(nodes, graph.TypeRank, id, rk.Name, func(f *fields) {
			f.set("itis_kingdom_id", rk.KingdomID)
			f.set("itis_rank_id", rk.RankID)
			f.opt("update_date", rk.UpdateDate)
		})
	})
}

func (r *run) unitNodes(nodes *jsonstream.Object) error {
	err := r.node(nodes, graph.TypeUnit, RootID, RootLabel, func(f *fields) {
		f.set("tsn", 0)
		f.set("sentinel", true)
	})
	if err != nil {
		return err
	}
	seq := sequence{domain: itis.DomainUnits}
	return each(r, PhaseNodes, itis.DomainUnits, r.src.Units, func(u itis.Unit) error {
		id := label.Unit(u.TSN)
		if id == RootID {
			return &errors.CollisionError{ID: id, Domain: string(itis.DomainUnits)}
		}
		if err := seq.next(id); err != nil {
			return err
		}
		return r.node(nodes, graph.TypeUnit, id, u.Label(), func(f *fields) {
			f.set("tsn", u.TSN)
			f.opt("name_usage", u.NameUsage)
			f.set("accepted", u.Accepted())
			for i := range u.UnitName {
				f.opt(unitIndKeys[i], u.UnitInd[i])
				f.opt(unitNameKeys[i], u.UnitName[i])
			}
			f.opt("created", u.Created)
			f.opt("update_date", u.UpdateDate)
			f.opt("nodc_id", u.NODCID)
		})
	})
}

var (
	unitIndKeys  = [4]string{"unit_ind1", "unit_ind2", "unit_ind3", "unit_ind4"}
	unitNameKeys = [4]string{"unit_name1", "unit_name2", "unit_name3", "unit_name4"}
)

func (r *run) vernacularNodes(nodes *jsonstream.Object) error {
	seq := sequence{domain: itis.DomainVernaculars}
	return each(r, PhaseNodes, itis.DomainVernaculars, r.src.Vernaculars, func(v itis.Vernacular) error {
		id := label.Vernacular(v.VernID)
		if err := seq.next(id); err != nil {
			return err
		}
		return r.node(nodes, graph.TypeVernacular, id, v.Name, func(f *fields) {
			f.set("itis_vern_id", v.VernID)
			f.set("language", v.Language)
			f.opt("update_date", v.UpdateDate)
		})
	})
}

func (r *run) authorNodes(nodes *jsonstream.Object) error {
	seq := sequence{domain: itis.DomainAuthors}
	return each(r, PhaseNodes, itis.DomainAuthors, r.src.Authors, func(a itis.Author) error {
		id := label.Author(a.ID)
		if err := seq.next(id); err != nil {
			return err
		}
		return r.node(nodes, graph.TypeAuthor, id, a.TaxonAuthor, func(f *fields) {
			f.set("itis_author_id", a.ID)
			f.opt("short_author", a.ShortAuthor)
			f.opt("update_date", a.UpdateDate)
		})
	})
}

func (r *run) geographyNodes(nodes *jsonstream.Object) error {
	seq := sequence{domain: itis.DomainGeographies}
	return each(r, PhaseNodes, itis.DomainGeographies, r.src.Geographies, func(name string) error {
		id, err := label.Geography(name)
		if err != nil {
			return err
		}
		if err := seq.next(id); err != nil {
			return err
		}
		return r.node(nodes, graph.TypeGeography, id, name, nil)
	})
}

func (r *run) languageNodes(nodes *jsonstream.Object) error {
	seq := sequence{domain: itis.DomainLanguages}
	return each(r, PhaseNodes, itis.DomainLanguages, r.src.Languages, func(name string) error {
		id, err := label.Language(name)
		if err != nil {
			return err
		}
		if err := seq.next(id); err != nil {
			return err
		}
		return r.node(nodes, graph.TypeLanguage, id, name, nil)
	})
}
