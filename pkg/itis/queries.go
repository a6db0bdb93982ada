package itis

import (
	"context"
	"database/sql"
	"strings"
)

// Every query takes the kingdom id as its only argument and orders by the
// natural key of its domain. Date columns are cast to text so the driver does
// not reinterpret them as time.Time.
const (
	kingdomsQuery = `
		SELECT kingdom_id, kingdom_name, CAST(update_date AS TEXT)
		FROM kingdoms
		WHERE kingdom_id = ?
		ORDER BY kingdom_id`

	ranksQuery = `
		SELECT kingdom_id, rank_id, rank_name, dir_parent_rank_id, req_parent_rank_id,
		       CAST(update_date AS TEXT)
		FROM taxon_unit_types
		WHERE kingdom_id = ?
		ORDER BY kingdom_id, rank_id`

	unitsQuery = `
		SELECT u.tsn, u.complete_name, l.completename, u.name_usage,
		       u.unit_ind1, u.unit_name1, u.unit_ind2, u.unit_name2,
		       u.unit_ind3, u.unit_name3, u.unit_ind4, u.unit_name4,
		       CAST(u.initial_time_stamp AS TEXT), CAST(u.update_date AS TEXT),
		       (SELECT MIN(n.nodc_id) FROM nodc_ids n WHERE n.tsn = u.tsn)
		FROM taxonomic_units u
		LEFT JOIN longnames l ON l.tsn = u.tsn
		WHERE u.kingdom_id = ?
		ORDER BY u.tsn`

	unitLinksQuery = `
		SELECT u.tsn, u.parent_tsn, u.kingdom_id, u.rank_id,
		       COALESCE(u.taxon_author_id, 0),
		       EXISTS (SELECT 1 FROM taxon_authors_lkp a
		               WHERE a.taxon_author_id = u.taxon_author_id AND a.kingdom_id = ?1),
		       COALESCE(u.hybrid_author_id, 0),
		       EXISTS (SELECT 1 FROM taxon_authors_lkp a
		               WHERE a.taxon_author_id = u.hybrid_author_id AND a.kingdom_id = ?1)
		FROM taxonomic_units u
		WHERE u.kingdom_id = ?1
		ORDER BY u.tsn`

	vernacularsQuery = `
		SELECT v.vern_id, v.tsn, v.vernacular_name, COALESCE(v.language, ''),
		       CAST(v.update_date AS TEXT)
		FROM vernaculars v
		JOIN taxonomic_units u ON u.tsn = v.tsn
		WHERE u.kingdom_id = ?
		ORDER BY v.vern_id, v.tsn`

	authorsQuery = `
		SELECT taxon_author_id, taxon_author, short_author, CAST(update_date AS TEXT)
		FROM taxon_authors_lkp
		WHERE kingdom_id = ?
		ORDER BY taxon_author_id`

	geographiesQuery = `
		SELECT DISTINCT COALESCE(g.geographic_value, '')
		FROM geographic_div g
		JOIN taxonomic_units u ON u.tsn = g.tsn
		WHERE u.kingdom_id = ?
		ORDER BY 1`

	languagesQuery = `
		SELECT DISTINCT COALESCE(v.language, '')
		FROM vernaculars v
		JOIN taxonomic_units u ON u.tsn = v.tsn
		WHERE u.kingdom_id = ?
		ORDER BY 1`

	synonymLinksQuery = `
		SELECT s.tsn, s.tsn_accepted, CAST(s.update_date AS TEXT)
		FROM synonym_links s
		JOIN taxonomic_units u ON u.tsn = s.tsn
		JOIN taxonomic_units a ON a.tsn = s.tsn_accepted AND a.kingdom_id = u.kingdom_id
		WHERE u.kingdom_id = ?
		ORDER BY s.tsn, s.tsn_accepted`

	unitGeographiesQuery = `
		SELECT g.tsn, COALESCE(g.geographic_value, ''), CAST(g.update_date AS TEXT)
		FROM geographic_div g
		JOIN taxonomic_units u ON u.tsn = g.tsn
		WHERE u.kingdom_id = ?
		ORDER BY g.tsn, 2`
)

var selectQueries = map[Domain]string{
	DomainKingdoms:        kingdomsQuery,
	DomainRanks:           ranksQuery,
	DomainUnits:           unitsQuery,
	DomainUnitLinks:       unitLinksQuery,
	DomainVernaculars:     vernacularsQuery,
	DomainAuthors:         authorsQuery,
	DomainGeographies:     geographiesQuery,
	DomainLanguages:       languagesQuery,
	DomainSynonymLinks:    synonymLinksQuery,
	DomainUnitGeographies: unitGeographiesQuery,
}

// countQueries wraps each select so a count always matches its cursor.
var countQueries = func() map[Domain]string {
	m := make(map[Domain]string, len(selectQueries))
	for d, q := range selectQueries {
		m[d] = "SELECT COUNT(*) FROM (" + strings.TrimSpace(q) + ")"
	}
	return m
}()

// Kingdoms returns the scoped kingdom.
func (s *Source) Kingdoms(ctx context.Context) (*Cursor[Kingdom], error) {
	return query(ctx, s, DomainKingdoms, kingdomsQuery, func(rows *sql.Rows) (Kingdom, error) {
		var k Kingdom
		err := rows.Scan(&k.ID, &k.Name, &k.UpdateDate)
		k.UpdateDate = present(k.UpdateDate)
		return k, err
	})
}

// Ranks returns the kingdom's ranks ordered by rank id.
func (s *Source) Ranks(ctx context.Context) (*Cursor[Rank], error) {
	return query(ctx, s, DomainRanks, ranksQuery, func(rows *sql.Rows) (Rank, error) {
		var r Rank
		err := rows.Scan(&r.KingdomID, &r.RankID, &r.Name, &r.DirParentRankID, &r.ReqParentRankID, &r.UpdateDate)
		r.UpdateDate = present(r.UpdateDate)
		return r, err
	})
}

// Units returns the node-side unit records ordered by tsn.
func (s *Source) Units(ctx context.Context) (*Cursor[Unit], error) {
	return query(ctx, s, DomainUnits, unitsQuery, func(rows *sql.Rows) (Unit, error) {
		var u Unit
		err := rows.Scan(
			&u.TSN, &u.CompleteName, &u.LongName, &u.NameUsage,
			&u.UnitInd[0], &u.UnitName[0], &u.UnitInd[1], &u.UnitName[1],
			&u.UnitInd[2], &u.UnitName[2], &u.UnitInd[3], &u.UnitName[3],
			&u.Created, &u.UpdateDate, &u.NODCID,
		)
		if err != nil {
			return u, err
		}
		u.LongName = present(u.LongName)
		u.NameUsage = present(u.NameUsage)
		for i := range u.UnitInd {
			u.UnitInd[i] = present(u.UnitInd[i])
			u.UnitName[i] = present(u.UnitName[i])
		}
		u.Created = present(u.Created)
		u.Created.V = strings.Replace(u.Created.V, " ", "T", 1)
		u.UpdateDate = present(u.UpdateDate)
		u.NODCID = present(u.NODCID)
		return u, nil
	})
}

// UnitLinks returns the edge-side unit records ordered by tsn.
func (s *Source) UnitLinks(ctx context.Context) (*Cursor[UnitLink], error) {
	return query(ctx, s, DomainUnitLinks, unitLinksQuery, func(rows *sql.Rows) (UnitLink, error) {
		var l UnitLink
		err := rows.Scan(
			&l.TSN, &l.ParentTSN, &l.KingdomID, &l.RankID,
			&l.TaxonAuthor.ID, &l.TaxonAuthor.Known,
			&l.HybridAuthor.ID, &l.HybridAuthor.Known,
		)
		return l, err
	})
}

// Vernaculars returns the vernacular names of the kingdom's units ordered by
// vern_id.
func (s *Source) Vernaculars(ctx context.Context) (*Cursor[Vernacular], error) {
	return query(ctx, s, DomainVernaculars, vernacularsQuery, func(rows *sql.Rows) (Vernacular, error) {
		var v Vernacular
		err := rows.Scan(&v.VernID, &v.TSN, &v.Name, &v.Language, &v.UpdateDate)
		v.UpdateDate = present(v.UpdateDate)
		return v, err
	})
}

// Authors returns the kingdom's taxon authors ordered by id.
func (s *Source) Authors(ctx context.Context) (*Cursor[Author], error) {
	return query(ctx, s, DomainAuthors, authorsQuery, func(rows *sql.Rows) (Author, error) {
		var a Author
		err := rows.Scan(&a.ID, &a.TaxonAuthor, &a.ShortAuthor, &a.UpdateDate)
		a.ShortAuthor = present(a.ShortAuthor)
		a.UpdateDate = present(a.UpdateDate)
		return a, err
	})
}

// Geographies returns the distinct geographic division values used by the
// kingdom's units.
func (s *Source) Geographies(ctx context.Context) (*Cursor[string], error) {
	return query(ctx, s, DomainGeographies, geographiesQuery, scanString)
}

// Languages returns the distinct languages of the kingdom's vernacular names.
func (s *Source) Languages(ctx context.Context) (*Cursor[string], error) {
	return query(ctx, s, DomainLanguages, languagesQuery, scanString)
}

// SynonymLinks returns the synonym links of the kingdom's units. Links to an
// accepted unit of another kingdom are left out.
func (s *Source) SynonymLinks(ctx context.Context) (*Cursor[SynonymLink], error) {
	return query(ctx, s, DomainSynonymLinks, synonymLinksQuery, func(rows *sql.Rows) (SynonymLink, error) {
		var l SynonymLink
		err := rows.Scan(&l.TSN, &l.AcceptedTSN, &l.UpdateDate)
		l.UpdateDate = present(l.UpdateDate)
		return l, err
	})
}

// UnitGeographies returns the geographic division records of the kingdom's
// units.
func (s *Source) UnitGeographies(ctx context.Context) (*Cursor[UnitGeography], error) {
	return query(ctx, s, DomainUnitGeographies, unitGeographiesQuery, func(rows *sql.Rows) (UnitGeography, error) {
		var g UnitGeography
		err := rows.Scan(&g.TSN, &g.Value, &g.UpdateDate)
		g.UpdateDate = present(g.UpdateDate)
		return g, err
	})
}

func scanString(rows *sql.Rows) (string, error) {
	var s string
	err := rows.Scan(&s)
	return s, err
}
