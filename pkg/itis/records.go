package itis

import (
	"database/sql"
	"strings"
)

// Domain names an entity domain of the source.
type Domain string

// Node-side domains, in emission order, followed by the edge-side record sets.
const (
	DomainKingdoms        Domain = "kingdoms"
	DomainRanks           Domain = "ranks"
	DomainUnits           Domain = "taxonomic units"
	DomainVernaculars     Domain = "vernaculars"
	DomainAuthors         Domain = "authors"
	DomainGeographies     Domain = "geographic divisions"
	DomainLanguages       Domain = "languages"
	DomainUnitLinks       Domain = "unit links"
	DomainSynonymLinks    Domain = "synonym links"
	DomainUnitGeographies Domain = "unit geographies"
)

// Kingdom is a row of kingdoms.
type Kingdom struct {
	ID         int64
	Name       string
	UpdateDate sql.Null[string]
}

// Rank is a row of taxon_unit_types.
type Rank struct {
	KingdomID       int64
	RankID          int64
	Name            string
	DirParentRankID int64
	ReqParentRankID int64
	UpdateDate      sql.Null[string]
}

// Unit is the node-side projection of a taxonomic_units row.
type Unit struct {
	TSN          int64
	CompleteName string
	LongName     sql.Null[string] // longnames.completename
	NameUsage    sql.Null[string]
	UnitInd      [4]sql.Null[string]
	UnitName     [4]sql.Null[string]
	Created      sql.Null[string] // initial_time_stamp with a T separator
	UpdateDate   sql.Null[string]
	NODCID       sql.Null[string] // lowest nodc_id of the unit
}

// Label returns the long name when one exists, otherwise the complete name.
func (u Unit) Label() string {
	if u.LongName.Valid {
		return u.LongName.V
	}
	return u.CompleteName
}

// Accepted reports whether the unit's name is the accepted (botany) or valid
// (zoology) usage.
func (u Unit) Accepted() bool {
	return u.NameUsage.V == "accepted" || u.NameUsage.V == "valid"
}

// AuthorRef is an author id referenced by a taxonomic unit.
type AuthorRef struct {
	ID    int64
	Known bool // the id exists in taxon_authors_lkp for the kingdom
}

// Valid reports whether the reference names an author node. Ids of zero or
// below mean "no author".
func (a AuthorRef) Valid() bool {
	return a.ID > 0 && a.Known
}

// UnitLink is the edge-side projection of a taxonomic_units row.
type UnitLink struct {
	TSN          int64
	ParentTSN    sql.Null[int64]
	KingdomID    int64
	RankID       int64
	TaxonAuthor  AuthorRef
	HybridAuthor AuthorRef
}

// IsRoot reports whether the unit has no parent unit.
func (l UnitLink) IsRoot() bool {
	return !l.ParentTSN.Valid || l.ParentTSN.V <= 0
}

// Vernacular is a row of vernaculars.
type Vernacular struct {
	VernID     int64
	TSN        int64
	Name       string
	Language   string
	UpdateDate sql.Null[string]
}

// Author is a row of taxon_authors_lkp.
type Author struct {
	ID          int64
	TaxonAuthor string
	ShortAuthor sql.Null[string]
	UpdateDate  sql.Null[string]
}

// SynonymLink is a row of synonym_links.
type SynonymLink struct {
	TSN         int64
	AcceptedTSN int64
	UpdateDate  sql.Null[string]
}

// UnitGeography is a row of geographic_div.
type UnitGeography struct {
	TSN        int64
	Value      string
	UpdateDate sql.Null[string]
}

// present trims s and marks blank values absent.
func present(s sql.Null[string]) sql.Null[string] {
	if !s.Valid {
		return s
	}
	s.V = strings.TrimSpace(s.V)
	s.Valid = s.V != ""
	return s
}
