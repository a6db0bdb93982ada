package graph

// =============================================================================
// Graph Identity
// =============================================================================

// Defaults for the graph header.
const (
	DefaultID    = "itis-042721"
	DefaultType  = "ITIS"
	DefaultLabel = "ITIS (2021-04-27)"
)

// SourceTypeSQLite is the provenance type of documents built from SQLite.
const SourceTypeSQLite = "sqlite"

// Info identifies a graph document.
type Info struct {
	ID    string
	Type  string
	Label string
}

// DefaultInfo returns the identity of the ITIS 2021-04-27 release.
func DefaultInfo() Info {
	return Info{ID: DefaultID, Type: DefaultType, Label: DefaultLabel}
}

// =============================================================================
// Node Types
// =============================================================================

// NodeType is the "type" discriminator of node metadata.
type NodeType string

// Node types, one per entity kind.
const (
	TypeKingdom    NodeType = "kingdom"
	TypeRank       NodeType = "taxon_unit_type"
	TypeUnit       NodeType = "taxonomic_unit"
	TypeVernacular NodeType = "vernacular"
	TypeAuthor     NodeType = "author"
	TypeGeography  NodeType = "geographic_div"
	TypeLanguage   NodeType = "language"
)

// NodeTypes returns every node type in node emission order.
func NodeTypes() []NodeType {
	return []NodeType{TypeKingdom, TypeRank, TypeUnit, TypeVernacular, TypeAuthor, TypeGeography, TypeLanguage}
}

// =============================================================================
// Relations
// =============================================================================

// Relation is the closed set of edge relations.
type Relation string

// Edge relations.
const (
	RelUses             Relation = "uses"               // kingdom -> rank
	RelDirectParentOf   Relation = "direct_parent_of"   // rank -> rank
	RelRequiredParentOf Relation = "required_parent_of" // rank -> rank
	RelParentOf         Relation = "parent_of"          // unit -> unit
	RelHasRank          Relation = "has_rank"           // unit -> rank
	RelSynonymOf        Relation = "synonym_of"         // unit -> accepted unit
	RelHasGeographicDiv Relation = "has_geographic_div" // unit -> geographic division
	RelAuthor           Relation = "author"             // unit -> author
	RelVernacularOf     Relation = "vernacular_of"      // vernacular -> unit
	RelHasLanguage      Relation = "has_language"       // unit -> language
)

var relations = map[Relation]bool{
	RelUses:             true,
	RelDirectParentOf:   true,
	RelRequiredParentOf: true,
	RelParentOf:         true,
	RelHasRank:          true,
	RelSynonymOf:        true,
	RelHasGeographicDiv: true,
	RelAuthor:           true,
	RelVernacularOf:     true,
	RelHasLanguage:      true,
}

// Valid reports whether r is a member of the closed relation set.
func (r Relation) Valid() bool {
	return relations[r]
}

// Relations returns every relation in edge emission order.
func Relations() []Relation {
	return []Relation{
		RelUses, RelDirectParentOf, RelRequiredParentOf,
		RelParentOf, RelHasRank, RelSynonymOf, RelHasGeographicDiv, RelAuthor,
		RelVernacularOf, RelHasLanguage,
	}
}

// Author edge roles, recorded as the edge's "role" metadata.
const (
	RoleTaxon  = "taxon"
	RoleHybrid = "hybrid"
)
