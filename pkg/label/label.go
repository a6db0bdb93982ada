// Package label derives stable graph node ids from ITIS natural keys.
//
// Numeric entities get a prefixed id built from their key:
//
//	label.Kingdom(3)      // "kingdom-3"
//	label.Rank(3, 10)     // "rank-3.10"
//	label.Unit(100)       // "tu-100"
//	label.Vernacular(500) // "vn-500"
//	label.Author(42)      // "author-42"
//
// Geographic divisions and languages come from closed vocabularies. Their ids
// are fixed slugs looked up by canonical name, and a name outside the
// vocabulary is a fatal [errors.VocabularyError]:
//
//	id, err := label.Language("English") // "english", nil
//	_, err = label.Geography("Atlantis") // UNKNOWN_VOCABULARY_VALUE
//
// All functions are pure and safe for concurrent use.
package label

import (
	"strconv"

	"github.com/matzehuels/itisgraph/pkg/errors"
)

// Id prefixes of the numeric entity kinds.
const (
	PrefixKingdom    = "kingdom-"
	PrefixRank       = "rank-"
	PrefixUnit       = "tu-"
	PrefixVernacular = "vn-"
	PrefixAuthor     = "author-"
)

// Vocabulary names reported in [errors.VocabularyError].
const (
	VocabularyGeography = "geographic division"
	VocabularyLanguage  = "language"
)

// Kingdom returns the node id of a kingdom.
func Kingdom(kingdomID int64) string {
	return PrefixKingdom + strconv.FormatInt(kingdomID, 10)
}

// Rank returns the node id of a rank. Rank ids are only unique within a
// kingdom, so the kingdom is part of the id.
func Rank(kingdomID, rankID int64) string {
	return PrefixRank + strconv.FormatInt(kingdomID, 10) + "." + strconv.FormatInt(rankID, 10)
}

// Unit returns the node id of a taxonomic unit.
func Unit(tsn int64) string {
	return PrefixUnit + strconv.FormatInt(tsn, 10)
}

// Vernacular returns the node id of a vernacular name.
func Vernacular(vernID int64) string {
	return PrefixVernacular + strconv.FormatInt(vernID, 10)
}

// Author returns the node id of a taxon author.
func Author(authorID int64) string {
	return PrefixAuthor + strconv.FormatInt(authorID, 10)
}

// Geography returns the slug of a geographic division.
func Geography(name string) (string, error) {
	if slug, ok := geographies[name]; ok {
		return slug, nil
	}
	return "", &errors.VocabularyError{Vocabulary: VocabularyGeography, Value: name}
}

// Language returns the slug of a vernacular language.
func Language(name string) (string, error) {
	if slug, ok := languages[name]; ok {
		return slug, nil
	}
	return "", &errors.VocabularyError{Vocabulary: VocabularyLanguage, Value: name}
}
