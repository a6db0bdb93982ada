package label

import (
	"maps"
	"slices"
)

// geographies maps the geographic_value column of geographic_div to node ids.
// Extending it is a versioned change to the output contract.
var geographies = map[string]string{
	"Africa":         "africa",
	"Australia":      "australia",
	"Eastern Asia":   "eastern_asia",
	"Middle America": "middle_america",
	"North America":  "north_america",
	"Oceania":        "oceania",
	"South America":  "south_america",
	"Southern Asia":  "southern_asia",
	"Western Asia":   "western_asia",

	// ITIS spells out the exclusion in the division name.
	"Europe & Northern Asia (excluding China)": "europe_northern_asia",
}

// languages maps the language column of vernaculars to node ids.
var languages = map[string]string{
	"Afrikaans":       "afrikaans",
	"Arabic":          "arabic",
	"Bengali":         "bengali",
	"Chinese":         "chinese",
	"Djuka":           "djuka",
	"Dutch":           "dutch",
	"English":         "english",
	"Fijan":           "fijan",
	"French":          "french",
	"German":          "german",
	"Greek":           "greek",
	"Hausa":           "hausa",
	"Hawaiian":        "hawaiian",
	"Hindi":           "hindi",
	"Icelandic":       "icelandic",
	"Iglulik Inuit":   "iglulik_inuit",
	"Italian":         "italian",
	"Japanese":        "japanese",
	"Khmer":           "khmer",
	"Korean":          "korean",
	"Lao":             "lao",
	"Lithuanian":      "lithuanian",
	"Malagasy":        "malagasy",
	"Native American": "native_american",
	"Portuguese":      "portuguese",
	"Romanian":        "romanian",
	"Spanish":         "spanish",
	"Swahili":         "swahili",
	"Unspecified":     "unspecified",
	"Vietnamese":      "vietnamese",
}

// Geographies returns the canonical geographic division names, sorted.
func Geographies() []string {
	return slices.Sorted(maps.Keys(geographies))
}

// Languages returns the canonical language names, sorted.
func Languages() []string {
	return slices.Sorted(maps.Keys(languages))
}
