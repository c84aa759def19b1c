package profile

import (
	"strconv"
	"strings"
)

// Keyword is a typed weapon or unit ability. Free-text rule strings are
// parsed into this enum exactly once, at normalization time; everything
// downstream matches on the enum and never re-parses text.
type Keyword int

const (
	KeywordUnknown Keyword = iota

	// Weapon abilities.
	LethalHits
	SustainedHits
	DevastatingWounds
	TwinLinked
	IgnoresCover
	Melta
	OneShot
	Precision
	ExtraAttacks
	Blast
	Torrent

	// Defensive traits.
	HalfDamage
	Stealth
	LoneOperative
	FeelNoPain

	// Unit classes.
	Monster
	Vehicle
	Titanic
	Infantry
	Character
)

var keywordNames = map[Keyword]string{
	LethalHits:        "lethal hits",
	SustainedHits:     "sustained hits",
	DevastatingWounds: "devastating wounds",
	TwinLinked:        "twin-linked",
	IgnoresCover:      "ignores cover",
	Melta:             "melta",
	OneShot:           "one shot",
	Precision:         "precision",
	ExtraAttacks:      "extra attacks",
	Blast:             "blast",
	Torrent:           "torrent",
	HalfDamage:        "half damage",
	Stealth:           "stealth",
	LoneOperative:     "lone operative",
	FeelNoPain:        "feel no pain",
	Monster:           "monster",
	Vehicle:           "vehicle",
	Titanic:           "titanic",
	Infantry:          "infantry",
	Character:         "character",
}

func (k Keyword) String() string {
	if s, ok := keywordNames[k]; ok {
		return s
	}
	return "unknown"
}

// keywordLookup maps every accepted spelling to its keyword. Keys are
// pre-normalized: lowercase, single spaces, no punctuation.
var keywordLookup = map[string]Keyword{
	"lethal hits":        LethalHits,
	"sustained hits":     SustainedHits,
	"devastating wounds": DevastatingWounds,
	"twin linked":        TwinLinked,
	"ignores cover":      IgnoresCover,
	"melta":              Melta,
	"one shot":           OneShot,
	"precision":          Precision,
	"extra attacks":      ExtraAttacks,
	"blast":              Blast,
	"torrent":            Torrent,
	"half damage":        HalfDamage,
	"stealth":            Stealth,
	"lone operative":     LoneOperative,
	"feel no pain":       FeelNoPain,
	"fnp":                FeelNoPain,
	"monster":            Monster,
	"vehicle":            Vehicle,
	"titanic":            Titanic,
	"infantry":           Infantry,
	"character":          Character,
}

// KeywordSet holds parsed keywords with their numeric parameter, zero
// for keywords that carry none. Sustained Hits and Melta without an
// explicit count default to 1; Feel No Pain stores its threshold.
type KeywordSet map[Keyword]int

// Has reports whether the keyword is present.
func (s KeywordSet) Has(k Keyword) bool {
	_, ok := s[k]
	return ok
}

// Param returns the keyword's numeric parameter, zero when absent.
func (s KeywordSet) Param(k Keyword) int {
	return s[k]
}

// Add inserts a keyword, keeping the larger parameter on duplicates.
func (s KeywordSet) Add(k Keyword, param int) {
	if cur, ok := s[k]; !ok || param > cur {
		s[k] = param
	}
}

// Merge folds another set into this one.
func (s KeywordSet) Merge(other KeywordSet) {
	for k, p := range other {
		s.Add(k, p)
	}
}

// TallClass reports whether the set marks a tall model for sight
// purposes.
func (s KeywordSet) TallClass() bool {
	return s.Has(Monster) || s.Has(Vehicle) || s.Has(Titanic)
}

// ParseKeywords builds a KeywordSet from any mix of free-text rule
// strings ("lethal hits, melta 2") and structured keyword entries.
// Matching is case-insensitive and tolerant of hyphens and underscores.
// Unrecognized entries are skipped, not errors: roster files routinely
// carry faction keywords the arbitration core has no use for.
func ParseKeywords(raw ...string) KeywordSet {
	set := KeywordSet{}
	for _, chunk := range raw {
		for _, entry := range strings.Split(chunk, ",") {
			k, param, ok := parseKeyword(entry)
			if ok {
				set.Add(k, param)
			}
		}
	}
	return set
}

func parseKeyword(entry string) (Keyword, int, bool) {
	name := normalizeKeyword(entry)
	if name == "" {
		return KeywordUnknown, 0, false
	}
	if k, ok := keywordLookup[name]; ok {
		return k, defaultParam(k), true
	}
	// Trailing parameter forms: "sustained hits 2", "melta 4",
	// "feel no pain 5+".
	if i := strings.LastIndexByte(name, ' '); i > 0 {
		base, tail := name[:i], strings.TrimSuffix(name[i+1:], "+")
		if k, ok := keywordLookup[base]; ok {
			if n, err := strconv.Atoi(tail); err == nil && n > 0 {
				return k, n, true
			}
		}
	}
	return KeywordUnknown, 0, false
}

// defaultParam supplies the implied count when a parameterized keyword
// appears bare in roster data.
func defaultParam(k Keyword) int {
	switch k {
	case SustainedHits, Melta:
		return 1
	default:
		return 0
	}
}

func normalizeKeyword(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
