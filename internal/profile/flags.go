package profile

import (
	"strconv"
	"strings"
)

// Effect flags granted by external ability and stratagem managers. The
// resolution engine reads them and never writes them back.
const (
	FlagCover      = "effect_cover"
	FlagInCover    = "in_cover"
	FlagStealth    = "effect_stealth"
	FlagInvuln     = "effect_invuln"
	FlagOathTarget = "oath_of_moment_target"
	FlagTwinLinked = "twin_linked"
	FlagRerollOnes = "reroll_ones"
)

// FlagSet holds a unit's active effect flags. A flag may carry a
// numeric parameter after a colon, as in "effect_invuln:4".
type FlagSet map[string]int

// ParseFlags builds a FlagSet from raw flag strings.
func ParseFlags(raw []string) FlagSet {
	set := FlagSet{}
	for _, entry := range raw {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		name, param := entry, 0
		if i := strings.IndexByte(entry, ':'); i > 0 {
			if n, err := strconv.Atoi(entry[i+1:]); err == nil {
				name, param = entry[:i], n
			}
		}
		set[name] = param
	}
	return set
}

// Has reports whether the flag is set.
func (s FlagSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Param returns the flag's numeric parameter, zero when absent or
// unparameterized.
func (s FlagSet) Param(name string) int {
	return s[name]
}
