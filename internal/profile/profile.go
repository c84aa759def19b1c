// Package profile turns raw roster records into the typed, validated
// profiles the resolution engine consumes. Raw data arrives in two
// historical encodings (numeric strings and free-text special rules);
// this package is the single boundary where both are absorbed.
package profile

import (
	"github.com/veldrane/grim-arbiter/internal/geometry"
)

// WeaponKind splits profiles into the two attack sequences.
type WeaponKind string

const (
	KindRanged WeaponKind = "ranged"
	KindMelee  WeaponKind = "melee"
)

// WeaponProfile is an immutable weapon statline derived from raw unit
// data at resolution time. AP is stored non-negative and applied as a
// save-threshold worsening.
type WeaponProfile struct {
	ID             string     `validate:"required"`
	Name           string     `validate:"required"`
	Kind           WeaponKind `validate:"oneof=ranged melee"`
	Attacks        string     `validate:"required"`
	SkillThreshold int        `validate:"min=2,max=6"`
	Strength       int        `validate:"min=1"`
	AP             int        `validate:"min=0"`
	Damage         string     `validate:"required"`
	RangeInches    float64    `validate:"min=0"`
	Keywords       KeywordSet
}

// Has reports whether the weapon carries the keyword.
func (w *WeaponProfile) Has(k Keyword) bool { return w.Keywords.Has(k) }

// Param returns the keyword's parameter for this weapon.
func (w *WeaponProfile) Param(k Keyword) int { return w.Keywords.Param(k) }

// IsMelee reports whether the weapon fights in melee.
func (w *WeaponProfile) IsMelee() bool { return w.Kind == KindMelee }

// Model is one model's slice of a snapshot.
type Model struct {
	ID            string `validate:"required"`
	Alive         bool
	CurrentWounds int `validate:"min=0"`
	MaxWounds     int `validate:"min=1"`
	// Invuln is the invulnerable-save threshold, zero for none.
	Invuln    int `validate:"min=0,max=6"`
	Pos       geometry.Point
	Base      *geometry.Shape
	Character bool
	// HeightInches overrides the keyword-derived sight height when
	// positive.
	HeightInches float64 `validate:"min=0"`
}

// CombatantSnapshot is the read-only view of a unit for one resolution
// call. Effect flags are inputs owned by external ability managers.
type CombatantSnapshot struct {
	UnitID     string  `validate:"required"`
	Owner      string  `validate:"required"`
	Name       string
	Models     []Model `validate:"required,min=1,dive"`
	Toughness  int     `validate:"min=1"`
	Save       int     `validate:"min=2,max=7"`
	Leadership int     `validate:"min=0"`
	// FNP is the feel-no-pain threshold, zero for none.
	FNP      int `validate:"min=0,max=6"`
	Keywords KeywordSet
	Flags    FlagSet
	Weapons  []WeaponProfile `validate:"dive"`
}

// Weapon returns the named weapon profile, matching id first and
// falling back to name.
func (c *CombatantSnapshot) Weapon(ref string) (*WeaponProfile, bool) {
	for i := range c.Weapons {
		if c.Weapons[i].ID == ref || c.Weapons[i].Name == ref {
			return &c.Weapons[i], true
		}
	}
	return nil, false
}

// AliveModels returns the indices of models still on the table.
func (c *CombatantSnapshot) AliveModels() []int {
	var idx []int
	for i := range c.Models {
		if c.Models[i].Alive {
			idx = append(idx, i)
		}
	}
	return idx
}

// IsDestroyed reports whether no alive models remain.
func (c *CombatantSnapshot) IsDestroyed() bool {
	return len(c.AliveModels()) == 0
}

// InvulnSave returns the unit's best invulnerable-save threshold,
// considering model statlines and any externally granted invuln flag.
// Zero means no invulnerable save.
func (c *CombatantSnapshot) InvulnSave() int {
	best := 0
	for _, i := range c.AliveModels() {
		if v := c.Models[i].Invuln; v > 0 && (best == 0 || v < best) {
			best = v
		}
	}
	if v := c.Flags.Param(FlagInvuln); v > 0 && (best == 0 || v < best) {
		best = v
	}
	return best
}

// ModelHeight returns the sight height of the model at index i: the
// explicit override when set, 5.0" for monster, vehicle and titanic
// units, infantry height otherwise.
func (c *CombatantSnapshot) ModelHeight(i int) float64 {
	if i >= 0 && i < len(c.Models) && c.Models[i].HeightInches > 0 {
		return c.Models[i].HeightInches
	}
	if c.Keywords.TallClass() {
		return geometry.TallModelInches
	}
	return geometry.InfantryInches
}

// Combatant builds the geometric view of the model at index i.
func (c *CombatantSnapshot) Combatant(i int) geometry.Combatant {
	m := c.Models[i]
	return geometry.Combatant{Pos: m.Pos, Base: m.Base, Height: c.ModelHeight(i)}
}

// CoverPosition returns the unit's representative position: the first
// alive model. Reports false for a destroyed unit.
func (c *CombatantSnapshot) CoverPosition() (geometry.Point, bool) {
	for i := range c.Models {
		if c.Models[i].Alive {
			return c.Models[i].Pos, true
		}
	}
	return geometry.Point{}, false
}

// HasCoverFlag reports whether an external effect already grants the
// unit benefit of cover.
func (c *CombatantSnapshot) HasCoverFlag() bool {
	return c.Flags.Has(FlagCover) || c.Flags.Has(FlagInCover)
}

// HasStealth reports whether ranged attacks against this unit suffer
// the stealth to-hit penalty, from keyword or external effect.
func (c *CombatantSnapshot) HasStealth() bool {
	return c.Keywords.Has(Stealth) || c.Flags.Has(FlagStealth)
}

// IsLoneOperative reports whether the unit restricts ranged targeting
// to twelve inches.
func (c *CombatantSnapshot) IsLoneOperative() bool {
	return c.Keywords.Has(LoneOperative)
}
