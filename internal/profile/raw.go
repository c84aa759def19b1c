package profile

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/veldrane/grim-arbiter/internal/dice"
	"github.com/veldrane/grim-arbiter/internal/geometry"
)

// RawShape is the on-disk base shape record.
type RawShape struct {
	Form     string  `yaml:"form"`
	Diameter float64 `yaml:"diameter"`
	Length   float64 `yaml:"length"`
	Width    float64 `yaml:"width"`
	Rotation float64 `yaml:"rotation"`
}

// RawModel is the on-disk model record. Alive defaults to true and
// current wounds default to the full wound characteristic.
type RawModel struct {
	ID            string    `yaml:"id"`
	Alive         *bool     `yaml:"alive"`
	Wounds        FlexInt   `yaml:"wounds"`
	CurrentWounds *FlexInt  `yaml:"current_wounds"`
	Invuln        FlexInt   `yaml:"invulnerable_save"`
	X             float64   `yaml:"x"`
	Y             float64   `yaml:"y"`
	Base          *RawShape `yaml:"base"`
	Character     bool      `yaml:"character"`
	HeightInches  float64   `yaml:"height_inches"`
}

// RawWeapon is the on-disk weapon record, tolerant of both numeric
// encodings and of rules split across special_rules and keywords.
type RawWeapon struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Kind         string   `yaml:"kind"`
	Range        FlexInt  `yaml:"range"`
	Attacks      FlexExpr `yaml:"attacks"`
	Skill        FlexInt  `yaml:"skill"`
	Strength     FlexInt  `yaml:"strength"`
	AP           FlexInt  `yaml:"ap"`
	Damage       FlexExpr `yaml:"damage"`
	SpecialRules string   `yaml:"special_rules"`
	Keywords     []string `yaml:"keywords"`
}

// RawUnit is the on-disk unit record.
type RawUnit struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	Owner        string      `yaml:"owner"`
	Toughness    FlexInt     `yaml:"toughness"`
	Save         FlexInt     `yaml:"save"`
	Leadership   FlexInt     `yaml:"leadership"`
	FNP          FlexInt     `yaml:"feel_no_pain"`
	SpecialRules string      `yaml:"special_rules"`
	Keywords     []string    `yaml:"keywords"`
	Flags        []string    `yaml:"flags"`
	Models       []RawModel  `yaml:"models"`
	Weapons      []RawWeapon `yaml:"weapons"`
}

// Resolver normalizes raw records into validated typed profiles.
type Resolver struct {
	validate *validator.Validate
}

// NewResolver builds a Resolver with its own validator instance.
func NewResolver() *Resolver {
	return &Resolver{validate: validator.New()}
}

// Weapon normalizes one raw weapon record.
func (r *Resolver) Weapon(raw RawWeapon) (*WeaponProfile, error) {
	keywords := ParseKeywords(append([]string{raw.SpecialRules}, raw.Keywords...)...)

	kind := WeaponKind(strings.ToLower(strings.TrimSpace(raw.Kind)))
	if kind == "" {
		if raw.Range > 0 {
			kind = KindRanged
		} else {
			kind = KindMelee
		}
	}

	skill := int(raw.Skill)
	if skill == 0 && keywords.Has(Torrent) {
		// Torrent weapons auto-hit and ship without a skill value.
		skill = 6
	}

	ap := int(raw.AP)
	if ap < 0 {
		ap = -ap
	}

	damage := string(raw.Damage)
	if damage == "" {
		damage = "1"
	}

	name := raw.Name
	if name == "" {
		name = raw.ID
	}
	id := raw.ID
	if id == "" {
		id = strings.ReplaceAll(strings.ToLower(name), " ", "-")
	}

	w := &WeaponProfile{
		ID:             id,
		Name:           name,
		Kind:           kind,
		Attacks:        string(raw.Attacks),
		SkillThreshold: skill,
		Strength:       int(raw.Strength),
		AP:             ap,
		Damage:         damage,
		RangeInches:    float64(raw.Range),
		Keywords:       keywords,
	}
	if err := r.validate.Struct(w); err != nil {
		return nil, fmt.Errorf("malformed weapon %q: %w", name, err)
	}
	if !dice.IsValid(w.Attacks) {
		return nil, fmt.Errorf("malformed weapon %q: bad attacks expression %q", name, w.Attacks)
	}
	if !dice.IsValid(w.Damage) {
		return nil, fmt.Errorf("malformed weapon %q: bad damage expression %q", name, w.Damage)
	}
	return w, nil
}

// Unit normalizes one raw unit record into a snapshot.
func (r *Resolver) Unit(raw RawUnit) (*CombatantSnapshot, error) {
	name := raw.Name
	if name == "" {
		name = raw.ID
	}

	models := make([]Model, 0, len(raw.Models))
	for i, rm := range raw.Models {
		id := rm.ID
		if id == "" {
			id = fmt.Sprintf("m%d", i+1)
		}
		alive := rm.Alive == nil || *rm.Alive
		wounds := int(rm.Wounds)
		current := wounds
		if rm.CurrentWounds != nil {
			current = int(*rm.CurrentWounds)
		}
		if current == 0 {
			alive = false
		}
		models = append(models, Model{
			ID:            id,
			Alive:         alive,
			CurrentWounds: current,
			MaxWounds:     wounds,
			Invuln:        int(rm.Invuln),
			Pos:           geometry.Point{X: rm.X, Y: rm.Y},
			Base:          shapeFromRaw(rm.Base),
			Character:     rm.Character,
			HeightInches:  rm.HeightInches,
		})
	}

	c := &CombatantSnapshot{
		UnitID:     raw.ID,
		Owner:      raw.Owner,
		Name:       name,
		Models:     models,
		Toughness:  int(raw.Toughness),
		Save:       int(raw.Save),
		Leadership: int(raw.Leadership),
		FNP:        int(raw.FNP),
		Keywords:   ParseKeywords(append([]string{raw.SpecialRules}, raw.Keywords...)...),
		Flags:      ParseFlags(raw.Flags),
	}
	if c.FNP == 0 {
		c.FNP = c.Keywords.Param(FeelNoPain)
	}
	for _, rw := range raw.Weapons {
		w, err := r.Weapon(rw)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", name, err)
		}
		c.Weapons = append(c.Weapons, *w)
	}
	if err := r.validate.Struct(c); err != nil {
		return nil, fmt.Errorf("malformed unit %q: %w", name, err)
	}
	return c, nil
}

// shapeFromRaw builds the geometric base. Missing or unrecognized
// shape data falls back to a default circular base rather than failing
// the resolution.
func shapeFromRaw(raw *RawShape) *geometry.Shape {
	if raw == nil {
		return nil
	}
	form := geometry.ShapeForm(strings.ToLower(strings.TrimSpace(raw.Form)))
	switch form {
	case geometry.FormRectangular, geometry.FormOval:
		return &geometry.Shape{
			Form:     form,
			Length:   raw.Length,
			Width:    raw.Width,
			Rotation: raw.Rotation,
		}
	default:
		d := raw.Diameter
		if d <= 0 {
			d = 1.26 // 32mm
		}
		return &geometry.Shape{Form: geometry.FormCircular, Diameter: d}
	}
}
