// Package battle holds the mutable world state and the diff contract
// through which the resolution engine mutates it. The engine itself is
// pure: it returns an ordered diff list and callers fold it in here.
package battle

import (
	"fmt"

	"github.com/veldrane/grim-arbiter/internal/geometry"
	"github.com/veldrane/grim-arbiter/internal/profile"
)

// OneShotKey identifies one fired one-shot weapon. The ledger is
// monotonic: a key is only ever added, never cleared, for the life of
// a battle.
type OneShotKey struct {
	Unit   string `json:"unit"`
	Model  string `json:"model"`
	Weapon string `json:"weapon"`
}

// State is the projected battle state: every unit, the terrain board,
// and the one-shot ledger.
type State struct {
	Units   map[string]*profile.CombatantSnapshot `json:"units"`
	Board   *geometry.Board                       `json:"board"`
	OneShot map[OneShotKey]bool                   `json:"-"`
}

// NewState creates an empty clean slate.
func NewState() *State {
	return &State{
		Units:   make(map[string]*profile.CombatantSnapshot),
		OneShot: make(map[OneShotKey]bool),
	}
}

// AddUnit registers a unit under its id.
func (s *State) AddUnit(u *profile.CombatantSnapshot) {
	s.Units[u.UnitID] = u
}

// Unit returns the unit for an id.
func (s *State) Unit(id string) (*profile.CombatantSnapshot, bool) {
	u, ok := s.Units[id]
	return u, ok
}

// HasFiredOneShot reports whether the (unit, model, weapon) triple has
// already spent its shot.
func (s *State) HasFiredOneShot(unit, model, weapon string) bool {
	return s.OneShot[OneShotKey{Unit: unit, Model: model, Weapon: weapon}]
}

// model resolves a model by unit id and model id.
func (s *State) model(unit, model string) (*profile.Model, error) {
	u, ok := s.Units[unit]
	if !ok {
		return nil, fmt.Errorf("unknown unit %q", unit)
	}
	for i := range u.Models {
		if u.Models[i].ID == model {
			return &u.Models[i], nil
		}
	}
	return nil, fmt.Errorf("unknown model %q in unit %q", model, unit)
}

// Clone deep-copies the state. The board is shared: terrain is
// immutable for the life of a battle.
func (s *State) Clone() *State {
	c := NewState()
	c.Board = s.Board
	for id, u := range s.Units {
		cu := *u
		cu.Models = append([]profile.Model(nil), u.Models...)
		cu.Weapons = append([]profile.WeaponProfile(nil), u.Weapons...)
		cu.Flags = profile.FlagSet{}
		for k, v := range u.Flags {
			cu.Flags[k] = v
		}
		c.Units[id] = &cu
	}
	for k, v := range s.OneShot {
		c.OneShot[k] = v
	}
	return c
}
