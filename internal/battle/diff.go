package battle

import (
	"fmt"
	"strings"

	"github.com/veldrane/grim-arbiter/internal/profile"
)

// Op is the mutation kind a diff performs.
type Op string

const (
	OpSet    Op = "set"
	OpRemove Op = "remove"
)

// Field is the typed tail of a diff path. Using a closed enum instead
// of free-form strings catches path typos at compile time.
type Field string

const (
	FieldCurrentWounds Field = "current_wounds"
	FieldAlive         Field = "alive"
	FieldOneShotFired  Field = "one_shot_fired"
	FieldFlag          Field = "flags"
)

// Path addresses the state slot a diff touches.
type Path struct {
	Unit   string `json:"unit"`
	Model  string `json:"model,omitempty"`
	Weapon string `json:"weapon,omitempty"`
	Flag   string `json:"flag,omitempty"`
	Field  Field  `json:"field"`
}

// String renders the dotted form consumed by external state stores,
// e.g. "units.intercessors.models.m2.current_wounds".
func (p Path) String() string {
	parts := []string{"units", p.Unit}
	if p.Model != "" {
		parts = append(parts, "models", p.Model)
	}
	switch p.Field {
	case FieldOneShotFired:
		parts = append(parts, "weapons", p.Weapon, string(FieldOneShotFired))
	case FieldFlag:
		parts = append(parts, "flags", p.Flag)
	default:
		parts = append(parts, string(p.Field))
	}
	return strings.Join(parts, ".")
}

// DiffType tags a diff for the journal envelope.
type DiffType string

const (
	DiffWounds  DiffType = "WoundsChanged"
	DiffAlive   DiffType = "AliveChanged"
	DiffOneShot DiffType = "OneShotSpent"
	DiffFlag    DiffType = "FlagChanged"
)

// Diff is one atomic state mutation. Diffs are the only mutation
// contract: the resolution engine emits them, the Projector applies
// them, and the journal records them for audit and replay.
type Diff interface {
	Type() DiffType
	Op() Op
	Path() Path
	Apply(state *State) error
	Message() string
}

// WoundsDiff sets a model's current wounds.
type WoundsDiff struct {
	Unit  string `json:"unit"`
	Model string `json:"model"`
	Value int    `json:"value"`
}

func (d *WoundsDiff) Type() DiffType { return DiffWounds }
func (d *WoundsDiff) Op() Op         { return OpSet }
func (d *WoundsDiff) Path() Path {
	return Path{Unit: d.Unit, Model: d.Model, Field: FieldCurrentWounds}
}
func (d *WoundsDiff) Apply(state *State) error {
	m, err := state.model(d.Unit, d.Model)
	if err != nil {
		return err
	}
	if d.Value < 0 {
		return fmt.Errorf("negative wounds for %s", d.Path())
	}
	m.CurrentWounds = d.Value
	return nil
}
func (d *WoundsDiff) Message() string {
	return fmt.Sprintf("%s/%s now at %d wounds", d.Unit, d.Model, d.Value)
}

// AliveDiff sets a model's alive flag.
type AliveDiff struct {
	Unit  string `json:"unit"`
	Model string `json:"model"`
	Alive bool   `json:"alive"`
}

func (d *AliveDiff) Type() DiffType { return DiffAlive }
func (d *AliveDiff) Op() Op         { return OpSet }
func (d *AliveDiff) Path() Path {
	return Path{Unit: d.Unit, Model: d.Model, Field: FieldAlive}
}
func (d *AliveDiff) Apply(state *State) error {
	m, err := state.model(d.Unit, d.Model)
	if err != nil {
		return err
	}
	m.Alive = d.Alive
	if !d.Alive {
		m.CurrentWounds = 0
	}
	return nil
}
func (d *AliveDiff) Message() string {
	if d.Alive {
		return fmt.Sprintf("%s/%s stands", d.Unit, d.Model)
	}
	return fmt.Sprintf("%s/%s destroyed", d.Unit, d.Model)
}

// OneShotDiff marks a one-shot weapon as spent for one model. The
// ledger never un-spends.
type OneShotDiff struct {
	Unit   string `json:"unit"`
	Model  string `json:"model"`
	Weapon string `json:"weapon"`
}

func (d *OneShotDiff) Type() DiffType { return DiffOneShot }
func (d *OneShotDiff) Op() Op         { return OpSet }
func (d *OneShotDiff) Path() Path {
	return Path{Unit: d.Unit, Model: d.Model, Weapon: d.Weapon, Field: FieldOneShotFired}
}
func (d *OneShotDiff) Apply(state *State) error {
	if _, err := state.model(d.Unit, d.Model); err != nil {
		return err
	}
	state.OneShot[OneShotKey{Unit: d.Unit, Model: d.Model, Weapon: d.Weapon}] = true
	return nil
}
func (d *OneShotDiff) Message() string {
	return fmt.Sprintf("%s/%s spent one-shot weapon %s", d.Unit, d.Model, d.Weapon)
}

// FlagDiff grants or clears a unit effect flag. Emitted by the ability
// manager boundary, never by the resolution engine itself.
type FlagDiff struct {
	Unit      string `json:"unit"`
	Flag      string `json:"flag"`
	Param     int    `json:"param,omitempty"`
	Operation Op     `json:"op"`
}

func (d *FlagDiff) Type() DiffType { return DiffFlag }
func (d *FlagDiff) Op() Op         { return d.Operation }
func (d *FlagDiff) Path() Path {
	return Path{Unit: d.Unit, Flag: d.Flag, Field: FieldFlag}
}
func (d *FlagDiff) Apply(state *State) error {
	u, ok := state.Units[d.Unit]
	if !ok {
		return fmt.Errorf("unknown unit %q", d.Unit)
	}
	if u.Flags == nil {
		u.Flags = profile.FlagSet{}
	}
	switch d.Operation {
	case OpRemove:
		delete(u.Flags, d.Flag)
	default:
		u.Flags[d.Flag] = d.Param
	}
	return nil
}
func (d *FlagDiff) Message() string {
	if d.Operation == OpRemove {
		return fmt.Sprintf("%s loses %s", d.Unit, d.Flag)
	}
	return fmt.Sprintf("%s gains %s", d.Unit, d.Flag)
}
