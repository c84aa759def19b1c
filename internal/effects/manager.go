package effects

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"

	"github.com/veldrane/grim-arbiter/internal/battle"
	"github.com/veldrane/grim-arbiter/internal/profile"
)

// Definition is one ability manifest entry: a CEL condition over the
// {attacker, target, weapon} context and the flags it grants while the
// condition holds.
type Definition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Condition   string   `yaml:"condition"`
	// AppliesTo names the unit receiving the flags, "attacker" or
	// "target".
	AppliesTo string   `yaml:"applies_to"`
	Flags     []string `yaml:"flags"`
}

type ability struct {
	def     Definition
	program cel.Program
}

// Manager holds the compiled ability set and evaluates it for one
// prospective attack.
type Manager struct {
	registry  *Registry
	abilities []ability
}

// NewManager compiles the given definitions against the registry.
func NewManager(registry *Registry, defs []Definition) (*Manager, error) {
	m := &Manager{registry: registry}
	for _, def := range defs {
		if def.AppliesTo == "" {
			def.AppliesTo = "target"
		}
		prog, err := registry.Compile(def.Condition)
		if err != nil {
			return nil, fmt.Errorf("ability %q: %w", def.Name, err)
		}
		m.abilities = append(m.abilities, ability{def: def, program: prog})
	}
	return m, nil
}

// LoadManifests reads every *.yaml ability manifest under dir and
// compiles it into a Manager.
func LoadManifests(registry *Registry, dir string) (*Manager, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read ability manifests in %s: %w", dir, err)
	}
	var defs []Definition
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var fileDefs []Definition
		if err := yaml.Unmarshal(raw, &fileDefs); err != nil {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", e.Name(), err)
		}
		defs = append(defs, fileDefs...)
	}
	m, err := NewManager(registry, defs)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Grants evaluates every ability for the prospective attack and
// returns the flag diffs to apply before resolution. The engine never
// calls this; the session does, keeping the flag lifecycle outside the
// pure pipeline.
func (m *Manager) Grants(attacker, target *profile.CombatantSnapshot, weapon *profile.WeaponProfile) ([]battle.Diff, error) {
	ctx := BuildEvalContext(attacker, target, weapon)

	var diffs []battle.Diff
	for _, a := range m.abilities {
		out, _, err := a.program.Eval(ctx)
		if err != nil {
			return nil, fmt.Errorf("ability %q: %w", a.def.Name, err)
		}
		hold, ok := out.Value().(bool)
		if !ok || !hold {
			continue
		}
		unit := target
		if a.def.AppliesTo == "attacker" {
			unit = attacker
		}
		for flag, param := range profile.ParseFlags(a.def.Flags) {
			diffs = append(diffs, &battle.FlagDiff{
				Unit: unit.UnitID, Flag: flag, Param: param, Operation: battle.OpSet,
			})
		}
	}
	return diffs, nil
}

// Clear builds the remove diffs for every flag the manager could have
// granted to the unit, used to expire instant effects after a
// resolution.
func (m *Manager) Clear(unit *profile.CombatantSnapshot) []battle.Diff {
	seen := map[string]bool{}
	var diffs []battle.Diff
	for _, a := range m.abilities {
		for flag := range profile.ParseFlags(a.def.Flags) {
			if seen[flag] || !unit.Flags.Has(flag) {
				continue
			}
			seen[flag] = true
			diffs = append(diffs, &battle.FlagDiff{
				Unit: unit.UnitID, Flag: flag, Operation: battle.OpRemove,
			})
		}
	}
	return diffs
}
