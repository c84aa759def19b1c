// Package combat implements the staged attack resolution pipeline:
// ResolveAttacks, HitRoll, WoundRoll, SaveRoll, DamageAllocation. The
// pipeline is pure with respect to the battle state it is handed; its
// only outputs are an ordered diff list and a dice trace, and callers
// own committing the diffs.
package combat

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/veldrane/grim-arbiter/internal/battle"
	"github.com/veldrane/grim-arbiter/internal/dice"
	"github.com/veldrane/grim-arbiter/internal/geometry"
	"github.com/veldrane/grim-arbiter/internal/profile"
)

// EngagementRangeInches is the melee eligibility distance.
const EngagementRangeInches = 1.0

// LoneOperativeRangeInches is the targeting restriction for unattached
// lone operatives.
const LoneOperativeRangeInches = 12.0

// Assignment pairs one attacking unit's weapon with one target unit.
type Assignment struct {
	AttackerID string
	WeaponRef  string
	TargetID   string
}

// Request is one resolution call: a batch of weapon assignments
// resolved strictly in order, so later assignments observe the
// casualties earlier ones produced.
type Request struct {
	Assignments []Assignment
}

// Outcome is the full result of one resolution call. On validation
// failure Success is false and Diffs is empty; rule checks never
// produce partial diffs.
type Outcome struct {
	Success bool
	Errors  []string
	Diffs   []battle.Diff
	Traces  []Trace
}

// Resolver drives the pipeline. All collaborators are injected; there
// is no process-wide state.
type Resolver struct {
	roller *dice.Roller
	log    *slog.Logger
}

// NewResolver builds a Resolver around a dice roller. The roller must
// not be advanced concurrently by another resolution.
func NewResolver(roller *dice.Roller, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{roller: roller, log: log}
}

// Resolve validates and runs every assignment in the request against
// the given state. The state itself is never mutated; casualties are
// tracked on an internal clone so the destroyed-target skip rule sees
// them.
func (r *Resolver) Resolve(state *battle.State, req Request) Outcome {
	if len(req.Assignments) == 0 {
		return failure(ErrEmptyRequest.Error())
	}

	working := state.Clone()
	if errs := r.validate(working, req); len(errs) > 0 {
		return Outcome{Success: false, Errors: errs}
	}

	out := Outcome{Success: true}
	for i, a := range req.Assignments {
		ctx := fmt.Sprintf("%s/%s -> %s", a.AttackerID, a.WeaponRef, a.TargetID)
		r.log.Debug("resolving assignment", "index", i, "context", ctx)

		diffs, traces := r.resolveAssignment(working, a, ctx)
		for _, d := range diffs {
			if err := d.Apply(working); err != nil {
				return failure(fmt.Sprintf("internal: %v", err))
			}
		}
		out.Diffs = append(out.Diffs, diffs...)
		out.Traces = append(out.Traces, traces...)
	}
	return out
}

func failure(errs ...string) Outcome {
	return Outcome{Success: false, Errors: errs}
}

// validate applies the full error taxonomy up front: structural errors
// and rule violations reject the whole request before any die is
// rolled.
func (r *Resolver) validate(state *battle.State, req Request) []string {
	var errs []string
	meleeUsed := map[string]string{}

	for i, a := range req.Assignments {
		tag := fmt.Sprintf("assignment %d", i+1)

		att, ok := state.Unit(a.AttackerID)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: %v: %q", tag, ErrUnknownUnit, a.AttackerID))
			continue
		}
		tgt, ok := state.Unit(a.TargetID)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: %v: %q", tag, ErrUnknownUnit, a.TargetID))
			continue
		}
		weapon, ok := att.Weapon(a.WeaponRef)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: %v: %q", tag, ErrUnknownWeapon, a.WeaponRef))
			continue
		}
		// The loader validates these, but states built in code reach
		// the resolver directly.
		if !dice.IsValid(weapon.Attacks) || !dice.IsValid(weapon.Damage) {
			errs = append(errs, fmt.Sprintf("%s: %v: %q", tag, ErrMalformedProfile, weapon.ID))
			continue
		}

		if att.IsDestroyed() {
			errs = append(errs, fmt.Sprintf("%s: %v: %q", tag, ErrAttackerDestroyed, a.AttackerID))
		}
		if tgt.IsDestroyed() {
			errs = append(errs, fmt.Sprintf("%s: %v: %q", tag, ErrTargetDestroyed, a.TargetID))
		}
		if att.Owner == tgt.Owner {
			errs = append(errs, fmt.Sprintf("%s: %v: %q", tag, ErrFriendlyTarget, a.TargetID))
		}

		if weapon.Kind == profile.KindRanged && tgt.IsLoneOperative() && !tgt.Flags.Has("attached") {
			if unitDistance(att, tgt) > LoneOperativeRangeInches {
				errs = append(errs, fmt.Sprintf("%s: %v", tag, ErrLoneOperative))
			}
		}

		if weapon.Has(profile.OneShot) && len(unspentModels(state, att, weapon)) == 0 {
			errs = append(errs, fmt.Sprintf("%s: %v: %q", tag, ErrSpentOneShot, weapon.ID))
		}

		if weapon.IsMelee() && !weapon.Has(profile.ExtraAttacks) {
			if prev, used := meleeUsed[a.AttackerID]; used && prev != weapon.ID {
				errs = append(errs, fmt.Sprintf("%s: %v", tag, ErrWeaponConflict))
			}
			meleeUsed[a.AttackerID] = weapon.ID
		}
	}
	return errs
}

// unspentModels returns the alive attacker model indices that have not
// spent the one-shot weapon yet.
func unspentModels(state *battle.State, att *profile.CombatantSnapshot, w *profile.WeaponProfile) []int {
	var idx []int
	for _, i := range att.AliveModels() {
		if !state.HasFiredOneShot(att.UnitID, att.Models[i].ID, w.ID) {
			idx = append(idx, i)
		}
	}
	return idx
}

// unitDistance is the shortest center distance between alive models of
// the two units.
func unitDistance(a, b *profile.CombatantSnapshot) float64 {
	best := math.Inf(1)
	for _, i := range a.AliveModels() {
		for _, j := range b.AliveModels() {
			if d := a.Models[i].Pos.Distance(b.Models[j].Pos); d < best {
				best = d
			}
		}
	}
	return best
}

// nearestTargetDistance is the shortest distance from one attacker
// model to any alive target model.
func nearestTargetDistance(att *profile.CombatantSnapshot, i int, tgt *profile.CombatantSnapshot) float64 {
	best := math.Inf(1)
	for _, j := range tgt.AliveModels() {
		if d := att.Models[i].Pos.Distance(tgt.Models[j].Pos); d < best {
			best = d
		}
	}
	return best
}

// seesTarget reports whether the attacker model has line of sight to
// any alive target model.
func seesTarget(att *profile.CombatantSnapshot, i int, tgt *profile.CombatantSnapshot, board *geometry.Board) bool {
	var features []geometry.Feature
	if board != nil {
		features = board.Features
	}
	for _, j := range tgt.AliveModels() {
		if geometry.HasLineOfSight(att.Combatant(i), tgt.Combatant(j), features) {
			return true
		}
	}
	return false
}
