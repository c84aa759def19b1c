package combat

import (
	"fmt"

	"github.com/veldrane/grim-arbiter/internal/battle"
	"github.com/veldrane/grim-arbiter/internal/geometry"
	"github.com/veldrane/grim-arbiter/internal/profile"
)

// attack is one die's worth of attack flowing through the pipeline. It
// keeps its firing model so the melta half-range bonus can be applied
// per model when a unit straddles the half-range line.
type attack struct {
	firer     int
	halfRange bool
	critHit   bool
	autoWound bool
	critWound bool
}

// resolveAssignment runs the full stage sequence for one assignment
// against the working state and returns the diffs and traces it
// produced. Mid-batch destruction of the target is a skip, not an
// error: validation already rejected targets that were destroyed when
// the request arrived.
func (r *Resolver) resolveAssignment(state *battle.State, a Assignment, ctx string) ([]battle.Diff, []Trace) {
	att, _ := state.Unit(a.AttackerID)
	tgt, _ := state.Unit(a.TargetID)
	weapon, _ := att.Weapon(a.WeaponRef)

	if tgt.IsDestroyed() {
		return nil, []Trace{{
			Context: ctx, Stage: StageResolveAttacks, Weapon: weapon.ID,
			Notes: []string{"target destroyed earlier in batch, assignment skipped"},
		}}
	}

	firers := r.eligibleModels(state, att, tgt, weapon)
	if len(firers) == 0 {
		return nil, []Trace{{
			Context: ctx, Stage: StageResolveAttacks, Weapon: weapon.ID,
			Notes: []string{"no eligible attacking models"},
		}}
	}

	attacks, attackTrace := r.resolveAttacks(att, tgt, weapon, firers, ctx)
	hits, hitTrace := r.hitRoll(att, tgt, weapon, attacks, ctx)
	wounds, woundTrace := r.woundRoll(att, tgt, weapon, hits, ctx)
	unsaved, saveTrace := r.saveRoll(att, tgt, weapon, state.Board, wounds, ctx)
	diffs, damageTrace := r.allocateDamage(att, tgt, weapon, unsaved, ctx)

	if weapon.Has(profile.OneShot) {
		for _, f := range firers {
			diffs = append(diffs, &battle.OneShotDiff{
				Unit: att.UnitID, Model: att.Models[f.index].ID, Weapon: weapon.ID,
			})
		}
	}

	traces := []Trace{attackTrace, hitTrace, woundTrace, saveTrace, damageTrace}
	return diffs, traces
}

// firer is one eligible attacking model and its range relation to the
// target.
type firer struct {
	index     int
	halfRange bool
}

// eligibleModels selects the attacker models that may use the weapon
// this assignment: alive, in range, with line of sight for ranged
// weapons, in engagement range for melee, and not having spent a
// one-shot weapon.
func (r *Resolver) eligibleModels(state *battle.State, att, tgt *profile.CombatantSnapshot, weapon *profile.WeaponProfile) []firer {
	var out []firer
	for _, i := range att.AliveModels() {
		if weapon.Has(profile.OneShot) && state.HasFiredOneShot(att.UnitID, att.Models[i].ID, weapon.ID) {
			continue
		}
		dist := nearestTargetDistance(att, i, tgt)
		if weapon.IsMelee() {
			if dist > EngagementRangeInches {
				continue
			}
			out = append(out, firer{index: i})
			continue
		}
		if dist > weapon.RangeInches {
			continue
		}
		if !seesTarget(att, i, tgt, state.Board) {
			continue
		}
		out = append(out, firer{index: i, halfRange: dist <= weapon.RangeInches/2})
	}
	return out
}

// resolveAttacks computes the attack pool: the weapon's attacks
// characteristic per eligible model, re-rolled per model for variable
// expressions, plus the blast bonus of one attack per five models in
// the target unit.
func (r *Resolver) resolveAttacks(att, tgt *profile.CombatantSnapshot, weapon *profile.WeaponProfile, firers []firer, ctx string) ([]attack, Trace) {
	trace := Trace{Context: ctx, Stage: StageResolveAttacks, Weapon: weapon.ID}

	blastBonus := 0
	if weapon.Has(profile.Blast) {
		blastBonus = len(tgt.AliveModels()) / 5
		if blastBonus > 0 {
			trace.Notes = append(trace.Notes, fmt.Sprintf("blast adds %d attacks per model", blastBonus))
		}
	}

	var attacks []attack
	for _, f := range firers {
		v, err := r.roller.ResolveVariable(weapon.Attacks)
		if err != nil {
			// Unreachable past profile validation.
			continue
		}
		trace.Rolls = append(trace.Rolls, v.Rolls...)
		for n := 0; n < v.Value+blastBonus; n++ {
			attacks = append(attacks, attack{firer: f.index, halfRange: f.halfRange})
		}
	}
	trace.TotalAttacks = len(attacks)
	trace.Successes = len(attacks)
	return attacks, trace
}

// hitRoll rolls the pool against the weapon skill. An unmodified 6 is
// a critical hit and always hits; an unmodified 1 always misses.
// Re-rolls happen before the modifier is considered; stealth imposes a
// -1 modifier on ranged attacks only. Torrent weapons skip the stage
// and auto-hit without criticals.
func (r *Resolver) hitRoll(att, tgt *profile.CombatantSnapshot, weapon *profile.WeaponProfile, attacks []attack, ctx string) ([]attack, Trace) {
	trace := Trace{Context: ctx, Stage: StageHitRoll, Weapon: weapon.ID, TotalAttacks: len(attacks)}

	if weapon.Has(profile.Torrent) {
		trace.Notes = append(trace.Notes, "torrent auto-hits")
		trace.Successes = len(attacks)
		trace.RegularHits = len(attacks)
		return attacks, trace
	}

	threshold := weapon.SkillThreshold
	modifier := 0
	if weapon.Kind == profile.KindRanged && tgt.HasStealth() {
		modifier = -1
		trace.Notes = append(trace.Notes, "stealth -1 to hit")
	}
	rerollOnes := att.Flags.Has(profile.FlagRerollOnes)
	rerollFailed := tgt.Flags.Has(profile.FlagOathTarget)
	if rerollFailed {
		trace.Notes = append(trace.Notes, "re-rolling failed hits")
	} else if rerollOnes {
		trace.Notes = append(trace.Notes, "re-rolling hit rolls of 1")
	}

	trace.Threshold = threshold
	trace.Modifier = modifier

	var hits []attack
	sustained := weapon.Param(profile.SustainedHits)
	for _, atk := range attacks {
		raw := r.rollWithReroll(threshold, rerollOnes, rerollFailed, &trace)
		if raw == 6 {
			atk.critHit = true
			hits = append(hits, atk)
			trace.CriticalHits++
			if weapon.Has(profile.SustainedHits) {
				for n := 0; n < sustained; n++ {
					hits = append(hits, attack{firer: atk.firer, halfRange: atk.halfRange})
					trace.RegularHits++
					trace.SustainedHits++
				}
			}
			continue
		}
		if raw != 1 && raw+modifier >= threshold {
			hits = append(hits, atk)
			trace.RegularHits++
		}
	}
	trace.Successes = trace.CriticalHits + trace.RegularHits
	return hits, trace
}

// rollWithReroll rolls one d6, re-rolling once per the active policy.
// A raw 1 re-rolls under either policy; re-roll-ones takes priority so
// a 1 is never double-counted by the failed-roll policy. Policy checks
// use the unmodified roll.
func (r *Resolver) rollWithReroll(threshold int, rerollOnes, rerollFailed bool, trace *Trace) int {
	raw := r.roller.D6(1)[0]
	trace.Rolls = append(trace.Rolls, raw)

	redo := false
	if raw == 1 {
		redo = rerollOnes || rerollFailed
	} else if raw < threshold {
		redo = rerollFailed
	}
	if redo {
		raw = r.roller.D6(1)[0]
		trace.Rerolls = append(trace.Rerolls, raw)
	}
	return raw
}

// woundThreshold is the strength-versus-toughness comparison table.
func woundThreshold(strength, toughness int) int {
	switch {
	case strength >= 2*toughness:
		return 2
	case strength > toughness:
		return 3
	case strength == toughness:
		return 4
	case 2*strength <= toughness:
		return 6
	default:
		return 5
	}
}

// woundRoll converts hits to wounds. Lethal-hits criticals bypass the
// roll as automatic wounds; twin-linked re-rolls failed wounds before
// modifiers; an unmodified 6 is a critical wound, which for
// devastating-wounds weapons will bypass the save stage.
func (r *Resolver) woundRoll(att, tgt *profile.CombatantSnapshot, weapon *profile.WeaponProfile, hits []attack, ctx string) ([]attack, Trace) {
	threshold := woundThreshold(weapon.Strength, tgt.Toughness)
	trace := Trace{Context: ctx, Stage: StageWoundRoll, Weapon: weapon.ID, Threshold: threshold, TotalAttacks: len(hits)}

	lethal := weapon.Has(profile.LethalHits)
	devastating := weapon.Has(profile.DevastatingWounds)
	twinLinked := weapon.Has(profile.TwinLinked) || att.Flags.Has(profile.FlagTwinLinked)
	if twinLinked {
		trace.Notes = append(trace.Notes, "re-rolling failed wounds")
	}

	var wounds []attack
	for _, hit := range hits {
		if lethal && hit.critHit {
			hit.autoWound = true
			wounds = append(wounds, hit)
			trace.AutoWounds++
			continue
		}
		raw := r.rollWithReroll(threshold, twinLinked, twinLinked, &trace)
		if raw == 6 {
			hit.critWound = devastating
			wounds = append(wounds, hit)
			trace.CriticalWounds++
			trace.Successes++
			continue
		}
		if raw != 1 && raw >= threshold {
			wounds = append(wounds, hit)
			trace.Successes++
		}
	}
	return wounds, trace
}

// saveRoll rolls armour or invulnerable saves against the wound pool.
// The armour threshold is the base save worsened by AP; benefit of
// cover improves it by one, never below 2+ and never past a save the
// unit does not need. The invulnerable save ignores AP and cover, and
// the better of the two applies. Devastating critical wounds skip the
// stage entirely.
func (r *Resolver) saveRoll(att, tgt *profile.CombatantSnapshot, weapon *profile.WeaponProfile, board *geometry.Board, wounds []attack, ctx string) ([]attack, Trace) {
	trace := Trace{Context: ctx, Stage: StageSaveRoll, Weapon: weapon.ID, TotalAttacks: len(wounds)}

	armour := tgt.Save + weapon.AP
	cover := !weapon.Has(profile.IgnoresCover) &&
		geometry.TargetHasBenefitOfCover(tgt, att, board)
	if cover && armour > 2 {
		armour--
		trace.Notes = append(trace.Notes, "benefit of cover")
	}
	const noSave = 7
	if armour > 6 {
		armour = noSave
	}

	threshold := armour
	if inv := tgt.InvulnSave(); inv > 0 && inv < threshold {
		threshold = inv
		trace.Notes = append(trace.Notes, "invulnerable save")
	}
	trace.Threshold = threshold

	var unsaved []attack
	for _, w := range wounds {
		if w.critWound {
			unsaved = append(unsaved, w)
			trace.Bypassed++
			continue
		}
		if threshold >= noSave {
			unsaved = append(unsaved, w)
			trace.Successes++
			continue
		}
		raw := r.roller.D6(1)[0]
		trace.Rolls = append(trace.Rolls, raw)
		if raw == 1 || raw < threshold {
			unsaved = append(unsaved, w)
			trace.Successes++
		}
	}
	// Successes here count failed saves, the wounds that carry on to
	// damage.
	return unsaved, trace
}

// allocateDamage turns unsaved wounds into wound loss, model by model.
// Melta adds its bonus for attacks fired from half range; a
// half-damage defensive trait halves after melta and before feel no
// pain; feel no pain discards single damage points. One attack's
// excess over a slain model is lost, never carried to the next model.
func (r *Resolver) allocateDamage(att, tgt *profile.CombatantSnapshot, weapon *profile.WeaponProfile, unsaved []attack, ctx string) ([]battle.Diff, Trace) {
	trace := Trace{Context: ctx, Stage: StageDamageAllocation, Weapon: weapon.ID, TotalAttacks: len(unsaved)}

	alloc := newAllocator(tgt, weapon.Has(profile.Precision))
	meltaBonus := weapon.Param(profile.Melta)
	halfDamage := tgt.Keywords.Has(profile.HalfDamage)
	fnp := tgt.FNP

	for _, w := range unsaved {
		if alloc.exhausted() {
			trace.Notes = append(trace.Notes, "target destroyed, remaining damage discarded")
			break
		}
		v, err := r.roller.ResolveVariable(weapon.Damage)
		if err != nil {
			continue
		}
		trace.Rolls = append(trace.Rolls, v.Rolls...)
		dmg := v.Value
		if meltaBonus > 0 && w.halfRange {
			dmg += meltaBonus
		}
		if halfDamage {
			dmg = (dmg + 1) / 2
			if dmg < 1 {
				dmg = 1
			}
		}
		if fnp > 0 {
			kept := 0
			for n := 0; n < dmg; n++ {
				raw := r.roller.D6(1)[0]
				if raw >= fnp {
					trace.FNPIgnored++
				} else {
					kept++
				}
			}
			dmg = kept
		}
		trace.DamageDealt += alloc.absorb(dmg)
	}

	diffs := alloc.diffs()
	trace.ModelsSlain = alloc.slain
	trace.Successes = trace.DamageDealt
	return diffs, trace
}
