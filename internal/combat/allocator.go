package combat

import (
	"github.com/veldrane/grim-arbiter/internal/battle"
	"github.com/veldrane/grim-arbiter/internal/profile"
)

// allocator walks damage through a target unit model by model. It
// mutates only its own view of the unit and emits the diffs at the
// end, keeping the pipeline pure.
type allocator struct {
	unit    *profile.CombatantSnapshot
	wounds  map[int]int
	order   []int
	cursor  int
	slain   int
	touched []int
}

// newAllocator fixes the allocation order: already-wounded models
// first, and for precision weapons character models ahead of the rest.
func newAllocator(unit *profile.CombatantSnapshot, precision bool) *allocator {
	a := &allocator{unit: unit, wounds: map[int]int{}}

	alive := unit.AliveModels()
	for _, i := range alive {
		a.wounds[i] = unit.Models[i].CurrentWounds
	}

	pick := func(match func(m profile.Model) bool) {
		// Wounded models soak first within each group.
		for pass := 0; pass < 2; pass++ {
			for _, i := range alive {
				m := unit.Models[i]
				if !match(m) || a.inOrder(i) {
					continue
				}
				wounded := m.CurrentWounds < m.MaxWounds
				if (pass == 0) == wounded {
					a.order = append(a.order, i)
				}
			}
		}
	}

	if precision {
		pick(func(m profile.Model) bool { return m.Character })
	}
	pick(func(m profile.Model) bool { return true })
	return a
}

func (a *allocator) inOrder(idx int) bool {
	for _, i := range a.order {
		if i == idx {
			return true
		}
	}
	return false
}

// exhausted reports whether no alive model remains to absorb damage.
func (a *allocator) exhausted() bool {
	return a.cursor >= len(a.order)
}

// absorb applies one attack's damage to the current model and returns
// the wound loss actually inflicted. Excess over the model's remaining
// wounds is discarded, never carried to the next model.
func (a *allocator) absorb(dmg int) int {
	if dmg <= 0 || a.exhausted() {
		return 0
	}
	idx := a.order[a.cursor]
	remaining := a.wounds[idx]

	absorbed := dmg
	if absorbed > remaining {
		absorbed = remaining
	}
	a.wounds[idx] = remaining - absorbed
	a.touch(idx)

	if a.wounds[idx] == 0 {
		a.slain++
		a.cursor++
	}
	return absorbed
}

func (a *allocator) touch(idx int) {
	for _, i := range a.touched {
		if i == idx {
			return
		}
	}
	a.touched = append(a.touched, idx)
}

// diffs emits the wound and alive mutations in allocation order.
func (a *allocator) diffs() []battle.Diff {
	var out []battle.Diff
	for _, idx := range a.touched {
		m := a.unit.Models[idx]
		out = append(out, &battle.WoundsDiff{
			Unit: a.unit.UnitID, Model: m.ID, Value: a.wounds[idx],
		})
		if a.wounds[idx] == 0 {
			out = append(out, &battle.AliveDiff{
				Unit: a.unit.UnitID, Model: m.ID, Alive: false,
			})
		}
	}
	return out
}
