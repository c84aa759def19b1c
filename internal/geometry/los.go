package geometry

// HasLineOfSight reports whether the attacker can draw sight to the
// defender across the terrain set. Candidate points are sampled on both
// bases and sight holds if any attacker point sees any defender point.
//
// A feature blocks a sight segment when its footprint intersects the
// segment and its height blocks both combatants: tall terrain blocks
// everyone, medium terrain blocks only when neither combatant is tall
// enough to see over it, low terrain never blocks. A feature whose
// footprint contains the attacker's sight point is skipped, so a model
// standing inside terrain can always see out through that same piece.
func HasLineOfSight(attacker, defender Combatant, features []Feature) bool {
	if attacker.Base == nil && defender.Base == nil {
		return HasLineOfSightSimple(attacker.Pos, defender.Pos, features)
	}

	from := attacker.Base.SamplePoints(attacker.Pos, 0)
	to := defender.Base.SamplePoints(defender.Pos, 0)

	for _, a := range from {
		for _, d := range to {
			if segmentClear(a, d, attacker, defender, features) {
				return true
			}
		}
	}
	return false
}

// segmentClear reports whether a single sight segment avoids every
// blocking feature.
func segmentClear(a, d Point, attacker, defender Combatant, features []Feature) bool {
	for _, f := range features {
		if f.Footprint.IsDegenerate() {
			continue
		}
		if !heightBlocks(f, attacker, defender) {
			continue
		}
		if f.Footprint.Contains(a) {
			// Attacker inside this feature sees out through it.
			continue
		}
		if f.Footprint.IntersectsSegment(a, d) {
			return false
		}
	}
	return true
}

// heightBlocks reports whether the feature is tall enough to block
// sight between the two combatants. A combatant taller than the feature
// sees over it for both of them.
func heightBlocks(f Feature, attacker, defender Combatant) bool {
	h := f.Height.Inches()
	if h <= LowInches {
		return false
	}
	return attacker.height() <= h && defender.height() <= h
}

// HasLineOfSightSimple is the low-fidelity sight path for callers with
// no model-shape data: a single center-to-center segment that is
// conservatively blocked by any terrain taller than low.
func HasLineOfSightSimple(attacker, defender Point, features []Feature) bool {
	for _, f := range features {
		if f.Footprint.IsDegenerate() {
			continue
		}
		if f.Height.Inches() <= LowInches {
			continue
		}
		if f.Footprint.Contains(attacker) {
			continue
		}
		if f.Footprint.IntersectsSegment(attacker, defender) {
			return false
		}
	}
	return true
}
