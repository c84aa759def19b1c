package geometry

// CheckBenefitOfCover reports whether a target at target gains cover
// against a shooter at shooter on the given board.
//
// Blocking terrain grants cover when the target stands within the
// footprint, or when the sight segment crosses the footprint while the
// target is outside it (the true "behind" case). Area terrain grants
// cover only when the target stands within it; being behind area
// terrain grants nothing. Degenerate footprints never grant cover.
func CheckBenefitOfCover(target, shooter Point, board *Board) bool {
	if board == nil {
		return false
	}
	for _, f := range board.Features {
		if f.Footprint.IsDegenerate() {
			continue
		}
		switch f.Type.Class() {
		case CoverArea:
			if f.Footprint.Contains(target) {
				return true
			}
		case CoverBlocking:
			inside := f.Footprint.Contains(target)
			if inside {
				return true
			}
			if f.Footprint.IntersectsSegment(target, shooter) {
				return true
			}
		}
	}
	return false
}

// CoverSubject is the minimal unit view needed for the flag-aware cover
// check: a representative position and any externally granted cover
// flag. The position lookup reports false when the unit cannot supply
// one (no alive models).
type CoverSubject interface {
	CoverPosition() (Point, bool)
	HasCoverFlag() bool
}

// TargetHasBenefitOfCover combines externally granted cover flags with
// geometric cover between the units' representative positions. It
// returns false when the shooter cannot be evaluated.
func TargetHasBenefitOfCover(target, shooter CoverSubject, board *Board) bool {
	if target == nil || shooter == nil {
		return false
	}
	shooterPos, ok := shooter.CoverPosition()
	if !ok {
		return false
	}
	if target.HasCoverFlag() {
		return true
	}
	targetPos, ok := target.CoverPosition()
	if !ok {
		return false
	}
	return CheckBenefitOfCover(targetPos, shooterPos, board)
}
