package battle

// Projector folds ordered diff lists into the battle state.
type Projector struct{}

// NewProjector creates a standard projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Apply folds the diffs into the state all-or-nothing: the diffs are
// first applied to a clone, and the live state is only swapped over
// when every diff succeeded. A failed application leaves the state
// untouched.
func (p *Projector) Apply(state *State, diffs []Diff) error {
	staged := state.Clone()
	for _, d := range diffs {
		if err := d.Apply(staged); err != nil {
			return err
		}
	}
	state.Units = staged.Units
	state.OneShot = staged.OneShot
	return nil
}

// Build folds diffs into a fresh projection of the given base state.
func (p *Projector) Build(base *State, diffs []Diff) (*State, error) {
	staged := base.Clone()
	for _, d := range diffs {
		if err := d.Apply(staged); err != nil {
			return nil, err
		}
	}
	return staged, nil
}
