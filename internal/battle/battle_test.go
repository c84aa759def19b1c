package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldrane/grim-arbiter/internal/profile"
)

func testState() *State {
	s := NewState()
	s.AddUnit(&profile.CombatantSnapshot{
		UnitID: "squad", Owner: "p1", Toughness: 4, Save: 3,
		Models: []profile.Model{
			{ID: "a", Alive: true, CurrentWounds: 2, MaxWounds: 2},
			{ID: "b", Alive: true, CurrentWounds: 2, MaxWounds: 2},
		},
	})
	return s
}

func TestWoundsDiff(t *testing.T) {
	s := testState()

	require.NoError(t, (&WoundsDiff{Unit: "squad", Model: "a", Value: 1}).Apply(s))
	assert.Equal(t, 1, s.Units["squad"].Models[0].CurrentWounds)

	assert.Error(t, (&WoundsDiff{Unit: "squad", Model: "a", Value: -1}).Apply(s))
	assert.Error(t, (&WoundsDiff{Unit: "nope", Model: "a", Value: 1}).Apply(s))
}

func TestAliveDiffZeroesWounds(t *testing.T) {
	s := testState()

	require.NoError(t, (&AliveDiff{Unit: "squad", Model: "b", Alive: false}).Apply(s))
	assert.False(t, s.Units["squad"].Models[1].Alive)
	assert.Equal(t, 0, s.Units["squad"].Models[1].CurrentWounds)
	assert.False(t, s.Units["squad"].IsDestroyed())

	require.NoError(t, (&AliveDiff{Unit: "squad", Model: "a", Alive: false}).Apply(s))
	assert.True(t, s.Units["squad"].IsDestroyed())
}

func TestOneShotLedgerMonotonic(t *testing.T) {
	s := testState()

	assert.False(t, s.HasFiredOneShot("squad", "a", "melta"))
	require.NoError(t, (&OneShotDiff{Unit: "squad", Model: "a", Weapon: "melta"}).Apply(s))
	assert.True(t, s.HasFiredOneShot("squad", "a", "melta"))
	assert.False(t, s.HasFiredOneShot("squad", "b", "melta"))
}

func TestFlagDiff(t *testing.T) {
	s := testState()

	require.NoError(t, (&FlagDiff{Unit: "squad", Flag: profile.FlagCover, Operation: OpSet}).Apply(s))
	assert.True(t, s.Units["squad"].Flags.Has(profile.FlagCover))

	require.NoError(t, (&FlagDiff{Unit: "squad", Flag: profile.FlagCover, Operation: OpRemove}).Apply(s))
	assert.False(t, s.Units["squad"].Flags.Has(profile.FlagCover))
}

func TestPathStrings(t *testing.T) {
	assert.Equal(t, "units.squad.models.a.current_wounds",
		(&WoundsDiff{Unit: "squad", Model: "a"}).Path().String())
	assert.Equal(t, "units.squad.models.a.weapons.melta.one_shot_fired",
		(&OneShotDiff{Unit: "squad", Model: "a", Weapon: "melta"}).Path().String())
	assert.Equal(t, "units.squad.flags.effect_cover",
		(&FlagDiff{Unit: "squad", Flag: "effect_cover"}).Path().String())
}

func TestProjectorAllOrNothing(t *testing.T) {
	s := testState()
	p := NewProjector()

	err := p.Apply(s, []Diff{
		&WoundsDiff{Unit: "squad", Model: "a", Value: 0},
		&AliveDiff{Unit: "squad", Model: "a", Alive: false},
		&WoundsDiff{Unit: "ghost", Model: "x", Value: 1},
	})
	require.Error(t, err)

	// First two diffs must not have leaked through.
	assert.Equal(t, 2, s.Units["squad"].Models[0].CurrentWounds)
	assert.True(t, s.Units["squad"].Models[0].Alive)
}

func TestProjectorApply(t *testing.T) {
	s := testState()
	p := NewProjector()

	require.NoError(t, p.Apply(s, []Diff{
		&WoundsDiff{Unit: "squad", Model: "a", Value: 0},
		&AliveDiff{Unit: "squad", Model: "a", Alive: false},
		&OneShotDiff{Unit: "squad", Model: "b", Weapon: "melta"},
	}))

	assert.False(t, s.Units["squad"].Models[0].Alive)
	assert.True(t, s.HasFiredOneShot("squad", "b", "melta"))
}

func TestCloneIsolation(t *testing.T) {
	s := testState()
	c := s.Clone()

	c.Units["squad"].Models[0].CurrentWounds = 0
	c.OneShot[OneShotKey{Unit: "squad", Model: "a", Weapon: "w"}] = true

	assert.Equal(t, 2, s.Units["squad"].Models[0].CurrentWounds)
	assert.False(t, s.HasFiredOneShot("squad", "a", "w"))
}
