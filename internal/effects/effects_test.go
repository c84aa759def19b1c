package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldrane/grim-arbiter/internal/battle"
	"github.com/veldrane/grim-arbiter/internal/profile"
)

func fixedRoll(n int) func(string) int {
	return func(string) int { return n }
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(fixedRoll(4))
	require.NoError(t, err)
	return r
}

func marine() *profile.CombatantSnapshot {
	return &profile.CombatantSnapshot{
		UnitID: "marines", Owner: "p1", Name: "marines",
		Toughness: 4, Save: 3,
		Models:   []profile.Model{{ID: "m1", Alive: true, CurrentWounds: 2, MaxWounds: 2}},
		Keywords: profile.ParseKeywords("infantry"),
		Flags:    profile.FlagSet{},
	}
}

func tank() *profile.CombatantSnapshot {
	return &profile.CombatantSnapshot{
		UnitID: "tank", Owner: "p2", Name: "tank",
		Toughness: 10, Save: 3,
		Models:   []profile.Model{{ID: "m1", Alive: true, CurrentWounds: 12, MaxWounds: 12}},
		Keywords: profile.ParseKeywords("vehicle"),
		Flags:    profile.FlagSet{},
	}
}

func TestRegistryEval(t *testing.T) {
	r := testRegistry(t)
	ctx := BuildEvalContext(marine(), tank(), nil)

	out, err := r.Eval("'vehicle' in target.keywords", ctx)
	require.NoError(t, err)
	assert.Equal(t, true, out)

	out, err = r.Eval("attacker.toughness >= target.toughness", ctx)
	require.NoError(t, err)
	assert.Equal(t, false, out)

	out, err = r.Eval("roll('d6') >= 3", ctx)
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestRegistryRejectsBadExpression(t *testing.T) {
	r := testRegistry(t)
	_, err := r.Eval("target.keywords ++ 1", nil)
	assert.Error(t, err)
}

func TestManagerGrants(t *testing.T) {
	m, err := LoadManifests(testRegistry(t), "testdata/abilities")
	require.NoError(t, err)

	diffs, err := m.Grants(marine(), tank(), nil)
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	flag := diffs[0].(*battle.FlagDiff)
	assert.Equal(t, "tank", flag.Unit)
	assert.Equal(t, profile.FlagCover, flag.Flag)
	assert.Equal(t, battle.OpSet, flag.Op())
}

func TestManagerGrantsParameterizedFlag(t *testing.T) {
	m, err := LoadManifests(testRegistry(t), "testdata/abilities")
	require.NoError(t, err)

	custodes := marine()
	custodes.UnitID = "custodes"
	custodes.Keywords = profile.ParseKeywords("infantry")
	custodes.Flags = profile.ParseFlags([]string{"shield_host"})

	diffs, err := m.Grants(tank(), custodes, nil)
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	flag := diffs[0].(*battle.FlagDiff)
	assert.Equal(t, profile.FlagInvuln, flag.Flag)
	assert.Equal(t, 4, flag.Param)
}

func TestManagerGrantsFlowIntoState(t *testing.T) {
	m, err := LoadManifests(testRegistry(t), "testdata/abilities")
	require.NoError(t, err)

	state := battle.NewState()
	tgt := tank()
	state.AddUnit(marine())
	state.AddUnit(tgt)

	diffs, err := m.Grants(state.Units["marines"], tgt, nil)
	require.NoError(t, err)
	require.NoError(t, battle.NewProjector().Apply(state, diffs))

	assert.True(t, state.Units["tank"].HasCoverFlag())
}

func TestManagerClear(t *testing.T) {
	m, err := LoadManifests(testRegistry(t), "testdata/abilities")
	require.NoError(t, err)

	tgt := tank()
	tgt.Flags = profile.ParseFlags([]string{"effect_cover", "unrelated_flag"})

	diffs := m.Clear(tgt)
	require.Len(t, diffs, 1)
	assert.Equal(t, battle.OpRemove, diffs[0].Op())
	assert.Equal(t, profile.FlagCover, diffs[0].(*battle.FlagDiff).Flag)
}

func TestManagerRejectsBadManifest(t *testing.T) {
	_, err := NewManager(testRegistry(t), []Definition{
		{Name: "broken", Condition: "not valid cel ((("},
	})
	assert.Error(t, err)
}
