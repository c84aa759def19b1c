package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldrane/grim-arbiter/internal/battle"
	"github.com/veldrane/grim-arbiter/internal/combat"
	"github.com/veldrane/grim-arbiter/internal/journal"
)

func newTestSession(t *testing.T) (*Session, *journal.Store) {
	t.Helper()

	store, err := journal.NewStore(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s, err := NewSession(Config{
		DataDirs:     []string{"testdata"},
		AbilitiesDir: "testdata/abilities",
		Seed:         7,
	}, store)
	require.NoError(t, err)
	require.NoError(t, s.LoadBattlefield("open", "intercessors", "boyz"))
	return s, store
}

func TestExecuteRollOrder(t *testing.T) {
	s, _ := newTestSession(t)
	s.Roller().Enqueue(4)

	res, err := s.Execute("roll d6")
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Messages, 1)
	assert.Contains(t, res.Messages[0], "rolled d6: 4")
}

func TestExecuteShootOrderEndToEnd(t *testing.T) {
	s, store := newTestSession(t)

	// Two models, two attacks each: four hit rolls, then wounds,
	// saves, and one slain boy.
	s.Roller().Enqueue(3, 3, 2, 1, 4, 2, 5)

	res, err := s.Execute("shoot by: intercessors with: bolt-rifle at: boyz")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotEmpty(t, res.Diffs)
	assert.NotEmpty(t, res.ResolutionID)

	boyz := s.State().Units["boyz"]
	assert.False(t, boyz.Models[0].Alive)
	assert.True(t, boyz.Models[1].Alive)

	records, err := store.Load()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	for _, rec := range records {
		assert.Equal(t, res.ResolutionID, rec.Resolution)
	}
}

func TestExecuteRejectsMalformedOrder(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Execute("shoot the greenskins")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shoot by: Unit")
}

func TestExecuteReportsValidationFailure(t *testing.T) {
	s, store := newTestSession(t)

	res, err := s.Execute("shoot by: ghosts with: bolt-rifle at: boyz")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Errors)
	assert.Empty(t, res.Diffs)

	// Failed resolutions never reach the journal.
	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAbilityGrantsAreInstant(t *testing.T) {
	s, _ := newTestSession(t)
	s.State().Units["boyz"].Flags["dug_in"] = 0

	s.Roller().Enqueue(3, 3, 2, 1, 4, 2, 5)
	res, err := s.Execute("shoot by: intercessors with: bolt-rifle at: boyz")
	require.NoError(t, err)
	require.True(t, res.Success)

	// Cover improved the armour save during resolution.
	assert.Contains(t, res.Traces[3].Notes, "benefit of cover")
	// The granted flag is cleared again afterwards.
	assert.False(t, s.State().Units["boyz"].Flags.Has("effect_cover"))
}

// brokenJournal refuses every append, standing in for a full disk.
type brokenJournal struct{}

func (brokenJournal) AppendOutcome(string, string, []battle.Diff, []combat.Trace) error {
	return errors.New("journal unavailable")
}
func (brokenJournal) Load() ([]journal.Record, error) { return nil, nil }
func (brokenJournal) Close() error                    { return nil }

func TestJournalFailureClearsAbilityGrants(t *testing.T) {
	s, err := NewSession(Config{
		DataDirs:     []string{"testdata"},
		AbilitiesDir: "testdata/abilities",
		Seed:         7,
	}, brokenJournal{})
	require.NoError(t, err)
	require.NoError(t, s.LoadBattlefield("open", "intercessors", "boyz"))
	s.State().Units["boyz"].Flags["dug_in"] = 0

	s.Roller().Enqueue(3, 3, 2, 1, 4, 2, 5)
	_, err = s.Execute("shoot by: intercessors with: bolt-rifle at: boyz")
	require.Error(t, err)

	// The granted cover flag expires with the failed resolution instead
	// of lingering on the live state.
	assert.False(t, s.State().Units["boyz"].Flags.Has("effect_cover"))
	assert.True(t, s.State().Units["boyz"].Flags.Has("dug_in"))
}

func TestFightOrderRejectsRangedWeapon(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Execute("fight by: intercessors with: bolt-rifle at: boyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fight order")

	_, err = s.Execute("shoot by: boyz with: choppa at: intercessors")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shoot order")
}

func TestSimulateLeavesStateUntouched(t *testing.T) {
	s, _ := newTestSession(t)

	iterations := 0
	samples, err := s.Simulate("shoot by: intercessors with: bolt-rifle at: boyz", 25, func(int) {
		iterations++
	})
	require.NoError(t, err)
	assert.Len(t, samples, 25)
	assert.Equal(t, 25, iterations)

	for _, m := range s.State().Units["boyz"].Models {
		assert.True(t, m.Alive)
	}
}

func TestLoadBattlefieldMissingUnit(t *testing.T) {
	store, err := journal.NewStore(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	defer store.Close()

	s, err := NewSession(Config{DataDirs: []string{"testdata"}, Seed: 1}, store)
	require.NoError(t, err)
	assert.Error(t, s.LoadBattlefield("open", "nonexistent"))
}
