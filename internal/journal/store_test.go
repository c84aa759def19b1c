package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldrane/grim-arbiter/internal/battle"
	"github.com/veldrane/grim-arbiter/internal/combat"
)

func TestAppendAndLoadOutcome(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	defer store.Close()

	id := NewResolutionID()
	diffs := []battle.Diff{
		&battle.WoundsDiff{Unit: "orks", Model: "m1", Value: 0},
		&battle.AliveDiff{Unit: "orks", Model: "m1", Alive: false},
	}
	traces := []combat.Trace{
		{Context: "marines/gun -> orks", Stage: combat.StageHitRoll, Threshold: 3, Successes: 2},
	}

	require.NoError(t, store.AppendOutcome(id, "shoot by: marines with: gun at: orks", diffs, traces))

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 4) // order + two diffs + one trace

	assert.Equal(t, KindOrder, records[0].Kind)
	for _, rec := range records {
		assert.Equal(t, id, rec.Resolution)
	}

	diff, err := DecodeDiff(records[1])
	require.NoError(t, err)
	wounds, ok := diff.(*battle.WoundsDiff)
	require.True(t, ok)
	assert.Equal(t, "orks", wounds.Unit)
	assert.Equal(t, "units.orks.models.m1.current_wounds", records[1].Path)

	trace, err := DecodeTrace(records[3])
	require.NoError(t, err)
	assert.Equal(t, combat.StageHitRoll, trace.Stage)
	assert.Equal(t, 2, trace.Successes)
}

func TestDecodeGuards(t *testing.T) {
	_, err := DecodeDiff(Record{Kind: KindTrace})
	assert.Error(t, err)

	_, err = DecodeDiff(Record{Kind: KindDiff, Type: "Mystery", Data: []byte("{}")})
	assert.Error(t, err)

	_, err = DecodeTrace(Record{Kind: KindDiff})
	assert.Error(t, err)
}

func TestAppendAccumulatesAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.AppendOutcome(NewResolutionID(), "roll d6", nil, nil))
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.AppendOutcome(NewResolutionID(), "roll d6", nil, nil))

	records, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
