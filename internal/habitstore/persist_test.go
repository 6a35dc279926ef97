package habitstore

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/habits/internal/filestore"
	"github.com/mesh-intelligence/habits/internal/memstore"
	"github.com/mesh-intelligence/habits/internal/sqlite"
	"github.com/mesh-intelligence/habits/pkg/types"
)

// newSeededKV writes snap into a fresh memstore the way the store would.
func newSeededKV(t *testing.T, snap types.Snapshot) *memstore.Store {
	t.Helper()
	habits, err := json.Marshal(snap.Habits)
	require.NoError(t, err)
	comp := snap.Completions
	if comp == nil {
		comp = types.CompletionRecord{}
	}
	completions, err := json.Marshal(comp)
	require.NoError(t, err)
	cats, err := json.Marshal(snap.Categories)
	require.NoError(t, err)
	return memstore.NewWith(map[string]string{
		types.KeyHabits:      string(habits),
		types.KeyCompletions: string(completions),
		types.KeyCategories:  string(cats),
		types.KeyNextHabitID: strconv.Itoa(snap.NextHabitID),
	})
}

func openTestStore(t *testing.T, kv types.KV, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	s, err := Open(context.Background(), kv, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadOverwritesPresentKeys(t *testing.T) {
	kv := memstore.NewWith(map[string]string{
		types.KeyHabits:      `[{"id":7,"name":"Swim","category":"Sport"}]`,
		types.KeyCompletions: `{"2024-03-10":{"7":true}}`,
		types.KeyCategories:  `["Sport"]`,
		types.KeyNextHabitID: "8",
	})
	s := openTestStore(t, kv)

	assert.Equal(t, []types.Habit{{ID: 7, Name: "Swim", Category: "Sport"}}, s.Habits())
	assert.Equal(t, []string{"Sport"}, s.Categories())
	assert.True(t, s.IsCompletedOn(7, "2024-03-10"))
	assert.Equal(t, 8, s.NextHabitID())
	assert.Equal(t, 1, s.Streak(7))
}

func TestLoadAbsentKeysKeepSeed(t *testing.T) {
	kv := memstore.NewWith(map[string]string{
		types.KeyCategories: `["Only"]`,
	})
	s := openTestStore(t, kv)

	assert.Equal(t, []string{"Only"}, s.Categories())
	assert.Equal(t, types.SeedHabits, s.Habits())
	assert.Equal(t, types.SeedNextHabitID, s.NextHabitID())
	assert.Empty(t, s.Completions())
}

func TestLoadDoesNotWrite(t *testing.T) {
	kv := memstore.New()
	openTestStore(t, kv)
	for _, key := range types.StorageKeys {
		assert.Zero(t, kv.Writes(key))
	}
}

func TestLoadMalformedIsFatal(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{types.KeyHabits, `[{"id":`},
		{types.KeyCompletions, `{"2024-01-01":{"x":true}}`},
		{types.KeyCategories, `"Health"`},
		{types.KeyNextHabitID, "four"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			kv := memstore.NewWith(map[string]string{tt.key: tt.value})
			_, err := Open(context.Background(), kv, WithClock(fixedClock))
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrCorruptSnapshot)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadFailureLeavesSeed(t *testing.T) {
	kv := memstore.NewWith(map[string]string{
		types.KeyHabits:      `[{"id":9,"name":"x","category":"y"}]`,
		types.KeyNextHabitID: "oops",
	})
	s, err := New(kv, WithClock(fixedClock))
	require.NoError(t, err)
	defer s.Close()

	require.ErrorIs(t, s.Load(context.Background()), types.ErrCorruptSnapshot)
	assert.Equal(t, types.SeedHabits, s.Habits())
}

func TestLoadNormalizes(t *testing.T) {
	kv := memstore.NewWith(map[string]string{
		types.KeyHabits:      `[{"id":10,"name":"x","category":"A"}]`,
		types.KeyCompletions: `{"2024-01-01":{},"2024-01-02":{"1":false},"2024-01-03":{"1":true,"2":false}}`,
		types.KeyCategories:  `["A","B","A"]`,
		types.KeyNextHabitID: "3",
	})
	s := openTestStore(t, kv)

	assert.Equal(t, types.CompletionRecord{"2024-01-03": {1: true}}, s.Completions())
	assert.Equal(t, []string{"A", "B"}, s.Categories())
	assert.Equal(t, 11, s.NextHabitID())
}

func TestLoadNullValues(t *testing.T) {
	kv := memstore.NewWith(map[string]string{
		types.KeyHabits:      `null`,
		types.KeyCompletions: `null`,
		types.KeyCategories:  `null`,
	})
	s := openTestStore(t, kv)

	require.NoError(t, s.ToggleCompletionOn(1, "2024-03-10"))
	assert.Empty(t, s.Habits())
	assert.Empty(t, s.Categories())

	raw, _ := kv.Raw(types.KeyCompletions)
	assert.JSONEq(t, `{"2024-03-10":{"1":true}}`, raw)
}

func TestSnapshotRestore(t *testing.T) {
	s, kv := newTestStore(t)
	snap := types.Snapshot{
		Habits:      []types.Habit{{ID: 5, Name: "Walk", Category: "Health"}},
		Completions: types.CompletionRecord{"2024-03-10": {5: true}},
		Categories:  []string{"Health"},
		NextHabitID: 6,
	}

	require.NoError(t, s.Restore(snap))

	if diff := cmp.Diff(snap, s.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	for _, key := range types.StorageKeys {
		assert.Equal(t, 1, kv.Writes(key), "restore writes %s", key)
	}
}

// roundTrip mutates a store on kv, then reopens a second store on reopen()
// and compares every entity.
func roundTrip(t *testing.T, kv types.KV, reopen func() types.KV) {
	t.Helper()
	s := openTestStore(t, kv)

	_, err := s.AddHabit("Journal", "Mindfulness")
	require.NoError(t, err)
	require.NoError(t, s.AddCategory("Mindfulness"))
	require.NoError(t, s.EditCategory("Hobbies", "Leisure"))
	require.NoError(t, s.ToggleCompletionOn(1, "2024-03-10"))
	require.NoError(t, s.ToggleCompletionOn(1, "2024-03-09"))
	require.NoError(t, s.ToggleCompletionOn(4, "2024-03-10"))
	require.NoError(t, s.RemoveHabit(3))
	require.NoError(t, s.Close())
	want := s.Snapshot()

	reloaded := openTestStore(t, reopen())
	if diff := cmp.Diff(want, reloaded.Snapshot()); diff != "" {
		t.Errorf("reloaded state mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, reloaded.Streak(1))
}

func TestRoundTripMemory(t *testing.T) {
	kv := memstore.New()
	roundTrip(t, kv, func() types.KV { return kv })
}

func TestRoundTripFileStore(t *testing.T) {
	dir := t.TempDir()
	kv, err := filestore.Open(dir, nil)
	require.NoError(t, err)
	defer kv.Close()

	roundTrip(t, kv, func() types.KV {
		again, err := filestore.Open(dir, nil)
		require.NoError(t, err)
		t.Cleanup(func() { again.Close() })
		return again
	})
}

func TestRoundTripSQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(cfg))

	roundTrip(t, b, func() types.KV {
		require.NoError(t, b.Detach())
		again := sqlite.NewBackend()
		require.NoError(t, again.Attach(cfg))
		t.Cleanup(func() { again.Detach() })
		return again
	})
}
