package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRecordHas(t *testing.T) {
	r := CompletionRecord{"2024-01-01": {1: true}}

	assert.True(t, r.Has("2024-01-01", 1))
	assert.False(t, r.Has("2024-01-01", 2))
	assert.False(t, r.Has("2024-01-02", 1))

	var empty CompletionRecord
	assert.False(t, empty.Has("2024-01-01", 1))
}

func TestCompletionRecordCloneIsDeep(t *testing.T) {
	r := CompletionRecord{"2024-01-01": {1: true, 2: true}}
	c := r.Clone()

	delete(c["2024-01-01"], 1)
	c["2024-01-02"] = map[int]bool{3: true}

	assert.True(t, r.Has("2024-01-01", 1))
	assert.Equal(t, 1, r.Dates())
	assert.Equal(t, 2, c.Dates())
}

func TestCompletionRecordWireFormat(t *testing.T) {
	// Habit ids are object keys with a true marker.
	raw := `{"2024-01-01":{"1":true,"3":true}}`

	var r CompletionRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.True(t, r.Has("2024-01-01", 1))
	assert.True(t, r.Has("2024-01-01", 3))

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}
