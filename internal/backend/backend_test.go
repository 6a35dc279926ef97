package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/habits/internal/filestore"
	"github.com/mesh-intelligence/habits/internal/memstore"
	"github.com/mesh-intelligence/habits/internal/sqlite"
	"github.com/mesh-intelligence/habits/pkg/types"
)

func TestOpenSelectsBackend(t *testing.T) {
	tests := []struct {
		backend string
		check   func(t *testing.T, kv types.KV)
	}{
		{types.BackendFile, func(t *testing.T, kv types.KV) {
			_, ok := kv.(*filestore.Store)
			assert.True(t, ok, "got %T", kv)
		}},
		{types.BackendSQLite, func(t *testing.T, kv types.KV) {
			_, ok := kv.(*sqlite.Backend)
			assert.True(t, ok, "got %T", kv)
		}},
		{types.BackendMemory, func(t *testing.T, kv types.KV) {
			_, ok := kv.(*memstore.Store)
			assert.True(t, ok, "got %T", kv)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			kv, err := Open(context.Background(), types.Config{Backend: tt.backend, DataDir: t.TempDir()}, nil)
			require.NoError(t, err)
			defer kv.Close()
			tt.check(t, kv)

			require.NoError(t, kv.Set(context.Background(), types.KeyNextHabitID, "7"))
			v, ok, err := kv.Get(context.Background(), types.KeyNextHabitID)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "7", v)
		})
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), types.Config{Backend: "leveldb"}, nil)
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	_, err = Open(context.Background(), types.Config{}, nil)
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}
