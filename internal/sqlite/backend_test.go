// Tests for the SQLite key/value backend.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/habits/pkg/types"
)

func attached(t *testing.T, dir string) *Backend {
	t.Helper()
	b := NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()
	b := attached(t, tmpDir)
	defer b.Detach()

	if _, err := os.Stat(filepath.Join(tmpDir, dbFileName)); os.IsNotExist(err) {
		t.Error("habits.db not created")
	}

	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})
	if err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b := attached(t, t.TempDir())

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	// Idempotent.
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach failed: %v", err)
	}

	if _, _, err := b.Get(context.Background(), types.KeyHabits); err != types.ErrDetached {
		t.Errorf("Get after Detach: expected ErrDetached, got %v", err)
	}
	if err := b.Set(context.Background(), types.KeyHabits, "[]"); err != types.ErrDetached {
		t.Errorf("Set after Detach: expected ErrDetached, got %v", err)
	}
}

func TestBackend_GetMissingKey(t *testing.T) {
	b := attached(t, t.TempDir())
	defer b.Detach()

	v, ok, err := b.Get(context.Background(), types.KeyCategories)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok || v != "" {
		t.Errorf("expected absent key, got ok=%v value=%q", ok, v)
	}
}

func TestBackend_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	b := attached(t, t.TempDir())
	defer b.Detach()

	if err := b.Set(ctx, types.KeyNextHabitID, "4"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := b.Set(ctx, types.KeyNextHabitID, "5"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, ok, err := b.Get(ctx, types.KeyNextHabitID)
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if v != "5" {
		t.Errorf("expected 5, got %q", v)
	}
}

func TestBackend_EmptyKey(t *testing.T) {
	b := attached(t, t.TempDir())
	defer b.Detach()

	if err := b.Set(context.Background(), "", "x"); err != types.ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
	if _, _, err := b.Get(context.Background(), ""); err != types.ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestBackend_PersistsAcrossReattach(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	b := attached(t, tmpDir)
	if err := b.Set(ctx, types.KeyCategories, `["Health"]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b2 := attached(t, tmpDir)
	defer b2.Detach()

	v, ok, err := b2.Get(ctx, types.KeyCategories)
	if err != nil || !ok {
		t.Fatalf("Get after reattach: ok=%v err=%v", ok, err)
	}
	if v != `["Health"]` {
		t.Errorf("expected persisted value, got %q", v)
	}
}
