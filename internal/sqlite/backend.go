// Package sqlite implements a key/value storage backend on SQLite. Each
// storage key is one row in the kv table; writes are upserts committed
// individually.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/habits/pkg/types"
)

var _ types.KV = (*Backend)(nil)

// Backend implements types.KV using a SQLite database in DataDir.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	path     string
	logger   *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens (creating if needed) DataDir/habits.db and applies the schema.
// Existing rows are kept so state survives restarts.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return fmt.Errorf("executing %q: %w", p, err)
		}
	}
	if _, err := db.Exec(createKV); err != nil {
		db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	b.db = db
	b.path = path
	b.attached = true
	b.logger.Debug("sqlite backend attached", zap.String("path", path))
	return nil
}

// Detach closes the database. After Detach, Get and Set return ErrDetached.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		if err != nil {
			return err
		}
	}
	b.logger.Debug("sqlite backend detached", zap.String("path", b.path))
	return nil
}

// Close implements types.KV.
func (b *Backend) Close() error {
	return b.Detach()
}

// Path returns the database file path, empty until attached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// Get returns the value stored under key.
func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, types.ErrInvalidKey
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return "", false, types.ErrDetached
	}

	var value string
	err := b.db.QueryRowContext(ctx, selectValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (b *Backend) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrDetached
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := b.db.ExecContext(ctx, upsertValue, key, value, now); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
