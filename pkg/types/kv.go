package types

import (
	"context"
	"errors"
)

// Storage keys, one per top-level entity.
const (
	KeyHabits      = "habits"
	KeyCompletions = "completedHabits"
	KeyCategories  = "categories"
	KeyNextHabitID = "nextHabitId"
)

// StorageKeys lists every key the store persists, in load order.
var StorageKeys = []string{
	KeyHabits,
	KeyCompletions,
	KeyCategories,
	KeyNextHabitID,
}

// KV is a string-keyed, string-valued durable store. Backends write each key
// independently; there is no multi-key transaction.
type KV interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; that is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Storage errors.
var (
	ErrStoreClosed     = errors.New("store is closed")
	ErrCorruptSnapshot = errors.New("malformed stored value")
	ErrInvalidKey      = errors.New("invalid storage key")
)

// Backend lifecycle errors.
var (
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrDetached        = errors.New("backend is detached")
)
