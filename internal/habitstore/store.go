// Package habitstore holds the habit tracker state: habits, categories,
// per-day completion records, the selected date and the id counter. Every
// mutation keeps the model's invariants and mirrors the entities it touched
// to a types.KV backend; queries read memory only.
//
// A Store has a single owner and is not safe for concurrent use.
package habitstore

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// Store is the in-memory habit state with a durable mirror.
type Store struct {
	habits       []types.Habit
	completions  types.CompletionRecord
	categories   []string
	nextHabitID  int
	selectedDate string

	now    func() time.Time
	logger *zap.Logger
	bridge *bridge
}

type options struct {
	logger   *zap.Logger
	now      func() time.Time
	strategy string
	size     int
	interval time.Duration
	onError  func(key string, err error)
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces time.Now, which decides "today" for streaks and the
// default selected date.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithSyncStrategy selects immediate, on_close or batch persistence.
func WithSyncStrategy(strategy string) Option {
	return func(o *options) { o.strategy = strategy }
}

// WithBatch sets the batch strategy's flush size and interval. A zero
// interval disables the timer; writes then wait for size or Flush.
func WithBatch(size int, interval time.Duration) Option {
	return func(o *options) {
		o.size = size
		o.interval = interval
	}
}

// WithWriteErrorHandler is called for each deferred write that fails. It
// runs after the store's internal lock is released, so it may call back into
// the Store. Under the batch strategy it can run on the timer goroutine.
func WithWriteErrorHandler(fn func(key string, err error)) Option {
	return func(o *options) { o.onError = fn }
}

// WithConfig applies the sync settings from cfg.
func WithConfig(cfg types.Config) Option {
	return func(o *options) {
		o.strategy = cfg.GetSyncStrategy()
		o.size = cfg.GetBatchSize()
		o.interval = time.Duration(cfg.GetBatchInterval()) * time.Second
	}
}

// New returns a Store holding the seed state, mirrored to kv. It does not
// read kv; use Open to load a prior snapshot.
func New(kv types.KV, opts ...Option) (*Store, error) {
	o := options{
		logger:   zap.NewNop(),
		now:      time.Now,
		strategy: types.SyncImmediate,
		size:     types.DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	switch o.strategy {
	case types.SyncImmediate, types.SyncOnClose, types.SyncBatch:
	case "":
		o.strategy = types.SyncImmediate
	default:
		return nil, types.ErrSyncStrategyUnknown
	}

	s := &Store{
		now:    o.now,
		logger: o.logger,
		bridge: newBridge(kv, o.strategy, o.size, o.interval, o.logger, o.onError),
	}
	s.seed()
	s.selectedDate = types.FormatDate(s.now())
	return s, nil
}

// Open returns a Store loaded from kv. Keys absent from kv keep their seed
// values; a malformed value fails with types.ErrCorruptSnapshot.
func Open(ctx context.Context, kv types.KV, opts ...Option) (*Store, error) {
	s, err := New(kv, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) seed() {
	s.habits = append([]types.Habit(nil), types.SeedHabits...)
	s.categories = append([]string(nil), types.SeedCategories...)
	s.completions = make(types.CompletionRecord)
	s.nextHabitID = types.SeedNextHabitID
}

// SelectedDate returns the date toggles and lookups apply to by default.
func (s *Store) SelectedDate() string { return s.selectedDate }

// SetSelectedDate moves the cursor. The value is not validated.
func (s *Store) SetSelectedDate(date string) { s.selectedDate = date }

// Today returns the current local calendar date.
func (s *Store) Today() string { return types.FormatDate(s.now()) }

// Flush writes every queued entity and returns deferred write failures.
// Under the immediate strategy there is never anything queued.
func (s *Store) Flush() error { return s.bridge.flush() }

// Pending returns how many entity writes are queued.
func (s *Store) Pending() int { return s.bridge.queued() }

// Close flushes queued writes and stops the batch timer. The KV backend is
// owned by the caller and stays open. Mutations after Close keep updating
// memory but their writes fail with types.ErrStoreClosed.
func (s *Store) Close() error { return s.bridge.close() }
