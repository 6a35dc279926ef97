package habitstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// bridge mirrors serialized entities to the KV backend according to the
// configured sync strategy. Under "immediate" every write is issued before
// the mutation returns. Under "on_close" and "batch" writes are queued,
// coalesced by key (each value is a full copy of its entity, so the newest
// one wins), and flushed later.
type bridge struct {
	kv       types.KV
	strategy string
	size     int
	interval time.Duration
	logger   *zap.Logger
	onError  func(key string, err error)

	mu       sync.Mutex
	pending  map[string]string
	order    []string
	timer    *time.Timer
	timerGen uint64
	closed   bool
	lastErr  error
}

func newBridge(kv types.KV, strategy string, size int, interval time.Duration, logger *zap.Logger, onError func(string, error)) *bridge {
	return &bridge{
		kv:       kv,
		strategy: strategy,
		size:     size,
		interval: interval,
		logger:   logger,
		onError:  onError,
		pending:  make(map[string]string),
	}
}

// load reads key from the backend.
func (b *bridge) load(ctx context.Context, key string) (string, bool, error) {
	return b.kv.Get(ctx, key)
}

// write hands one serialized entity to the backend or the queue.
func (b *bridge) write(key, value string) error {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return types.ErrStoreClosed
	}

	if b.strategy == types.SyncImmediate {
		defer b.mu.Unlock()
		if err := b.kv.Set(context.Background(), key, value); err != nil {
			b.logger.Warn("entity write failed", zap.String("key", key), zap.Error(err))
			return fmt.Errorf("persisting %s: %w", key, err)
		}
		return nil
	}

	if _, queued := b.pending[key]; !queued {
		b.order = append(b.order, key)
	}
	b.pending[key] = value

	var failed []writeFailure
	if b.strategy == types.SyncBatch {
		if b.size > 0 && len(b.order) >= b.size {
			failed = b.flushLocked()
		} else if b.interval > 0 && b.timer == nil {
			b.armTimerLocked()
		}
	}
	b.mu.Unlock()

	b.report(failed)
	return nil
}

// armTimerLocked starts the batch timer tagged with a new generation, so a
// stale firing cannot clear a newer timer. The caller must hold b.mu.
func (b *bridge) armTimerLocked() {
	b.timerGen++
	gen := b.timerGen
	b.timer = time.AfterFunc(b.interval, func() { b.flushFromTimer(gen) })
}

// flushFromTimer runs on the batch timer goroutine.
func (b *bridge) flushFromTimer(gen uint64) {
	b.mu.Lock()
	if gen != b.timerGen || b.closed {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	failed := b.flushLocked()
	b.mu.Unlock()

	b.report(failed)
}

// writeFailure is one deferred write that the backend rejected.
type writeFailure struct {
	key string
	err error
}

// flushLocked issues every queued write once. Failed writes are not
// re-queued; the failure is logged, kept for the next flush or close to
// return, and handed back so the caller can report it to onError once b.mu
// is released. The caller must hold b.mu.
func (b *bridge) flushLocked() []writeFailure {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
		b.timerGen++
	}
	if len(b.order) == 0 {
		return nil
	}

	var (
		failed []writeFailure
		errs   []error
	)
	for _, key := range b.order {
		if err := b.kv.Set(context.Background(), key, b.pending[key]); err != nil {
			b.logger.Error("deferred entity write failed", zap.String("key", key), zap.Error(err))
			failed = append(failed, writeFailure{key: key, err: err})
			errs = append(errs, fmt.Errorf("persisting %s: %w", key, err))
		}
	}
	b.logger.Debug("flushed pending writes", zap.Int("keys", len(b.order)), zap.Int("failed", len(errs)))

	b.pending = make(map[string]string)
	b.order = nil
	if err := errors.Join(errs...); err != nil {
		b.lastErr = errors.Join(b.lastErr, err)
	}
	return failed
}

// report calls onError for each failure. It must run without b.mu held so
// the handler may call back into the store.
func (b *bridge) report(failed []writeFailure) {
	if b.onError == nil {
		return
	}
	for _, f := range failed {
		b.onError(f.key, f.err)
	}
}

// flush writes everything queued and returns failures accumulated since the
// previous flush.
func (b *bridge) flush() error {
	b.mu.Lock()
	failed := b.flushLocked()
	err := b.lastErr
	b.lastErr = nil
	b.mu.Unlock()

	b.report(failed)
	return err
}

// queued returns the number of keys waiting to be written.
func (b *bridge) queued() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}

// close flushes and stops the timer. Idempotent.
func (b *bridge) close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	failed := b.flushLocked()
	b.closed = true
	err := b.lastErr
	b.lastErr = nil
	b.mu.Unlock()

	b.report(failed)
	return err
}
