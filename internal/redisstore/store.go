// Package redisstore implements a key/value storage backend on Redis. Keys
// are namespaced with a prefix so several trackers can share one server.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/pkg/types"
)

var _ types.KV = (*Store)(nil)

// Store implements types.KV with a go-redis client.
type Store struct {
	rdb    *redis.Client
	prefix string
	logger *zap.Logger
}

// NewClient builds a redis client from cfg, applying defaults.
func NewClient(cfg types.RedisConfig) *redis.Client {
	addr := cfg.Addr
	if addr == "" {
		addr = types.DefaultRedisAddr
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Open connects to Redis and verifies the connection with PING.
func Open(ctx context.Context, cfg types.RedisConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rdb := NewClient(cfg)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	s := New(rdb, cfg.Prefix, logger)
	logger.Debug("redis store opened",
		zap.String("addr", rdb.Options().Addr),
		zap.Int("db", cfg.DB),
		zap.String("prefix", s.prefix),
	)
	return s, nil
}

// New wraps an existing client. An empty prefix selects the default.
func New(rdb *redis.Client, prefix string, logger *zap.Logger) *Store {
	if prefix == "" {
		prefix = types.DefaultRedisPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{rdb: rdb, prefix: prefix, logger: logger}
}

// Key returns the namespaced redis key for a storage key.
func (s *Store) Key(key string) string {
	return s.prefix + key
}

// Get implements types.KV. redis.Nil maps to an absent key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, types.ErrInvalidKey
	}
	v, err := s.rdb.Get(ctx, s.Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if errors.Is(err, redis.ErrClosed) {
		return "", false, types.ErrStoreClosed
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return v, true, nil
}

// Set implements types.KV. Values never expire.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	err := s.rdb.Set(ctx, s.Key(key), value, 0).Err()
	if errors.Is(err, redis.ErrClosed) {
		return types.ErrStoreClosed
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Close closes the client. Idempotent.
func (s *Store) Close() error {
	err := s.rdb.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}
