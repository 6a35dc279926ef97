// Package backend opens the durable key/value store selected by a Config.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/internal/filestore"
	"github.com/mesh-intelligence/habits/internal/memstore"
	"github.com/mesh-intelligence/habits/internal/redisstore"
	"github.com/mesh-intelligence/habits/internal/sqlite"
	"github.com/mesh-intelligence/habits/pkg/types"
)

// Open validates cfg and returns the attached backend. The caller owns the
// returned KV and must Close it.
func Open(ctx context.Context, cfg types.Config, logger *zap.Logger) (types.KV, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case types.BackendFile:
		s, err := filestore.Open(cfg.DataDir, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.BackendSQLite:
		b := sqlite.NewBackend(sqlite.WithLogger(logger))
		if err := b.Attach(cfg); err != nil {
			return nil, fmt.Errorf("attach sqlite: %w", err)
		}
		return b, nil
	case types.BackendRedis:
		s, err := redisstore.Open(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.BackendMemory:
		return memstore.New(), nil
	default:
		return nil, types.ErrBackendUnknown
	}
}
