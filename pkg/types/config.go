package types

import "errors"

// Config holds backend selection and parameters for opening durable storage.
type Config struct {
	Backend       string      `json:"backend" yaml:"backend"`
	DataDir       string      `json:"data_dir" yaml:"data_dir"`
	SyncStrategy  string      `json:"sync_strategy,omitempty" yaml:"sync_strategy,omitempty"`
	BatchSize     int         `json:"batch_size,omitempty" yaml:"batch_size,omitempty"`
	BatchInterval int         `json:"batch_interval,omitempty" yaml:"batch_interval,omitempty"`
	Redis         RedisConfig `json:"redis" yaml:"redis,omitempty"`
}

// RedisConfig holds connection parameters for the redis backend.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr,omitempty"`
	Password string `json:"password" yaml:"password,omitempty"`
	DB       int    `json:"db" yaml:"db,omitempty"`
	Prefix   string `json:"prefix" yaml:"prefix,omitempty"`
}

// Supported backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Sync strategies control when entity writes reach the backend.
const (
	// SyncImmediate writes every touched entity before the mutation returns.
	SyncImmediate = "immediate"
	// SyncOnClose queues writes until the store is closed.
	SyncOnClose = "on_close"
	// SyncBatch queues writes and flushes on size or interval.
	SyncBatch = "batch"
)

// Defaults applied when the corresponding field is zero.
const (
	DefaultBatchSize     = 10
	DefaultBatchInterval = 5
	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisPrefix   = "habits:"
)

// Config validation errors.
var (
	ErrBackendEmpty         = errors.New("backend must not be empty")
	ErrBackendUnknown       = errors.New("unknown backend")
	ErrSyncStrategyUnknown  = errors.New("unknown sync strategy")
	ErrBatchSizeInvalid     = errors.New("batch size must be positive")
	ErrBatchIntervalInvalid = errors.New("batch interval must be positive")
)

var knownBackends = map[string]bool{
	BackendFile:   true,
	BackendSQLite: true,
	BackendRedis:  true,
	BackendMemory: true,
}

var knownSyncStrategies = map[string]bool{
	"":            true,
	SyncImmediate: true,
	SyncOnClose:   true,
	SyncBatch:     true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownSyncStrategies[c.SyncStrategy] {
		return ErrSyncStrategyUnknown
	}
	if c.BatchSize < 0 {
		return ErrBatchSizeInvalid
	}
	if c.BatchInterval < 0 {
		return ErrBatchIntervalInvalid
	}
	return nil
}

// GetSyncStrategy returns the effective sync strategy.
func (c Config) GetSyncStrategy() string {
	if c.SyncStrategy == "" {
		return SyncImmediate
	}
	return c.SyncStrategy
}

// GetBatchSize returns the batch size, defaulting when unset.
func (c Config) GetBatchSize() int {
	if c.BatchSize == 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

// GetBatchInterval returns the batch interval in seconds, defaulting when unset.
func (c Config) GetBatchInterval() int {
	if c.BatchInterval == 0 {
		return DefaultBatchInterval
	}
	return c.BatchInterval
}
