package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid file config",
			config:  Config{Backend: BackendFile, DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: BackendSQLite, DataDir: ""},
			wantErr: nil,
		},
		{
			name:    "redis with batch strategy",
			config:  Config{Backend: BackendRedis, SyncStrategy: SyncBatch, BatchSize: 3},
			wantErr: nil,
		},
		{
			name:    "unknown sync strategy",
			config:  Config{Backend: BackendFile, SyncStrategy: "eventually"},
			wantErr: ErrSyncStrategyUnknown,
		},
		{
			name:    "negative batch size",
			config:  Config{Backend: BackendFile, BatchSize: -1},
			wantErr: ErrBatchSizeInvalid,
		},
		{
			name:    "negative batch interval",
			config:  Config{Backend: BackendFile, BatchInterval: -5},
			wantErr: ErrBatchIntervalInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	if got := c.GetSyncStrategy(); got != SyncImmediate {
		t.Errorf("GetSyncStrategy() = %q, want %q", got, SyncImmediate)
	}
	if got := c.GetBatchSize(); got != DefaultBatchSize {
		t.Errorf("GetBatchSize() = %d, want %d", got, DefaultBatchSize)
	}
	if got := c.GetBatchInterval(); got != DefaultBatchInterval {
		t.Errorf("GetBatchInterval() = %d, want %d", got, DefaultBatchInterval)
	}

	c = Config{SyncStrategy: SyncOnClose, BatchSize: 2, BatchInterval: 1}
	if got := c.GetSyncStrategy(); got != SyncOnClose {
		t.Errorf("GetSyncStrategy() = %q, want %q", got, SyncOnClose)
	}
	if got := c.GetBatchSize(); got != 2 {
		t.Errorf("GetBatchSize() = %d, want 2", got)
	}
}
