package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/habits/internal/logging"
	"github.com/mesh-intelligence/habits/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "HABITS"
)

// Config keys.
const (
	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeySyncStrategy  = "sync_strategy"
	cfgKeyBatchSize     = "batch_size"
	cfgKeyBatchInterval = "batch_interval"
	cfgKeyRedisAddr     = "redis.addr"
	cfgKeyRedisPassword = "redis.password"
	cfgKeyRedisDB       = "redis.db"
	cfgKeyRedisPrefix   = "redis.prefix"
	cfgKeyLogLevel      = "log.level"
	cfgKeyLogFormat     = "log.format"
)

// configFile is the structure written to config.yaml by init.
type configFile struct {
	Backend      string         `yaml:"backend"`
	DataDir      string         `yaml:"data_dir,omitempty"`
	SyncStrategy string         `yaml:"sync_strategy"`
	Log          logging.Config `yaml:"log"`
}

// loadConfig reads config.yaml from configDir. A missing file is not an
// error; defaults apply. HABITS_* environment variables override file values
// (HABITS_REDIS_ADDR for redis.addr).
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendFile)
	v.SetDefault(cfgKeySyncStrategy, types.SyncImmediate)
	v.SetDefault(cfgKeyBatchSize, types.DefaultBatchSize)
	v.SetDefault(cfgKeyBatchInterval, types.DefaultBatchInterval)
	v.SetDefault(cfgKeyRedisAddr, types.DefaultRedisAddr)
	v.SetDefault(cfgKeyRedisPrefix, types.DefaultRedisPrefix)
	v.SetDefault(cfgKeyLogFormat, logging.FormatConsole)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// storageConfig builds the backend Config from v and the resolved data dir.
func storageConfig(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		Backend:       v.GetString(cfgKeyBackend),
		DataDir:       dataDir,
		SyncStrategy:  v.GetString(cfgKeySyncStrategy),
		BatchSize:     v.GetInt(cfgKeyBatchSize),
		BatchInterval: v.GetInt(cfgKeyBatchInterval),
		Redis: types.RedisConfig{
			Addr:     v.GetString(cfgKeyRedisAddr),
			Password: v.GetString(cfgKeyRedisPassword),
			DB:       v.GetInt(cfgKeyRedisDB),
			Prefix:   v.GetString(cfgKeyRedisPrefix),
		},
	}
}

// logConfig builds the logging Config from v.
func logConfig(v *viper.Viper) logging.Config {
	return logging.Config{
		Level:  v.GetString(cfgKeyLogLevel),
		Format: v.GetString(cfgKeyLogFormat),
	}
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. Returns true when a file was written.
func writeConfigIfMissing(configDir, backend, dataDir string) (bool, error) {
	path := configPath(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	cfg := configFile{
		Backend:      backend,
		DataDir:      dataDir,
		SyncStrategy: types.SyncImmediate,
		Log:          logging.Config{Level: "warn", Format: logging.FormatConsole},
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// configPath returns the config.yaml location inside configDir.
func configPath(configDir string) string {
	return filepath.Join(configDir, configFileExt)
}
