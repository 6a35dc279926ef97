// Package paths resolves the habits configuration and data directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the per-user directory created under the platform roots.
const appDirName = "habits"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "HABITS_CONFIG_DIR"
	EnvDataDir   = "HABITS_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// xdgDir returns $xdgEnv/habits on Linux, falling back to ~/<fallback...>/habits.
// Other platforms use os.UserConfigDir for both config and data.
func xdgDir(xdgEnv string, fallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		// ~/Library/Application Support on macOS, %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, appDirName)...), nil
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/habits (fallback ~/.config/habits)
// macOS:   ~/Library/Application Support/habits
// Windows: %APPDATA%/habits
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/habits (fallback ~/.local/share/habits)
// macOS:   ~/Library/Application Support/habits
// Windows: %APPDATA%/habits
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > HABITS_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config data_dir > HABITS_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return DefaultDataDir()
}
