// Package paths resolves where the CLI keeps its configuration and its
// default SQLite database.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "pebble"

// DatabaseFile is the SQLite file created in the data directory when the
// configuration does not name a DSN.
const DatabaseFile = "pebble.db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PEBBLE_CONFIG_DIR"
	EnvDataDir   = "PEBBLE_DATA_DIR"
)

// platformDir holds platform lookups that tests replace.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/pebble (fallback ~/.config/pebble)
// Others:  os.UserConfigDir()/pebble
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the per-user data directory.
//
// Linux:   $XDG_DATA_HOME/pebble (fallback ~/.local/share/pebble)
// Others:  os.UserConfigDir()/pebble
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func userDir(xdgVar, homeRel string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir picks the configuration directory: flag, then
// PEBBLE_CONFIG_DIR, then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	return resolve(flag, EnvConfigDir, DefaultConfigDir)
}

// ResolveDataDir picks the data directory: flag, then PEBBLE_DATA_DIR, then
// DefaultDataDir.
func ResolveDataDir(flag string) (string, error) {
	return resolve(flag, EnvDataDir, DefaultDataDir)
}

// DatabasePath returns the default SQLite file inside dataDir.
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, DatabaseFile)
}

func resolve(flag, env string, fallback func() (string, error)) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if v := os.Getenv(env); v != "" {
		return filepath.Abs(v)
	}
	return fallback()
}
