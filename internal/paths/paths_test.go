package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlatform replaces the platform lookups for the duration of the test.
func fakePlatform(t *testing.T, goos string) {
	t.Helper()
	saved := platformDir
	t.Cleanup(func() { platformDir = saved })

	platformDir.goos = goos
	platformDir.homeDir = func() (string, error) { return "/home/tester", nil }
	platformDir.userConfigDir = func() (string, error) { return "/Users/tester/Library/Application Support", nil }
}

func TestDefaultDirs(t *testing.T) {
	tests := []struct {
		name       string
		goos       string
		xdgConfig  string
		xdgData    string
		wantConfig string
		wantData   string
	}{
		{
			name:       "linux uses XDG variables",
			goos:       "linux",
			xdgConfig:  "/tmp/xdg-config",
			xdgData:    "/tmp/xdg-data",
			wantConfig: "/tmp/xdg-config/pebble",
			wantData:   "/tmp/xdg-data/pebble",
		},
		{
			name:       "linux falls back to the home directory",
			goos:       "linux",
			wantConfig: "/home/tester/.config/pebble",
			wantData:   "/home/tester/.local/share/pebble",
		},
		{
			name:       "darwin uses the user config directory for both",
			goos:       "darwin",
			xdgConfig:  "/ignored",
			wantConfig: "/Users/tester/Library/Application Support/pebble",
			wantData:   "/Users/tester/Library/Application Support/pebble",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakePlatform(t, tt.goos)
			t.Setenv("XDG_CONFIG_HOME", tt.xdgConfig)
			t.Setenv("XDG_DATA_HOME", tt.xdgData)

			got, err := DefaultConfigDir()
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, got)

			got, err = DefaultDataDir()
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, got)
		})
	}
}

func TestDefaultDirsPropagateLookupErrors(t *testing.T) {
	fakePlatform(t, "linux")
	t.Setenv("XDG_CONFIG_HOME", "")
	boom := errors.New("no home")
	platformDir.homeDir = func() (string, error) { return "", boom }

	_, err := DefaultConfigDir()
	assert.ErrorIs(t, err, boom)
}

func TestResolveDirs(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		envVal  string
		want    string
		resolve func(string) (string, error)
		env     string
	}{
		{name: "config flag wins over env", flag: "/explicit/config", envVal: "/env/config", want: "/explicit/config", resolve: ResolveConfigDir, env: EnvConfigDir},
		{name: "config env when flag empty", envVal: "/env/config", want: "/env/config", resolve: ResolveConfigDir, env: EnvConfigDir},
		{name: "config platform default", want: "/tmp/xdg-config/pebble", resolve: ResolveConfigDir, env: EnvConfigDir},
		{name: "data flag wins over env", flag: "/flag/data", envVal: "/env/data", want: "/flag/data", resolve: ResolveDataDir, env: EnvDataDir},
		{name: "data env when flag empty", envVal: "/env/data", want: "/env/data", resolve: ResolveDataDir, env: EnvDataDir},
		{name: "data platform default", want: "/tmp/xdg-data/pebble", resolve: ResolveDataDir, env: EnvDataDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakePlatform(t, "linux")
			t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
			t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
			t.Setenv(tt.env, tt.envVal)

			got, err := tt.resolve(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveMakesRelativePathsAbsolute(t *testing.T) {
	t.Setenv(EnvConfigDir, "")
	got, err := ResolveConfigDir("relative/path")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)

	t.Setenv(EnvDataDir, "relative/env")
	got, err = ResolveDataDir("")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
}

func TestDatabasePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/data", "pebble.db"), DatabasePath("/data"))
}
