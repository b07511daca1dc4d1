package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/pebble/internal/catalog"
	"github.com/mesh-intelligence/pebble/pkg/types"
)

// env isolates a CLI run in temporary directories.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	for _, k := range []string{"PEBBLE_DRIVER", "PEBBLE_DSN", "PEBBLE_COERCION", "PEBBLE_CONFIG_DIR", "PEBBLE_DATA_DIR"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return env{configDir: filepath.Join(dir, "config"), dataDir: filepath.Join(dir, "data")}
}

// run executes the CLI and returns stdout, stderr and the error.
func (e env) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := e.run(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return out
}

func TestInitWritesConfigAndDatabase(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "init")

	assert.Contains(t, out, "pebble initialized")
	assert.Contains(t, out, e.configDir)

	cfg, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "driver: sqlite")

	_, err = os.Stat(filepath.Join(e.dataDir, "pebble.db"))
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "version")
	assert.True(t, strings.HasPrefix(out, "pebble "), out)

	_, err := os.Stat(e.configDir)
	assert.True(t, os.IsNotExist(err), "version must not create the config dir")
}

func TestItemsLifecycle(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "items", "seed")
	assert.Contains(t, out, fmt.Sprintf("Seeded %d items", len(catalog.StarterItems())))

	out = e.mustRun(t, "items", "seed")
	assert.Contains(t, out, "nothing seeded")

	out = e.mustRun(t, "items", "count")
	assert.Equal(t, "11\n", out)

	out = e.mustRun(t, "items", "add", "--name", "Tango", "--category", "support", "--cost", "90", "--tag", "regen")
	assert.Equal(t, "Added item 12\n", out)

	out = e.mustRun(t, "items", "get", "12")
	assert.Contains(t, out, "name:     Tango")
	assert.Contains(t, out, "category: Support")
	assert.Contains(t, out, "cost:     90")

	out = e.mustRun(t, "items", "update", "12", "--cost", "95", "--note", "shareable")
	assert.Equal(t, "Updated 1 item(s)\n", out)

	out = e.mustRun(t, "-o", "json", "items", "get", "12")
	var got catalog.Item
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 95, got.Cost)
	require.NotNil(t, got.Note)
	assert.Equal(t, "shareable", *got.Note)
	assert.Equal(t, []string{"regen"}, got.Tags)

	out = e.mustRun(t, "items", "delete", "12")
	assert.Equal(t, "Deleted 1 item(s)\n", out)
	out = e.mustRun(t, "items", "delete", "12")
	assert.Equal(t, "Deleted 0 item(s)\n", out)

	out = e.mustRun(t, "items", "drop")
	assert.Contains(t, out, "Dropped")
	out = e.mustRun(t, "items", "count")
	assert.Equal(t, "0\n", out)
}

func TestItemsListFormats(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "items", "seed")

	out := e.mustRun(t, "items", "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 11)
	assert.Contains(t, lines[0], "Iron Branch - 50 gold (Basic)")
	assert.Contains(t, lines[3], "Observer Ward (free, Support)")

	out = e.mustRun(t, "--output", "yaml", "items", "list")
	var items []catalog.Item
	require.NoError(t, yaml.Unmarshal([]byte(out), &items))
	require.Len(t, items, 11)
	assert.Equal(t, catalog.CategoryCaster, items[10].Category)
	require.NotNil(t, items[9].Note)
	assert.Equal(t, "dropped on death", *items[9].Note)
}

func TestItemsQuery(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "items", "seed")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "equality",
			args: []string{"--eq", "category=Basic"},
			want: []string{"Iron Branch", "Magic Stick", "Boots of Speed"},
		},
		{
			name: "like with order",
			args: []string{"--like", "name=%Ward", "--order", "name", "--desc"},
			want: []string{"Sentry Ward", "Observer Ward"},
		},
		{
			name: "order and limit",
			args: []string{"--order", "name", "--limit", "2"},
			want: []string{"Aghanims Scepter", "Black King Bar"},
		},
		{
			name: "key comparison",
			args: []string{"--gt", "id=9"},
			want: []string{"Divine Rapier", "Aghanims Scepter"},
		},
		{
			name: "injection text matches nothing",
			args: []string{"--eq", "name=x'; DROP TABLE items; --"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.mustRun(t, append([]string{"-o", "json", "items", "query"}, tt.args...)...)
			var got []catalog.Item
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			names := make([]string, len(got))
			for i, it := range got {
				names[i] = it.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}

	out := e.mustRun(t, "items", "count")
	assert.Equal(t, "11\n", out)
}

func TestItemsQueryOne(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "items", "seed")

	out := e.mustRun(t, "items", "query", "--eq", "name=Blink Dagger", "--one")
	assert.Contains(t, out, "cost:     2250")

	out, stderr, err := e.run(t, "items", "query", "--eq", "name=Tango", "--one")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "no matching item")
}

func TestItemsQuerySQL(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "items", "query", "--eq", "category=Basic", "--order", "cost", "--desc", "--limit", "3", "--sql")
	assert.Contains(t, out, "SELECT id, name, category, cost, tags, note FROM items WHERE category = ? ORDER BY cost DESC LIMIT 3")
	assert.Contains(t, out, "1: Basic")
}

func TestExitCodes(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "items", "seed")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "unknown field", args: []string{"items", "query", "--eq", "price=1"}, want: exitUserError},
		{name: "negative limit", args: []string{"items", "query", "--limit", "-1"}, want: exitUserError},
		{name: "malformed condition", args: []string{"items", "query", "--eq", "name"}, want: exitUserError},
		{name: "missing item", args: []string{"items", "get", "404"}, want: exitUserError},
		{name: "bad id", args: []string{"items", "get", "abc"}, want: exitUserError},
		{name: "unknown category", args: []string{"items", "add", "--name", "Tango", "--category", "Food"}, want: exitUserError},
		{name: "missing name", args: []string{"items", "add", "--category", "Basic"}, want: exitUserError},
		{name: "bad output format", args: []string{"-o", "xml", "items", "list"}, want: exitUserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := e.run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, exitCode(err))
		})
	}
}

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(fmt.Errorf("wrapped: %w", types.ErrUnknownField)))
	assert.Equal(t, exitSysError, exitCode(fmt.Errorf("wrapped: %w", types.ErrExecution)))
	assert.Equal(t, exitSysError, exitCode(errors.New("disk on fire")))
}

func TestConfigFromEnvironment(t *testing.T) {
	e := newEnv(t)
	t.Setenv("PEBBLE_DRIVER", "oracle")

	_, _, err := e.run(t, "items", "count")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDriverUnknown)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestConfigDSNOverridesDataDir(t *testing.T) {
	e := newEnv(t)
	dbPath := filepath.Join(t.TempDir(), "custom.db")
	t.Setenv("PEBBLE_DSN", dbPath)

	e.mustRun(t, "items", "seed")

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(e.dataDir, "pebble.db"))
	assert.True(t, os.IsNotExist(err))
}

func TestItemsExportImport(t *testing.T) {
	src := newEnv(t)
	src.mustRun(t, "items", "seed")

	file := filepath.Join(t.TempDir(), "items.jsonl")
	out := src.mustRun(t, "items", "export", file)
	assert.Contains(t, out, "Exported 11 items")

	dst := newEnv(t)
	out = dst.mustRun(t, "items", "import", file)
	assert.Equal(t, "Imported 11 items\n", out)
	assert.Equal(t, src.mustRun(t, "items", "list"), dst.mustRun(t, "items", "list"))
}
