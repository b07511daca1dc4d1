// Root command for the pebble CLI.
package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pebble/internal/catalog"
	"github.com/mesh-intelligence/pebble/internal/paths"
	"github.com/mesh-intelligence/pebble/pkg/pebble"
	"github.com/mesh-intelligence/pebble/pkg/types"
)

// app holds the global flags and the state loaded before a command runs.
type app struct {
	configDir string
	dataDir   string
	output    string
	verbose   bool

	cfg types.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "pebble",
		Short:         "Pebble keeps a shop catalog in a SQL table",
		Version:       pebble.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			switch a.output {
			case outputText, outputJSON, outputYAML:
			default:
				return fmt.Errorf("%w: --output must be text, json or yaml, got %q", errUsage, a.output)
			}
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/pebble)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory for the default SQLite file (default: $XDG_DATA_HOME/pebble)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputText, "output format: text, json or yaml")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every statement to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newItemsCmd(a))
	return root
}

// load reads config.yaml and fills in the SQLite file when no DSN is set.
func (a *app) load() error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	if cfg.Driver == types.DriverSQLite && cfg.DSN == "" {
		dataDir, err := paths.ResolveDataDir(a.dataDir)
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		a.dataDir = dataDir
		cfg.DSN = paths.DatabasePath(dataDir)
	}
	a.cfg = cfg
	return nil
}

// openItems opens the configured store and binds the items table, creating
// it when missing. The caller closes the returned store.
func (a *app) openItems(cmd *cobra.Command) (*pebble.Store, *pebble.Table[catalog.Item], error) {
	s, err := pebble.Open(a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	if a.verbose {
		s.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	items, err := pebble.NewTable[catalog.Item](s)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	if err := items.CreateTable(cmd.Context()); err != nil {
		s.Close()
		return nil, nil, err
	}
	return s, items, nil
}
