package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/pebble/pkg/types"
)

// memoryDSN names a private in-memory SQLite database. The name is unique per
// store so two in-memory stores never share data.
func memoryDSN() string {
	return "file:pebble-" + uuid.NewString() + "?mode=memory&cache=shared"
}

// dataSourceName turns the configured DSN into the string handed to sql.Open.
func dataSourceName(cfg types.Config) (string, error) {
	switch cfg.Driver {
	case types.DriverSQLite:
		return sqliteDSN(cfg.DSN)
	case types.DriverPostgres:
		return postgresDSN(cfg.DSN)
	case types.DriverMySQL:
		return mysqlDSN(cfg.DSN)
	}
	return "", fmt.Errorf("%w: %q", types.ErrDriverUnknown, cfg.Driver)
}

// sqliteDSN maps an empty DSN or ":memory:" to a private in-memory database and
// creates the parent directory of a file path.
func sqliteDSN(dsn string) (string, error) {
	if dsn == "" || dsn == ":memory:" {
		return memoryDSN(), nil
	}
	if strings.HasPrefix(dsn, "file:") {
		return dsn, nil
	}
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%w: %w", types.ErrConnection, err)
		}
	}
	return dsn, nil
}

// postgresDSN accepts both URL and key=value forms.
func postgresDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		conn, err := pq.ParseURL(dsn)
		if err != nil {
			return "", fmt.Errorf("%w: %w", types.ErrDSNInvalid, err)
		}
		return conn, nil
	}
	if !strings.Contains(dsn, "=") {
		return "", fmt.Errorf("%w: %q is neither a URL nor key=value pairs", types.ErrDSNInvalid, dsn)
	}
	return dsn, nil
}

func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrDSNInvalid, err)
	}
	return cfg.FormatDSN(), nil
}
