package store

import (
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/pebble/pkg/types"
)

// Dialect captures the SQL differences between the supported engines.
type Dialect interface {
	// Name returns the configuration name of the dialect.
	Name() string
	// DriverName returns the database/sql driver name.
	DriverName() string
	// Placeholder returns the n-th (1-based) bound parameter marker.
	Placeholder(n int) string
	// KeyColumn returns the column definition of the primary key.
	KeyColumn(field string) string
	// TextColumn returns the column definition of every other field.
	TextColumn(field string) string
	// ReturningKey reports whether INSERT reports the key through RETURNING
	// instead of the driver's last insert id.
	ReturningKey() bool
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string                   { return types.DriverSQLite }
func (sqliteDialect) DriverName() string             { return "sqlite" }
func (sqliteDialect) Placeholder(int) string         { return "?" }
func (sqliteDialect) KeyColumn(field string) string  { return field + " INTEGER PRIMARY KEY" }
func (sqliteDialect) TextColumn(field string) string { return field + " TEXT" }
func (sqliteDialect) ReturningKey() bool             { return false }

type postgresDialect struct{}

func (postgresDialect) Name() string                   { return types.DriverPostgres }
func (postgresDialect) DriverName() string             { return "postgres" }
func (postgresDialect) Placeholder(n int) string       { return "$" + strconv.Itoa(n) }
func (postgresDialect) KeyColumn(field string) string  { return field + " BIGSERIAL PRIMARY KEY" }
func (postgresDialect) TextColumn(field string) string { return field + " TEXT" }
func (postgresDialect) ReturningKey() bool             { return true }

type mysqlDialect struct{}

func (mysqlDialect) Name() string                   { return types.DriverMySQL }
func (mysqlDialect) DriverName() string             { return "mysql" }
func (mysqlDialect) Placeholder(int) string         { return "?" }
func (mysqlDialect) KeyColumn(field string) string  { return field + " BIGINT AUTO_INCREMENT PRIMARY KEY" }
func (mysqlDialect) TextColumn(field string) string { return field + " TEXT" }
func (mysqlDialect) ReturningKey() bool             { return false }

// Dialects for the supported drivers.
var (
	SQLite   Dialect = sqliteDialect{}
	Postgres Dialect = postgresDialect{}
	MySQL    Dialect = mysqlDialect{}
)

// DialectFor returns the dialect registered under a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case types.DriverSQLite:
		return SQLite, nil
	case types.DriverPostgres:
		return Postgres, nil
	case types.DriverMySQL:
		return MySQL, nil
	}
	return nil, fmt.Errorf("%w: %q", types.ErrDriverUnknown, driver)
}
