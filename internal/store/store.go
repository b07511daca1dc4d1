// Package store maps typed records onto flat tables.
//
// A Store owns one database connection. Table[T] runs the CRUD statements for
// a record type, and Builder[T] composes filtered, ordered and limited reads.
// Table and column names come only from the record's types.Descriptor; every
// runtime value is a bound parameter.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/pebble/internal/convert"
	"github.com/mesh-intelligence/pebble/pkg/types"
)

// Store owns a database connection for its whole lifetime.
// A Store is not safe for concurrent use; callers that need concurrency
// serialize access or open one store per goroutine.
type Store struct {
	db      *sql.DB
	dialect Dialect
	decoder convert.Decoder
	logger  *slog.Logger
	closed  bool
}

// New wraps a connection opened elsewhere. The store takes ownership of db and
// closes it on Close.
func New(db *sql.DB, d Dialect) *Store {
	return &Store{
		db:      db,
		dialect: d,
		decoder: convert.NewDecoder(types.CoercionStrict),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// Open validates cfg, opens the configured database, and verifies the
// connection. An empty SQLite DSN opens a private in-memory database.
// Returns an error wrapping types.ErrConnection when the database cannot be
// reached.
func Open(cfg types.Config) (*Store, error) {
	if cfg.Driver == "" {
		cfg.Driver = types.DriverSQLite
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	// One connection, kept open: an in-memory database lives exactly as long
	// as the store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}

	s := New(db, d)
	s.decoder = convert.NewDecoder(cfg.Policy())
	return s, nil
}

// OpenInMemory opens a private in-memory SQLite store.
func OpenInMemory() (*Store, error) {
	return Open(types.Config{Driver: types.DriverSQLite})
}

// SetLogger sets the logger that receives one debug record per statement.
// Bound values are never logged.
func (s *Store) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	s.logger = l
}

// SetCoercion sets the policy used when stored values are read into records.
func (s *Store) SetCoercion(p types.CoercionPolicy) {
	s.decoder = convert.NewDecoder(p)
}

// Dialect returns the SQL dialect of the store.
func (s *Store) Dialect() Dialect { return s.dialect }

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the connection. Close is idempotent; after Close every
// operation returns types.ErrStoreClosed.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.closed {
		return nil, types.ErrStoreClosed
	}
	s.logger.DebugContext(ctx, "exec", "sql", query, "args", len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrExecution, err)
	}
	return res, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.closed {
		return nil, types.ErrStoreClosed
	}
	s.logger.DebugContext(ctx, "query", "sql", query, "args", len(args))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrExecution, err)
	}
	return rows, nil
}

// queryInt runs a statement that returns a single integer.
func (s *Store) queryInt(ctx context.Context, query string, args ...any) (int64, error) {
	if s.closed {
		return 0, types.ErrStoreClosed
	}
	s.logger.DebugContext(ctx, "query", "sql", query, "args", len(args))
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrExecution, err)
	}
	return n, nil
}
