// Package pebble is the public API of the record store.
// It re-exports the store so applications depend on a stable import path
// while the implementation stays internal.
package pebble

import (
	"github.com/mesh-intelligence/pebble/internal/store"
	"github.com/mesh-intelligence/pebble/pkg/types"
)

// Version is the release of the library and the CLI.
const Version = "0.3.0"

// Store owns one database connection.
type Store = store.Store

// Table runs statements for one record type.
type Table[T types.Model] = store.Table[T]

// Builder composes a filtered, ordered and limited read of a Table.
type Builder[T types.Model] = store.Builder[T]

// Dialect captures the SQL differences between engines.
type Dialect = store.Dialect

// Open opens the database described by cfg.
//
// Example:
//
//	s, err := pebble.Open(types.Config{Driver: types.DriverSQLite, DSN: "app.db"})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	heroes, err := pebble.NewTable[Hero](s)
func Open(cfg types.Config) (*Store, error) {
	return store.Open(cfg)
}

// OpenInMemory opens a private in-memory SQLite store.
func OpenInMemory() (*Store, error) {
	return store.OpenInMemory()
}

// NewTable binds the record type T to s.
func NewTable[T types.Model](s *Store) (*Table[T], error) {
	return store.NewTable[T](s)
}
