package store

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/pebble/internal/convert"
	"github.com/mesh-intelligence/pebble/pkg/types"
)

// Table runs statements for one record type. The table name, the columns and
// the primary key are read once from T's zero value.
type Table[T types.Model] struct {
	store *Store
	desc  types.Descriptor
}

// NewTable binds the record type T to s. T may be a struct or a pointer to
// one.
// Returns an error wrapping types.ErrInvalidModel when T's metadata is not
// usable.
func NewTable[T types.Model](s *Store) (*Table[T], error) {
	desc, err := types.Describe(types.Prototype[T]())
	if err != nil {
		return nil, err
	}
	return &Table[T]{store: s, desc: desc}, nil
}

// Descriptor returns the metadata the table was built from.
func (t *Table[T]) Descriptor() types.Descriptor { return t.desc }

// CreateTable creates the table if it does not exist. The key column is an
// integer primary key and every other column holds text.
func (t *Table[T]) CreateTable(ctx context.Context) error {
	if _, err := t.store.exec(ctx, createTableSQL(t.store.dialect, t.desc)); err != nil {
		return schemaError("creating", t.desc.Table, err)
	}
	return nil
}

// DropTable removes the table if it exists.
func (t *Table[T]) DropTable(ctx context.Context) error {
	if _, err := t.store.exec(ctx, dropTableSQL(t.desc)); err != nil {
		return schemaError("dropping", t.desc.Table, err)
	}
	return nil
}

// Insert writes rec and returns the key the engine assigned. A record whose
// key is null leaves the key to the engine.
func (t *Table[T]) Insert(ctx context.Context, rec T) (int64, error) {
	obj, err := t.encode(rec)
	if err != nil {
		return 0, err
	}

	cols := t.desc.Fields
	if key, ok := convert.Lookup(obj, t.desc.PrimaryKey); !ok || key.IsNull() {
		cols = t.desc.NonKeyFields()
	}
	args, err := convert.Bind(types.Object(obj), cols)
	if err != nil {
		return 0, err
	}
	if len(cols) == len(t.desc.Fields) {
		for i, f := range cols {
			if f == t.desc.PrimaryKey {
				key, _ := convert.Lookup(obj, f)
				if args[i], err = keyArg(key); err != nil {
					return 0, err
				}
			}
		}
	}

	query := insertSQL(t.store.dialect, t.desc, cols)
	if t.store.dialect.ReturningKey() {
		id, err := t.store.queryInt(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting into %s: %w", t.desc.Table, err)
		}
		return id, nil
	}

	res, err := t.store.exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting into %s: %w", t.desc.Table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s key: %w", types.ErrExecution, t.desc.Table, err)
	}
	return id, nil
}

// SelectAll returns every record in engine order, which for a plain scan is
// insertion order.
func (t *Table[T]) SelectAll(ctx context.Context) ([]T, error) {
	return collect[T](ctx, t.store, t.desc, selectSQL(t.desc))
}

// FindByID returns the record whose key is id. The boolean is false, with a
// nil error, when no such record exists.
func (t *Table[T]) FindByID(ctx context.Context, id int64) (T, bool, error) {
	var zero T
	recs, err := collect[T](ctx, t.store, t.desc, findSQL(t.store.dialect, t.desc), id)
	if err != nil {
		return zero, false, err
	}
	if len(recs) == 0 {
		return zero, false, nil
	}
	return recs[0], true, nil
}

// Update overwrites every non-key column of the record whose key matches
// rec's key and returns the number of rows changed. A missing record changes
// nothing.
func (t *Table[T]) Update(ctx context.Context, rec T) (int64, error) {
	fields := t.desc.NonKeyFields()
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: %s has no columns besides its key", types.ErrInvalidModel, t.desc.Table)
	}

	obj, err := t.encode(rec)
	if err != nil {
		return 0, err
	}
	key, ok := convert.Lookup(obj, t.desc.PrimaryKey)
	if !ok {
		return 0, fmt.Errorf("%w: %w: %s.%s", types.ErrSerialization, types.ErrMissingField, t.desc.Table, t.desc.PrimaryKey)
	}
	if k := key.Kind(); k != types.KindNumber && k != types.KindString {
		return 0, fmt.Errorf("%w: %s key must be a number or a string, got %s", types.ErrSerialization, t.desc.Table, k)
	}

	args, err := convert.Bind(types.Object(obj), fields)
	if err != nil {
		return 0, err
	}
	k, err := keyArg(key)
	if err != nil {
		return 0, err
	}
	args = append(args, k)

	res, err := t.store.exec(ctx, updateSQL(t.store.dialect, t.desc), args...)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", t.desc.Table, err)
	}
	return rowsAffected(res, t.desc.Table)
}

// Delete removes the record whose key is id and returns the number of rows
// removed, 0 when there was none.
func (t *Table[T]) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := t.store.exec(ctx, deleteSQL(t.store.dialect, t.desc), id)
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", t.desc.Table, err)
	}
	return rowsAffected(res, t.desc.Table)
}

// Count returns the number of records in the table.
func (t *Table[T]) Count(ctx context.Context) (int64, error) {
	n, err := t.store.queryInt(ctx, countSQL(t.desc))
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", t.desc.Table, err)
	}
	return n, nil
}

// Query starts a filtered read of the table.
func (t *Table[T]) Query() *Builder[T] {
	return &Builder[T]{table: t}
}

func (t *Table[T]) encode(rec T) (map[string]types.Value, error) {
	v, err := convert.EncodeRecord(rec)
	if err != nil {
		return nil, err
	}
	obj, _ := v.AsObject()
	return obj, nil
}

// keyArg binds integer keys as integers; other keys use their rendered text.
func keyArg(key types.Value) (any, error) {
	if i, ok := key.AsInt(); ok {
		return i, nil
	}
	return convert.Render(key)
}

type resultRows interface {
	RowsAffected() (int64, error)
}

func rowsAffected(res resultRows, table string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s row count: %w", types.ErrExecution, table, err)
	}
	return n, nil
}

func schemaError(verb, table string, err error) error {
	return fmt.Errorf("%w: %s table %s: %w", types.ErrSchema, verb, table, err)
}
