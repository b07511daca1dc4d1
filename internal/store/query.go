package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/pebble/internal/convert"
	"github.com/mesh-intelligence/pebble/pkg/types"
)

type predicate struct {
	field string
	op    string
	value any
}

type ordering struct {
	field     string
	ascending bool
}

// Builder composes a single SELECT over a table. Predicates are joined with
// AND in the order they were added; a later OrderBy or Limit replaces an
// earlier one. Invalid arguments are recorded and reported by the terminal
// call. A Builder runs once: after Fetch or FetchOne it only returns
// types.ErrBuilderConsumed.
type Builder[T types.Model] struct {
	table    *Table[T]
	preds    []predicate
	order    *ordering
	limit    int
	hasLimit bool
	err      error
	consumed bool
}

// WhereEq matches records whose field equals value.
func (b *Builder[T]) WhereEq(field string, value any) *Builder[T] {
	return b.where(field, "=", value)
}

// WhereGt matches records whose field is greater than value.
func (b *Builder[T]) WhereGt(field string, value any) *Builder[T] {
	return b.where(field, ">", value)
}

// WhereLt matches records whose field is less than value.
func (b *Builder[T]) WhereLt(field string, value any) *Builder[T] {
	return b.where(field, "<", value)
}

// WhereLike matches records whose field matches the SQL LIKE pattern value.
func (b *Builder[T]) WhereLike(field string, value any) *Builder[T] {
	return b.where(field, "LIKE", value)
}

func (b *Builder[T]) where(field, op string, value any) *Builder[T] {
	if b.err != nil {
		return b
	}
	if err := b.checkField(field); err != nil {
		b.err = err
		return b
	}
	arg, err := convert.RenderAny(value)
	if err != nil {
		b.err = fmt.Errorf("binding %s: %w", field, err)
		return b
	}
	b.preds = append(b.preds, predicate{field: field, op: op, value: arg})
	return b
}

// OrderBy sorts the result by field.
func (b *Builder[T]) OrderBy(field string, ascending bool) *Builder[T] {
	if b.err != nil {
		return b
	}
	if err := b.checkField(field); err != nil {
		b.err = err
		return b
	}
	b.order = &ordering{field: field, ascending: ascending}
	return b
}

// Limit caps the number of records returned.
func (b *Builder[T]) Limit(n int) *Builder[T] {
	if b.err != nil {
		return b
	}
	if n < 0 {
		b.err = fmt.Errorf("%w: %d", types.ErrInvalidLimit, n)
		return b
	}
	b.limit = n
	b.hasLimit = true
	return b
}

func (b *Builder[T]) checkField(field string) error {
	if !b.table.desc.Has(field) {
		return fmt.Errorf("%w: %s has no field %q", types.ErrUnknownField, b.table.desc.Table, field)
	}
	return nil
}

// SQL returns the statement and its bound values without running it.
func (b *Builder[T]) SQL() (string, []any, error) {
	if b.consumed {
		return "", nil, types.ErrBuilderConsumed
	}
	if b.err != nil {
		return "", nil, b.err
	}
	d := b.table.store.dialect

	var sb strings.Builder
	sb.WriteString(selectSQL(b.table.desc))
	args := make([]any, 0, len(b.preds))
	for i, p := range b.preds {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(p.field + " " + p.op + " " + d.Placeholder(i+1))
		args = append(args, p.value)
	}
	if b.order != nil {
		dir := "ASC"
		if !b.order.ascending {
			dir = "DESC"
		}
		sb.WriteString(" ORDER BY " + b.order.field + " " + dir)
	}
	if b.hasLimit {
		sb.WriteString(" LIMIT " + strconv.Itoa(b.limit))
	}
	return sb.String(), args, nil
}

// Fetch runs the query and returns the matching records in engine order.
func (b *Builder[T]) Fetch(ctx context.Context) ([]T, error) {
	query, args, err := b.SQL()
	b.consumed = true
	if err != nil {
		return nil, err
	}
	recs, err := collect[T](ctx, b.table.store, b.table.desc, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", b.table.desc.Table, err)
	}
	return recs, nil
}

// FetchOne runs the query with a limit of one. The boolean is false, with a
// nil error, when nothing matched.
func (b *Builder[T]) FetchOne(ctx context.Context) (T, bool, error) {
	var zero T
	if !b.consumed {
		b.Limit(1)
	}
	recs, err := b.Fetch(ctx)
	if err != nil {
		return zero, false, err
	}
	if len(recs) == 0 {
		return zero, false, nil
	}
	return recs[0], true, nil
}
