package store

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/pebble/internal/convert"
	"github.com/mesh-intelligence/pebble/pkg/types"
)

// collect runs a select and rebuilds one record per row, in row order.
// Columns are scanned in declared field order and reassembled by position.
func collect[T types.Model](ctx context.Context, s *Store, desc types.Descriptor, query string, args ...any) (out []T, err error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", types.ErrExecution, cerr)
		}
	}()

	out = []T{}
	for rows.Next() {
		raw := make([]any, len(desc.Fields))
		ptrs := make([]any, len(raw))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scanning %s: %w", types.ErrExecution, desc.Table, err)
		}
		rec, err := decodeRow[T](s, desc, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrExecution, err)
	}
	return out, nil
}

func decodeRow[T types.Model](s *Store, desc types.Descriptor, raw []any) (T, error) {
	var rec T
	if err := s.decoder.Decode(convert.ProbeRow(desc.Fields, raw), &rec); err != nil {
		return rec, fmt.Errorf("reading %s: %w", desc.Table, err)
	}
	return rec, nil
}
