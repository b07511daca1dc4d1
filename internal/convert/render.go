package convert

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/pebble/pkg/types"
)

// Render turns a Value into a scalar for a bound parameter: strings pass
// through, numbers and booleans become their canonical text, null becomes SQL
// NULL, and arrays and objects become JSON text.
func Render(v types.Value) (any, error) {
	switch v.Kind() {
	case types.KindNull:
		return nil, nil
	case types.KindString:
		s, _ := v.AsString()
		return s, nil
	case types.KindNumber, types.KindBool:
		return v.Text(), nil
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSerialization, err)
	}
	return string(b), nil
}

// RenderAny encodes an arbitrary Go value and renders it.
func RenderAny(v any) (any, error) {
	val, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return Render(val)
}

// Bind renders the named fields of a serialized record, in order.
// Returns an error wrapping types.ErrMissingField and types.ErrSerialization
// when a field is not present in the record.
func Bind(record types.Value, fields []string) ([]any, error) {
	obj, ok := record.AsObject()
	if !ok {
		return nil, fmt.Errorf("%w: record is %s, not an object", types.ErrSerialization, record.Kind())
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		v, ok := Lookup(obj, f)
		if !ok {
			return nil, fmt.Errorf("%w: %w: %q", types.ErrSerialization, types.ErrMissingField, f)
		}
		arg, err := Render(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f, err)
		}
		args[i] = arg
	}
	return args, nil
}

// Lookup finds field in obj, falling back to a case-insensitive match.
func Lookup(obj map[string]types.Value, field string) (types.Value, bool) {
	if v, ok := obj[field]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, field) {
			return v, true
		}
	}
	return types.Value{}, false
}
