package types

import (
	"fmt"
	"reflect"
	"regexp"
)

// DefaultPrimaryKey is the key field used when a Model does not implement Keyed.
const DefaultPrimaryKey = "id"

// Model is implemented by every persistable record type.
// The methods must be pure: they describe the type, not the instance, and are
// called on the zero value.
type Model interface {
	// TableName returns the name of the table that stores the record.
	TableName() string

	// Fields returns the column names in a fixed order. The order governs
	// column order in CREATE, INSERT and SELECT, and rows are matched back to
	// fields by position.
	Fields() []string
}

// Keyed is implemented by models whose primary key is not DefaultPrimaryKey.
// PrimaryKey may be declared on the value or on a pointer receiver.
type Keyed interface {
	PrimaryKey() string
}

// Descriptor is the validated metadata of a Model.
type Descriptor struct {
	Table      string
	Fields     []string
	PrimaryKey string
}

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PrimaryKey returns the key field of m.
func PrimaryKey(m Model) string {
	if k, ok := m.(Keyed); ok {
		return k.PrimaryKey()
	}
	if rv := reflect.ValueOf(m); rv.IsValid() && rv.Kind() != reflect.Pointer {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		if k, ok := p.Interface().(Keyed); ok {
			return k.PrimaryKey()
		}
	}
	return DefaultPrimaryKey
}

// Prototype returns a value of T whose Model methods are safe to call. For a
// pointer type it points at a fresh zero struct instead of being nil.
func Prototype[T Model]() T {
	var zero T
	if t := reflect.TypeFor[T](); t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(T)
	}
	return zero
}

// Describe reads and validates the metadata of m.
// Returns an error wrapping ErrInvalidModel when the table name or a field is
// not a plain identifier, when fields are empty or repeated, or when the
// primary key is not one of the fields.
func Describe(m Model) (Descriptor, error) {
	table := m.TableName()
	if !identRE.MatchString(table) {
		return Descriptor{}, fmt.Errorf("%w: table name %q", ErrInvalidModel, table)
	}

	fields := m.Fields()
	if len(fields) == 0 {
		return Descriptor{}, fmt.Errorf("%w: %s declares no fields", ErrInvalidModel, table)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !identRE.MatchString(f) {
			return Descriptor{}, fmt.Errorf("%w: %s field name %q", ErrInvalidModel, table, f)
		}
		if seen[f] {
			return Descriptor{}, fmt.Errorf("%w: %s field %q declared twice", ErrInvalidModel, table, f)
		}
		seen[f] = true
	}

	pk := PrimaryKey(m)
	if !seen[pk] {
		return Descriptor{}, fmt.Errorf("%w: %s primary key %q is not a field", ErrInvalidModel, table, pk)
	}

	return Descriptor{
		Table:      table,
		Fields:     append([]string(nil), fields...),
		PrimaryKey: pk,
	}, nil
}

// Has reports whether field is declared by the descriptor.
func (d Descriptor) Has(field string) bool {
	for _, f := range d.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// NonKeyFields returns the declared fields without the primary key, in order.
func (d Descriptor) NonKeyFields() []string {
	out := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		if f != d.PrimaryKey {
			out = append(out, f)
		}
	}
	return out
}
