// Package convert is the coercive bridge between typed records and rows.
//
// Records are serialized into a types.Value object keyed by field name, and
// each field is rendered to a scalar that is bound as a statement parameter.
// Rows are probed column by column into a types.Value object and decoded back
// into records with coercion rules that tolerate the engine reporting a value
// in a different storage class than the attribute expects, such as an integer
// attribute stored in a text column.
package convert

import (
	"encoding"
	"fmt"
	"math"
	"reflect"

	"github.com/mesh-intelligence/pebble/pkg/types"
)

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// isText reports whether t, or a pointer to t, is rendered through its text methods.
func isText(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return t.Implements(textMarshalerType) || pt.Implements(textMarshalerType) ||
		pt.Implements(textUnmarshalerType)
}

// Encode serializes v into a Value. Structs become objects keyed by column
// name, slices and arrays become arrays, string-keyed maps become objects,
// nil pointers, slices and maps become null, and types implementing
// encoding.TextMarshaler become strings.
func Encode(v any) (types.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() != reflect.Pointer {
		// Copy into an addressable value so pointer-receiver MarshalText is found.
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		rv = p.Elem()
	}
	return encodeValue(rv, "")
}

// EncodeRecord serializes a record. The result must be an object.
func EncodeRecord(m types.Model) (types.Value, error) {
	v, err := Encode(m)
	if err != nil {
		return types.Value{}, err
	}
	if v.Kind() != types.KindObject {
		return types.Value{}, fmt.Errorf("%w: %T record encodes to %s, not an object",
			types.ErrSerialization, m, v.Kind())
	}
	return v, nil
}

func encodeValue(rv reflect.Value, path string) (types.Value, error) {
	if !rv.IsValid() {
		return types.Null(), nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return types.Null(), nil
		}
	}

	if m, ok := textMarshaler(rv); ok {
		text, err := m.MarshalText()
		if err != nil {
			return types.Value{}, serializationError(path, err)
		}
		return types.String(string(text)), nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return encodeValue(rv.Elem(), path)
	case reflect.Bool:
		return types.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return types.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return types.Value{}, serializationError(path, fmt.Errorf("%d overflows int64", u))
		}
		return types.Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return types.Value{}, serializationError(path, fmt.Errorf("unsupported number %v", f))
		}
		return types.Float(f), nil
	case reflect.String:
		return types.String(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return types.Null(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return types.String(string(rv.Bytes())), nil
		}
		return encodeSeq(rv, path)
	case reflect.Array:
		return encodeSeq(rv, path)
	case reflect.Map:
		if rv.IsNil() {
			return types.Null(), nil
		}
		return encodeMap(rv, path)
	case reflect.Struct:
		return encodeStruct(rv, path)
	}
	return types.Value{}, serializationError(path, fmt.Errorf("unsupported type %s", rv.Type()))
}

func encodeSeq(rv reflect.Value, path string) (types.Value, error) {
	items := make([]types.Value, rv.Len())
	for i := range items {
		item, err := encodeValue(rv.Index(i), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return types.Value{}, err
		}
		items[i] = item
	}
	return types.Array(items...), nil
}

func encodeMap(rv reflect.Value, path string) (types.Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return types.Value{}, serializationError(path, fmt.Errorf("map key type %s is not a string", rv.Type().Key()))
	}
	obj := make(map[string]types.Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		item, err := encodeValue(iter.Value(), joinPath(path, k))
		if err != nil {
			return types.Value{}, err
		}
		obj[k] = item
	}
	return types.Object(obj), nil
}

func encodeStruct(rv reflect.Value, path string) (types.Value, error) {
	idx := indexOf(rv.Type())
	obj := make(map[string]types.Value, len(idx.fields))
	for _, fi := range idx.fields {
		fv, ok := fieldByPath(rv, fi.index)
		if !ok {
			obj[fi.name] = types.Null()
			continue
		}
		item, err := encodeValue(fv, joinPath(path, fi.name))
		if err != nil {
			return types.Value{}, err
		}
		obj[fi.name] = item
	}
	return types.Object(obj), nil
}

func textMarshaler(rv reflect.Value) (encoding.TextMarshaler, bool) {
	if rv.Kind() == reflect.Interface || !rv.CanInterface() {
		return nil, false
	}
	if rv.Type().Implements(textMarshalerType) {
		return rv.Interface().(encoding.TextMarshaler), true
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(textMarshalerType) {
		return rv.Addr().Interface().(encoding.TextMarshaler), true
	}
	return nil, false
}

func serializationError(path string, err error) error {
	if path == "" {
		return fmt.Errorf("%w: %w", types.ErrSerialization, err)
	}
	return fmt.Errorf("%w: %s: %w", types.ErrSerialization, path, err)
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
