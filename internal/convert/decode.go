package convert

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/pebble/pkg/types"
)

// Decoder rebuilds typed values from Values, coercing between storage classes.
// The zero Decoder uses types.CoercionStrict.
type Decoder struct {
	Policy types.CoercionPolicy
}

// NewDecoder returns a Decoder with the given policy.
func NewDecoder(policy types.CoercionPolicy) Decoder {
	return Decoder{Policy: policy}
}

func (d Decoder) lenient() bool { return d.Policy == types.CoercionLenient }

// Decode stores src into the value dst points to.
// Returns an error wrapping types.ErrCoercion when src cannot be reconciled
// with the target type.
func (d Decoder) Decode(src types.Value, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: decode target must be a non-nil pointer, got %T", types.ErrCoercion, dst)
	}
	return d.decode(src, rv.Elem(), "")
}

func (d Decoder) decode(src types.Value, dst reflect.Value, path string) error {
	switch dst.Kind() {
	case reflect.Pointer:
		if src.IsNull() {
			dst.SetZero()
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return d.decode(src, dst.Elem(), path)
	case reflect.Interface:
		if dst.NumMethod() != 0 {
			return d.mismatch(src, dst, path)
		}
		if src.IsNull() {
			dst.SetZero()
			return nil
		}
		dst.Set(reflect.ValueOf(src.Interface()))
		return nil
	}

	if s, ok := src.AsString(); ok {
		if u, ok := textUnmarshaler(dst); ok {
			if err := u.UnmarshalText([]byte(s)); err != nil {
				return coercionError(path, fmt.Errorf("%q is not a valid %s: %w", s, dst.Type(), err))
			}
			return nil
		}
	}

	if src.IsNull() {
		return d.null(dst, path)
	}

	switch dst.Kind() {
	case reflect.Bool:
		return d.decodeBool(src, dst, path)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return d.decodeInt(src, dst, path)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return d.decodeUint(src, dst, path)
	case reflect.Float32, reflect.Float64:
		return d.decodeFloat(src, dst, path)
	case reflect.String:
		return d.decodeString(src, dst, path)
	case reflect.Slice:
		return d.decodeSlice(src, dst, path)
	case reflect.Array:
		return d.decodeArray(src, dst, path)
	case reflect.Map:
		return d.decodeMap(src, dst, path)
	case reflect.Struct:
		return d.decodeStruct(src, dst, path)
	}
	return d.mismatch(src, dst, path)
}

func (d Decoder) decodeBool(src types.Value, dst reflect.Value, path string) error {
	if b, ok := src.AsBool(); ok {
		dst.SetBool(b)
		return nil
	}
	if s, ok := src.AsString(); ok {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return d.unparsable(s, dst, path, err)
		}
		dst.SetBool(b)
		return nil
	}
	if i, ok := src.AsInt(); ok {
		dst.SetBool(i != 0)
		return nil
	}
	return d.mismatch(src, dst, path)
}

func (d Decoder) decodeInt(src types.Value, dst reflect.Value, path string) error {
	if s, ok := src.AsString(); ok {
		n, err := strconv.ParseInt(s, 10, dst.Type().Bits())
		if err != nil {
			return d.unparsable(s, dst, path, err)
		}
		dst.SetInt(n)
		return nil
	}
	if src.Kind() != types.KindNumber {
		return d.mismatch(src, dst, path)
	}
	n, ok := src.AsInt()
	if !ok {
		f, _ := src.AsFloat()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return coercionError(path, fmt.Errorf("%v is not an integer", f))
		}
		n = int64(f)
	}
	if dst.OverflowInt(n) {
		return coercionError(path, fmt.Errorf("%d overflows %s", n, dst.Type()))
	}
	dst.SetInt(n)
	return nil
}

func (d Decoder) decodeUint(src types.Value, dst reflect.Value, path string) error {
	if s, ok := src.AsString(); ok {
		n, err := strconv.ParseUint(s, 10, dst.Type().Bits())
		if err != nil {
			return d.unparsable(s, dst, path, err)
		}
		dst.SetUint(n)
		return nil
	}
	if src.Kind() != types.KindNumber {
		return d.mismatch(src, dst, path)
	}
	f, _ := src.AsFloat()
	n, ok := src.AsInt()
	if !ok {
		if f != math.Trunc(f) || f >= math.MaxInt64 {
			return coercionError(path, fmt.Errorf("%v is not an integer", f))
		}
		n = int64(f)
	}
	if n < 0 {
		return coercionError(path, fmt.Errorf("%d is negative", n))
	}
	if dst.OverflowUint(uint64(n)) {
		return coercionError(path, fmt.Errorf("%d overflows %s", n, dst.Type()))
	}
	dst.SetUint(uint64(n))
	return nil
}

func (d Decoder) decodeFloat(src types.Value, dst reflect.Value, path string) error {
	if s, ok := src.AsString(); ok {
		f, err := strconv.ParseFloat(s, dst.Type().Bits())
		if err != nil {
			return d.unparsable(s, dst, path, err)
		}
		dst.SetFloat(f)
		return nil
	}
	f, ok := src.AsFloat()
	if !ok {
		return d.mismatch(src, dst, path)
	}
	if dst.OverflowFloat(f) {
		return coercionError(path, fmt.Errorf("%v overflows %s", f, dst.Type()))
	}
	dst.SetFloat(f)
	return nil
}

func (d Decoder) decodeString(src types.Value, dst reflect.Value, path string) error {
	switch src.Kind() {
	case types.KindString, types.KindNumber, types.KindBool:
		dst.SetString(src.Text())
		return nil
	}
	return d.mismatch(src, dst, path)
}

func (d Decoder) decodeSlice(src types.Value, dst reflect.Value, path string) error {
	if s, ok := src.AsString(); ok {
		if dst.Type().Elem().Kind() == reflect.Uint8 {
			dst.Set(reflect.ValueOf([]byte(s)).Convert(dst.Type()))
			return nil
		}
		return d.decodeJSONText(s, dst, path)
	}
	items, ok := src.AsArray()
	if !ok {
		return d.mismatch(src, dst, path)
	}
	out := reflect.MakeSlice(dst.Type(), len(items), len(items))
	for i, item := range items {
		if err := d.decode(item, out.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	dst.Set(out)
	return nil
}

func (d Decoder) decodeArray(src types.Value, dst reflect.Value, path string) error {
	if s, ok := src.AsString(); ok {
		return d.decodeJSONText(s, dst, path)
	}
	items, ok := src.AsArray()
	if !ok {
		return d.mismatch(src, dst, path)
	}
	if len(items) > dst.Len() {
		return coercionError(path, fmt.Errorf("%d elements do not fit in %s", len(items), dst.Type()))
	}
	dst.SetZero()
	for i, item := range items {
		if err := d.decode(item, dst.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (d Decoder) decodeMap(src types.Value, dst reflect.Value, path string) error {
	if s, ok := src.AsString(); ok {
		return d.decodeJSONText(s, dst, path)
	}
	entries, ok := src.AsObject()
	if !ok || dst.Type().Key().Kind() != reflect.String {
		return d.mismatch(src, dst, path)
	}
	out := reflect.MakeMapWithSize(dst.Type(), len(entries))
	keyType, elemType := dst.Type().Key(), dst.Type().Elem()
	for k, item := range entries {
		elem := reflect.New(elemType).Elem()
		if err := d.decode(item, elem, joinPath(path, k)); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(keyType), elem)
	}
	dst.Set(out)
	return nil
}

func (d Decoder) decodeStruct(src types.Value, dst reflect.Value, path string) error {
	if s, ok := src.AsString(); ok {
		return d.decodeJSONText(s, dst, path)
	}
	entries, ok := src.AsObject()
	if !ok {
		return d.mismatch(src, dst, path)
	}
	idx := indexOf(dst.Type())
	for k, item := range entries {
		pos, ok := idx.byName[strings.ToLower(k)]
		if !ok {
			continue
		}
		fi := idx.fields[pos]
		if err := d.decode(item, fieldByPathAlloc(dst, fi.index), joinPath(path, fi.name)); err != nil {
			return err
		}
	}
	return nil
}

// decodeJSONText reads a compound attribute that was stored as JSON text.
func (d Decoder) decodeJSONText(s string, dst reflect.Value, path string) error {
	parsed, err := types.ParseJSON(s)
	if err != nil {
		return d.unparsable(s, dst, path, err)
	}
	if parsed.Kind() == types.KindString {
		return d.mismatch(parsed, dst, path)
	}
	return d.decode(parsed, dst, path)
}

// null handles a null source for a target that is not optional. Slices, maps
// and interfaces take their nil value; other kinds follow the policy.
func (d Decoder) null(dst reflect.Value, path string) error {
	switch dst.Kind() {
	case reflect.Slice, reflect.Map:
		dst.SetZero()
		return nil
	}
	if d.lenient() {
		dst.SetZero()
		return nil
	}
	return coercionError(path, fmt.Errorf("null cannot be stored in %s", dst.Type()))
}

// unparsable handles text that does not parse as the target type.
func (d Decoder) unparsable(s string, dst reflect.Value, path string, err error) error {
	if d.lenient() {
		dst.SetZero()
		return nil
	}
	return coercionError(path, fmt.Errorf("cannot parse %q as %s: %w", s, dst.Type(), err))
}

func (d Decoder) mismatch(src types.Value, dst reflect.Value, path string) error {
	return coercionError(path, fmt.Errorf("%s cannot be stored in %s", src.Kind(), dst.Type()))
}

func textUnmarshaler(dst reflect.Value) (encoding.TextUnmarshaler, bool) {
	if !dst.CanAddr() {
		return nil, false
	}
	p := dst.Addr()
	if !p.CanInterface() || !p.Type().Implements(textUnmarshalerType) {
		return nil, false
	}
	return p.Interface().(encoding.TextUnmarshaler), true
}

func coercionError(path string, err error) error {
	if path == "" {
		return fmt.Errorf("%w: %w", types.ErrCoercion, err)
	}
	return fmt.Errorf("%w: %s: %w", types.ErrCoercion, path, err)
}
