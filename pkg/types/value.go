package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the untyped interchange representation between rows and records.
// It is produced when a record is serialized before a write and when a raw
// row is read before the record is rebuilt. The zero Value is null.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	float bool
	s     string
	arr   []Value
	obj   map[string]Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer Number.
func Int(i int64) Value { return Value{kind: KindNumber, i: i} }

// Float returns a floating Number.
func Float(f float64) Value { return Value{kind: KindNumber, f: f, float: true} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns a sequence Value.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Object returns a mapping Value. A nil map yields an empty object.
func Object(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindObject, obj: m}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsInt reports whether v is an integer Number.
func (v Value) IsInt() bool { return v.kind == KindNumber && !v.float }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer held by v. Floating numbers are not integers.
func (v Value) AsInt() (int64, bool) { return v.i, v.IsInt() }

// AsFloat returns any Number as float64.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if v.float {
		return v.f, true
	}
	return float64(v.i), true
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsArray returns the elements held by v.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the entries held by v.
func (v Value) AsObject() (map[string]Value, bool) { return v.obj, v.kind == KindObject }

// Get returns the entry named key when v is an object.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	e, ok := v.obj[key]
	return e, ok
}

// Text returns the canonical textual form of a scalar: strings as is, numbers
// in shortest round-trip form, booleans as "true" or "false", null as "null".
// Arrays and objects yield their JSON encoding.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		if v.float {
			return strconv.FormatFloat(v.f, 'g', -1, 64)
		}
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return v.s
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Interface converts v to plain Go values: nil, bool, int64, float64, string,
// []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if v.float {
			return v.f
		}
		return v.i
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether v and o hold the same data. An integer and a floating
// number are equal when they denote the same quantity.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if !v.float && !o.float {
			return v.i == o.i
		}
		a, _ := v.AsFloat()
		b, _ := o.AsFloat()
		return a == b
	case KindString:
		return v.s == o.s
	case KindArray:
		return slices.EqualFunc(v.arr, o.arr, Value.Equal)
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, e := range v.obj {
			oe, ok := o.obj[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON encodes v as JSON. Object keys are written in sorted order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) appendJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if v.float && (math.IsNaN(v.f) || math.IsInf(v.f, 0)) {
			return fmt.Errorf("unsupported number %v", v.f)
		}
		buf.WriteString(v.Text())
	case KindString:
		b, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := v.obj[k].appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", v.kind)
	}
	return nil
}

// UnmarshalJSON decodes JSON into v. Integral numbers that fit in int64 stay
// integers.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := fromJSON(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseJSON parses JSON text into a Value.
func ParseJSON(text string) (Value, error) {
	var v Value
	if err := v.UnmarshalJSON([]byte(text)); err != nil {
		return Value{}, err
	}
	return v, nil
}

func fromJSON(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case string:
		return String(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			item, err := fromJSON(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Array(items...), nil
	case map[string]any:
		obj := make(map[string]Value, len(x))
		for k, e := range x {
			item, err := fromJSON(e)
			if err != nil {
				return Value{}, err
			}
			obj[k] = item
		}
		return Object(obj), nil
	default:
		return Value{}, fmt.Errorf("unsupported JSON value %T", raw)
	}
}
