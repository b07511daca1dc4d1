package convert

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/mesh-intelligence/pebble/pkg/types"
)

// Probe maps a scanned column value to a Value. The value is tried as an
// integer first, then as text, then as a floating number; anything that
// matches none of them, including SQL NULL and binary data, is null.
func Probe(raw any) types.Value {
	if v, ok := probeInt(raw); ok {
		return v
	}
	if v, ok := probeText(raw); ok {
		return v
	}
	if v, ok := probeFloat(raw); ok {
		return v
	}
	return types.Null()
}

// ProbeRow builds the object for one row. raw holds the column values in the
// declared field order.
func ProbeRow(fields []string, raw []any) types.Value {
	obj := make(map[string]types.Value, len(fields))
	for i, f := range fields {
		if i < len(raw) {
			obj[f] = Probe(raw[i])
		} else {
			obj[f] = types.Null()
		}
	}
	return types.Object(obj)
}

func probeInt(raw any) (types.Value, bool) {
	switch x := raw.(type) {
	case int64:
		return types.Int(x), true
	case int:
		return types.Int(int64(x)), true
	case int32:
		return types.Int(int64(x)), true
	case int16:
		return types.Int(int64(x)), true
	case int8:
		return types.Int(int64(x)), true
	case uint32:
		return types.Int(int64(x)), true
	case uint16:
		return types.Int(int64(x)), true
	case uint8:
		return types.Int(int64(x)), true
	case uint64:
		if x <= math.MaxInt64 {
			return types.Int(int64(x)), true
		}
	case bool:
		if x {
			return types.Int(1), true
		}
		return types.Int(0), true
	}
	return types.Value{}, false
}

func probeText(raw any) (types.Value, bool) {
	switch x := raw.(type) {
	case string:
		return types.String(x), true
	case []byte:
		if utf8.Valid(x) {
			return types.String(string(x)), true
		}
	case time.Time:
		return types.String(x.Format(time.RFC3339Nano)), true
	}
	return types.Value{}, false
}

func probeFloat(raw any) (types.Value, bool) {
	switch x := raw.(type) {
	case float64:
		return types.Float(x), true
	case float32:
		return types.Float(float64(x)), true
	case uint64:
		return types.Float(float64(x)), true
	}
	return types.Value{}, false
}
