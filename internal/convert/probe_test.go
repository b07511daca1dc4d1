package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pebble/pkg/types"
)

func TestProbe(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want types.Value
	}{
		{"integer", int64(42), types.Int(42)},
		{"small integer", int32(-3), types.Int(-3)},
		{"bool as integer", true, types.Int(1)},
		{"text", "hello", types.String("hello")},
		{"utf-8 bytes", []byte("héllo"), types.String("héllo")},
		{"binary bytes", []byte{0xff, 0xfe}, types.Null()},
		{"time as text", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), types.String("2024-01-02T03:04:05Z")},
		{"float", 2.5, types.Float(2.5)},
		{"float32", float32(0.5), types.Float(0.5)},
		{"huge unsigned falls to float", uint64(1 << 63), types.Float(float64(uint64(1 << 63)))},
		{"null", nil, types.Null()},
		{"unknown type", struct{}{}, types.Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Probe(tt.raw)
			assert.Equal(t, tt.want.Kind(), got.Kind())
			assert.True(t, tt.want.Equal(got), "got %s", got.Text())
		})
	}
}

func TestProbeRowIsPositional(t *testing.T) {
	row := ProbeRow([]string{"id", "name", "cost"}, []any{int64(1), "Iron Branch", "50"})

	id, ok := row.Get("id")
	require.True(t, ok)
	assert.True(t, id.Equal(types.Int(1)))

	cost, ok := row.Get("cost")
	require.True(t, ok)
	assert.True(t, cost.Equal(types.String("50")), "text columns stay text until decoded")

	short := ProbeRow([]string{"id", "name"}, []any{int64(1)})
	name, ok := short.Get("name")
	require.True(t, ok)
	assert.True(t, name.IsNull())
}
