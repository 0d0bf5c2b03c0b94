package types

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestIntegerKinds_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		isValid func(float64) bool
		value   float64
		want    bool
	}{
		{"u8 min", IsValidU8, 0, true},
		{"u8 max", IsValidU8, 255, true},
		{"u8 below", IsValidU8, -1, false},
		{"u8 above", IsValidU8, 256, false},
		{"u8 fraction", IsValidU8, 1.5, false},
		{"u8 nan", IsValidU8, math.NaN(), false},
		{"u32 max", IsValidU32, 4294967295, true},
		{"u32 above", IsValidU32, 4294967296, false},
		{"u32 negative", IsValidU32, -1, false},
		{"u32 inf", IsValidU32, math.Inf(1), false},
		{"i32 min", IsValidI32, -2147483648, true},
		{"i32 max", IsValidI32, 2147483647, true},
		{"i32 below", IsValidI32, -2147483649, false},
		{"i32 above", IsValidI32, 2147483648, false},
		{"i32 negative fraction", IsValidI32, -0.5, false},
		{"i32 -inf", IsValidI32, math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.isValid(tt.value))
		})
	}
}

func TestNewU8_ErrorNamesKindAndValue(t *testing.T) {
	_, err := NewU8(300)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "u8", verr.Kind)
	assert.Equal(t, float64(300), verr.Value)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "invalid u8: 300", err.Error())
}

func TestF64(t *testing.T) {
	for _, v := range []float64{0, -1.25, F64Min, F64Max, -F64Max} {
		f, err := NewF64(v)
		require.NoError(t, err)
		assert.Equal(t, v, f.Float64())
	}

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.False(t, IsValidF64(v))
		_, err := NewF64(v)
		assert.ErrorIs(t, err, ErrInvalid)
	}
}

func TestMustU8_Panics(t *testing.T) {
	assert.Panics(t, func() { MustU8(-1) })
	assert.NotPanics(t, func() { MustU8(7) })
}

func TestIntegerKinds_UnmarshalJSON(t *testing.T) {
	var p struct {
		A U8  `json:"a"`
		B U32 `json:"b"`
		C I32 `json:"c"`
		D F64 `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":255,"b":4294967295,"c":-5,"d":0.75}`), &p))
	assert.Equal(t, U8(255), p.A)
	assert.Equal(t, U32(4294967295), p.B)
	assert.Equal(t, I32(-5), p.C)
	assert.Equal(t, 0.75, p.D.Float64())

	var u U8
	err := json.Unmarshal([]byte(`256`), &u)
	assert.ErrorIs(t, err, ErrInvalid)

	err = json.Unmarshal([]byte(`"12"`), &u)
	assert.ErrorIs(t, err, ErrInvalid)

	var i I32
	err = json.Unmarshal([]byte(`1.5`), &i)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestIntegerKinds_UnmarshalYAML(t *testing.T) {
	var p struct {
		X I32 `yaml:"x"`
		W U32 `yaml:"w"`
		F F64 `yaml:"f"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("x: -10\nw: 20\nf: 0.5\n"), &p))
	assert.Equal(t, I32(-10), p.X)
	assert.Equal(t, U32(20), p.W)
	assert.Equal(t, 0.5, p.F.Float64())

	err := yaml.Unmarshal([]byte("w: -1\n"), &p)
	assert.Error(t, err)

	err = yaml.Unmarshal([]byte("f: .nan\n"), &p)
	assert.Error(t, err)
}

func TestF64_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(MustF64(0.25))
	require.NoError(t, err)
	assert.Equal(t, `0.25`, string(data))
}

// Property-based test: integer validity matches the closed range for every
// width and signedness.
func TestIntegerKinds_PropertyRange(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("u8 accepts exactly [0,255]", prop.ForAll(
		func(n int64) bool {
			return IsValidU8(float64(n)) == (n >= 0 && n <= 255)
		},
		gen.Int64Range(-1000, 1000),
	))

	properties.Property("u32 accepts exactly [0,4294967295]", prop.ForAll(
		func(n int64) bool {
			return IsValidU32(float64(n)) == (n >= 0 && n <= math.MaxUint32)
		},
		gen.Int64Range(-10_000_000_000, 10_000_000_000),
	))

	properties.Property("i32 accepts exactly [-2147483648,2147483647]", prop.ForAll(
		func(n int64) bool {
			return IsValidI32(float64(n)) == (n >= math.MinInt32 && n <= math.MaxInt32)
		},
		gen.Int64Range(-10_000_000_000, 10_000_000_000),
	))

	properties.Property("non-integers are never valid integers", prop.ForAll(
		func(v float64) bool {
			if math.Floor(v) == v {
				return true
			}
			return !IsValidU8(v) && !IsValidU32(v) && !IsValidI32(v)
		},
		gen.Float64Range(-300, 300),
	))

	properties.Property("every finite float is a valid f64", prop.ForAll(
		func(v float64) bool {
			return IsValidF64(v)
		},
		gen.Float64Range(-1e300, 1e300),
	))

	properties.TestingRun(t)
}
