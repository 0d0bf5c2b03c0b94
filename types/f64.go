package types

import (
	"encoding/json"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// F64 is a finite float64. NaN and the infinities are rejected.
//
// The zero value is 0, which is valid.
type F64 struct {
	v float64
}

const (
	F64Min = math.SmallestNonzeroFloat64
	F64Max = math.MaxFloat64
)

// IsValidF64 reports whether v is finite.
func IsValidF64(v float64) bool {
	return isFinite(v)
}

// NewF64 validates v and returns it as an F64.
func NewF64(v float64) (F64, error) {
	if !IsValidF64(v) {
		return F64{}, invalid("f64", v)
	}
	return F64{v: v}, nil
}

// MustF64 is like NewF64 but panics on invalid input.
func MustF64(v float64) F64 {
	f, err := NewF64(v)
	if err != nil {
		panic(err)
	}
	return f
}

// Float64 returns the underlying value.
func (f F64) Float64() float64 {
	return f.v
}

func (f F64) String() string {
	return strconv.FormatFloat(f.v, 'g', -1, 64)
}

func (f F64) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.v)
}

func (f *F64) UnmarshalJSON(data []byte) error {
	raw, err := decodeJSONNumber("f64", data)
	if err != nil {
		return err
	}
	v, err := NewF64(raw)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f F64) MarshalYAML() (interface{}, error) {
	return f.v, nil
}

func (f *F64) UnmarshalYAML(node *yaml.Node) error {
	raw, err := decodeYAMLNumber("f64", node)
	if err != nil {
		return err
	}
	v, err := NewF64(raw)
	if err != nil {
		return err
	}
	*f = v
	return nil
}
