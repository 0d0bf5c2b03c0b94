package types

import (
	"gopkg.in/yaml.v3"
)

// I32 is an integer in [-2147483648, 2147483647].
type I32 int32

const (
	I32Min I32 = -0x80000000
	I32Max I32 = 0x7fffffff
)

// IsValidI32 reports whether v is an integer in [I32Min, I32Max].
func IsValidI32(v float64) bool {
	return isIntegerInRange(v, float64(I32Min), float64(I32Max))
}

// NewI32 validates v and returns it as an I32.
func NewI32(v float64) (I32, error) {
	if !IsValidI32(v) {
		return 0, invalid("i32", v)
	}
	return I32(v), nil
}

// MustI32 is like NewI32 but panics on invalid input.
func MustI32(v float64) I32 {
	i, err := NewI32(v)
	if err != nil {
		panic(err)
	}
	return i
}

func (i *I32) UnmarshalJSON(data []byte) error {
	raw, err := decodeJSONNumber("i32", data)
	if err != nil {
		return err
	}
	v, err := NewI32(raw)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

func (i *I32) UnmarshalYAML(node *yaml.Node) error {
	raw, err := decodeYAMLNumber("i32", node)
	if err != nil {
		return err
	}
	v, err := NewI32(raw)
	if err != nil {
		return err
	}
	*i = v
	return nil
}
