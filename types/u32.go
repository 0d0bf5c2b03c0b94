package types

import (
	"gopkg.in/yaml.v3"
)

// U32 is an integer in [0, 4294967295].
type U32 uint32

const (
	U32Min U32 = 0
	U32Max U32 = 0xffffffff
)

// IsValidU32 reports whether v is an integer in [U32Min, U32Max].
func IsValidU32(v float64) bool {
	return isIntegerInRange(v, float64(U32Min), float64(U32Max))
}

// NewU32 validates v and returns it as a U32.
func NewU32(v float64) (U32, error) {
	if !IsValidU32(v) {
		return 0, invalid("u32", v)
	}
	return U32(v), nil
}

// MustU32 is like NewU32 but panics on invalid input.
func MustU32(v float64) U32 {
	u, err := NewU32(v)
	if err != nil {
		panic(err)
	}
	return u
}

func (u *U32) UnmarshalJSON(data []byte) error {
	raw, err := decodeJSONNumber("u32", data)
	if err != nil {
		return err
	}
	v, err := NewU32(raw)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (u *U32) UnmarshalYAML(node *yaml.Node) error {
	raw, err := decodeYAMLNumber("u32", node)
	if err != nil {
		return err
	}
	v, err := NewU32(raw)
	if err != nil {
		return err
	}
	*u = v
	return nil
}
