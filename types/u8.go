package types

import (
	"gopkg.in/yaml.v3"
)

// U8 is an integer in [0, 255].
type U8 uint8

const (
	U8Min U8 = 0
	U8Max U8 = 0xff
)

// IsValidU8 reports whether v is an integer in [U8Min, U8Max].
func IsValidU8(v float64) bool {
	return isIntegerInRange(v, float64(U8Min), float64(U8Max))
}

// NewU8 validates v and returns it as a U8.
func NewU8(v float64) (U8, error) {
	if !IsValidU8(v) {
		return 0, invalid("u8", v)
	}
	return U8(v), nil
}

// MustU8 is like NewU8 but panics on invalid input.
func MustU8(v float64) U8 {
	u, err := NewU8(v)
	if err != nil {
		panic(err)
	}
	return u
}

func (u *U8) UnmarshalJSON(data []byte) error {
	raw, err := decodeJSONNumber("u8", data)
	if err != nil {
		return err
	}
	v, err := NewU8(raw)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (u *U8) UnmarshalYAML(node *yaml.Node) error {
	raw, err := decodeYAMLNumber("u8", node)
	if err != nil {
		return err
	}
	v, err := NewU8(raw)
	if err != nil {
		return err
	}
	*u = v
	return nil
}
