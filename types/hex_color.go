package types

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// hexColorRegexp accepts #RRGGBB and #RRGGBBAA in either case.
var hexColorRegexp = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// HexColor is a color string in the form #RRGGBB or #RRGGBBAA.
//
// The zero value holds no color and String returns "". It encodes as null
// in JSON and YAML, and null decodes back to it. Use NewHexColor,
// HexColorFromRgb or RandomHexColor to obtain a usable value.
type HexColor struct {
	s string
}

// IsValidHexColor reports whether s is #RRGGBB or #RRGGBBAA.
func IsValidHexColor(s string) bool {
	return hexColorRegexp.MatchString(s)
}

// NewHexColor validates s and returns it as a HexColor. The original
// casing is kept.
func NewHexColor(s string) (HexColor, error) {
	if !IsValidHexColor(s) {
		return HexColor{}, invalid("hex color", s)
	}
	return HexColor{s: s}, nil
}

// MustHexColor is like NewHexColor but panics on invalid input.
func MustHexColor(s string) HexColor {
	h, err := NewHexColor(s)
	if err != nil {
		panic(err)
	}
	return h
}

// HexColorFromRgb formats c as a lowercase #rrggbb string.
func HexColorFromRgb(c RgbColor) (HexColor, error) {
	return NewHexColor(fmt.Sprintf("#%02x%02x%02x", uint8(c.R), uint8(c.G), uint8(c.B)))
}

// RandomHexColor returns a uniformly random opaque color. Not suitable for
// anything security related.
func RandomHexColor() HexColor {
	return HexColor{s: fmt.Sprintf("#%06x", rand.IntN(0x1000000))}
}

func (h HexColor) String() string {
	return h.s
}

// IsZero reports whether h was never assigned a color.
func (h HexColor) IsZero() bool {
	return h.s == ""
}

// HasAlpha reports whether h carries the optional alpha channel.
func (h HexColor) HasAlpha() bool {
	return len(h.s) == 9
}

// Rgb returns the red, green and blue channels; alpha is ignored. The zero
// HexColor yields black.
func (h HexColor) Rgb() RgbColor {
	if h.IsZero() {
		return RgbColor{}
	}
	return RgbColor{
		R: U8(parseHexByte(h.s[1:3])),
		G: U8(parseHexByte(h.s[3:5])),
		B: U8(parseHexByte(h.s[5:7])),
	}
}

// Uint32 returns the numeric value of every hex digit after '#', so
// "#ff0010" is 0xff0010 and "#ff001080" is 0xff001080.
func (h HexColor) Uint32() uint32 {
	if h.IsZero() {
		return 0
	}
	v, _ := strconv.ParseUint(h.s[1:], 16, 32)
	return uint32(v)
}

// parseHexByte decodes two hex digits already checked by hexColorRegexp.
func parseHexByte(s string) uint8 {
	v, _ := strconv.ParseUint(s, 16, 8)
	return uint8(v)
}

func (h HexColor) MarshalJSON() ([]byte, error) {
	if h.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(h.s)
}

func (h *HexColor) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*h = HexColor{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return invalid("hex color", string(data))
	}
	v, err := NewHexColor(raw)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func (h HexColor) MarshalYAML() (interface{}, error) {
	if h.IsZero() {
		return nil, nil
	}
	return h.s, nil
}

func (h *HexColor) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		*h = HexColor{}
		return nil
	}
	v, err := NewHexColor(node.Value)
	if err != nil {
		return err
	}
	*h = v
	return nil
}
