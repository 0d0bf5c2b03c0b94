package types

// RgbColor is an opaque 8-bit color. It doubles as a per-channel tolerance
// ("rgb offset") in color search requests.
type RgbColor struct {
	R U8 `json:"r" yaml:"r"`
	G U8 `json:"g" yaml:"g"`
	B U8 `json:"b" yaml:"b"`
}

// NewRgbColor validates each channel.
func NewRgbColor(r, g, b float64) (RgbColor, error) {
	rU8, err := NewU8(r)
	if err != nil {
		return RgbColor{}, err
	}
	gU8, err := NewU8(g)
	if err != nil {
		return RgbColor{}, err
	}
	bU8, err := NewU8(b)
	if err != nil {
		return RgbColor{}, err
	}
	return RgbColor{R: rU8, G: gU8, B: bU8}, nil
}

// Hex returns c as a lowercase #rrggbb color.
func (c RgbColor) Hex() HexColor {
	// every U8 triple formats to a valid color
	h, _ := HexColorFromRgb(c)
	return h
}
