package types

// ColoredPoint is a sampled or matched location with its color.
type ColoredPoint struct {
	Point Point    `json:"point" yaml:"point"`
	Hex   HexColor `json:"hex" yaml:"hex"`
}

func NewColoredPoint(point Point, hex string) (ColoredPoint, error) {
	h, err := NewHexColor(hex)
	if err != nil {
		return ColoredPoint{}, err
	}
	return ColoredPoint{Point: point, Hex: h}, nil
}
