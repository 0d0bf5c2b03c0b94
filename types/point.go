package types

// Point is a screen coordinate in physical pixels.
type Point struct {
	X I32 `json:"x" yaml:"x"`
	Y I32 `json:"y" yaml:"y"`
}

// NewPoint validates both coordinates.
func NewPoint(x, y float64) (Point, error) {
	xI32, err := NewI32(x)
	if err != nil {
		return Point{}, err
	}
	yI32, err := NewI32(y)
	if err != nil {
		return Point{}, err
	}
	return Point{X: xI32, Y: yI32}, nil
}

// Clone returns a copy of p.
func (p Point) Clone() Point {
	return Point{X: p.X, Y: p.Y}
}
