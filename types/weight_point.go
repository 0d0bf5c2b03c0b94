package types

// WeightPoint is a match location with its confidence score.
type WeightPoint struct {
	Point  Point `json:"point" yaml:"point"`
	Weight F64   `json:"weight" yaml:"weight"`
}

func NewWeightPoint(point Point, weight float64) (WeightPoint, error) {
	w, err := NewF64(weight)
	if err != nil {
		return WeightPoint{}, err
	}
	return WeightPoint{Point: point, Weight: w}, nil
}
