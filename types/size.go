package types

// Size represents width and height dimensions.
type Size struct {
	Width  U32 `json:"width" yaml:"width"`
	Height U32 `json:"height" yaml:"height"`
}

// NewSize validates both dimensions.
func NewSize(width, height float64) (Size, error) {
	w, err := NewU32(width)
	if err != nil {
		return Size{}, err
	}
	h, err := NewU32(height)
	if err != nil {
		return Size{}, err
	}
	return Size{Width: w, Height: h}, nil
}

// Area returns the number of pixels covered.
func (s Size) Area() uint64 {
	return uint64(s.Width) * uint64(s.Height)
}
