package types

import (
	"encoding/json"
	"fmt"
)

// BytesPerPixel is the width of one RGBA pixel.
const BytesPerPixel = 4

// RgbaBuffer is a byte sequence holding whole RGBA pixels.
type RgbaBuffer struct {
	b []byte
}

// IsValidRgbaBuffer reports whether data holds a whole number of pixels.
// An empty buffer is valid.
func IsValidRgbaBuffer(data []byte) bool {
	return len(data)%BytesPerPixel == 0
}

// NewRgbaBuffer validates data and returns a buffer holding a copy of it.
func NewRgbaBuffer(data []byte) (RgbaBuffer, error) {
	if !IsValidRgbaBuffer(data) {
		return RgbaBuffer{}, invalid("rgba buffer", fmt.Sprintf("length %d is not a multiple of %d", len(data), BytesPerPixel))
	}
	return RgbaBuffer{b: append([]byte(nil), data...)}, nil
}

// MustRgbaBuffer is like NewRgbaBuffer but panics on invalid input.
func MustRgbaBuffer(data []byte) RgbaBuffer {
	buf, err := NewRgbaBuffer(data)
	if err != nil {
		panic(err)
	}
	return buf
}

// Len returns the length in bytes.
func (r RgbaBuffer) Len() int {
	return len(r.b)
}

// PixelCount returns the number of pixels.
func (r RgbaBuffer) PixelCount() int {
	return len(r.b) / BytesPerPixel
}

// Pixel returns the channels of the pixel at index. The whole pixel must
// fit in the buffer.
func (r RgbaBuffer) Pixel(index int) (red, green, blue, alpha U8, err error) {
	if index < 0 || index >= r.PixelCount() {
		return 0, 0, 0, 0, &IndexOutOfRangeError{Index: index, Len: len(r.b)}
	}
	offset := index * BytesPerPixel
	return U8(r.b[offset]), U8(r.b[offset+1]), U8(r.b[offset+2]), U8(r.b[offset+3]), nil
}

// Bytes returns a copy of the underlying bytes.
func (r RgbaBuffer) Bytes() []byte {
	return append([]byte(nil), r.b...)
}

func (r RgbaBuffer) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.b)
}

func (r *RgbaBuffer) UnmarshalJSON(data []byte) error {
	var raw []byte
	if err := json.Unmarshal(data, &raw); err != nil {
		return invalid("rgba buffer", err.Error())
	}
	v, err := NewRgbaBuffer(raw)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
