package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is.
var (
	// ErrInvalid is matched by every *ValidationError.
	ErrInvalid = errors.New("invalid value")

	// ErrIndexOutOfRange is matched by every *IndexOutOfRangeError.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ValidationError is returned by constructors when a raw value violates
// the format or range rule of its kind.
type ValidationError struct {
	// Kind is the name of the validated type, e.g. "u8" or "HexColor".
	Kind string

	// Value is the offending raw input.
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Kind, e.Value)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// IndexOutOfRangeError is returned when a pixel index does not fit the
// backing byte length of an RgbaBuffer.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("pixel index %d out of bounds (buffer length %d)", e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

func invalid(kind string, value any) error {
	return &ValidationError{Kind: kind, Value: value}
}
