package kiwi

import (
	"fmt"

	"github.com/kiwi-automation/kiwi/types"
)

// Region is the search area of a frame request, inclusive of both corners.
type Region struct {
	Start types.Point `json:"startPoint"`
	End   types.Point `json:"endPoint"`
}

func (r Region) Validate() error {
	if r.Start.X > r.End.X || r.Start.Y > r.End.Y {
		return &types.ValidationError{
			Kind:  "region",
			Value: fmt.Sprintf("(%d,%d)-(%d,%d)", r.Start.X, r.Start.Y, r.End.X, r.End.Y),
		}
	}
	return nil
}

func validateThreshold(t types.F64) error {
	if v := t.Float64(); v < 0 || v > 1 {
		return &types.ValidationError{Kind: "threshold", Value: v}
	}
	return nil
}

func validateOrigin(name string, b types.Base64Png) error {
	if b.IsZero() {
		return &types.ValidationError{Kind: "base64 png", Value: name + " is empty"}
	}
	return nil
}

func validateHex(h types.HexColor) error {
	if h.IsZero() {
		return &types.ValidationError{Kind: "hex color", Value: "empty"}
	}
	return nil
}

func validateColoredPoints(points []types.ColoredPoint) error {
	for _, p := range points {
		if err := validateHex(p.Hex); err != nil {
			return err
		}
	}
	return nil
}

func validateHexColors(colors []types.HexColor) error {
	if len(colors) == 0 {
		return &types.ValidationError{Kind: "hex colors", Value: "none given"}
	}
	for _, h := range colors {
		if err := validateHex(h); err != nil {
			return err
		}
	}
	return nil
}
