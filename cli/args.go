package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kiwi-automation/kiwi/imaging"
	"github.com/kiwi-automation/kiwi/kiwi"
	"github.com/kiwi-automation/kiwi/types"
)

// parseNumbers splits s on commas (or "x" for sizes) into n floats.
func parseNumbers(s string, n int, what string) ([]float64, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == 'x' })
	if len(parts) != n {
		return nil, fmt.Errorf("invalid %s format. Expected %d numbers, got '%s'", what, n, s)
	}

	values := make([]float64, n)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value '%s'", what, part)
		}
		values[i] = v
	}
	return values, nil
}

// parsePoint accepts "x,y".
func parsePoint(s string) (types.Point, error) {
	v, err := parseNumbers(s, 2, "point")
	if err != nil {
		return types.Point{}, err
	}
	return types.NewPoint(v[0], v[1])
}

// parseSize accepts "WxH" or "W,H".
func parseSize(s string) (types.Size, error) {
	v, err := parseNumbers(s, 2, "size")
	if err != nil {
		return types.Size{}, err
	}
	return types.NewSize(v[0], v[1])
}

// parseRegion accepts "x1,y1,x2,y2".
func parseRegion(s string) (kiwi.Region, error) {
	v, err := parseNumbers(s, 4, "region")
	if err != nil {
		return kiwi.Region{}, err
	}
	start, err := types.NewPoint(v[0], v[1])
	if err != nil {
		return kiwi.Region{}, err
	}
	end, err := types.NewPoint(v[2], v[3])
	if err != nil {
		return kiwi.Region{}, err
	}
	return kiwi.Region{Start: start, End: end}, nil
}

// parseRgbOffset accepts "r,g,b". An empty string is no tolerance.
func parseRgbOffset(s string) (types.RgbColor, error) {
	if s == "" {
		return types.RgbColor{}, nil
	}
	v, err := parseNumbers(s, 3, "rgb offset")
	if err != nil {
		return types.RgbColor{}, err
	}
	return types.NewRgbColor(v[0], v[1], v[2])
}

// parseColoredPoint accepts "x,y,#rrggbb".
func parseColoredPoint(s string) (types.ColoredPoint, error) {
	i := strings.LastIndex(s, ",")
	if i < 0 {
		return types.ColoredPoint{}, fmt.Errorf("invalid colored point format. Expected 'x,y,#rrggbb', got '%s'", s)
	}
	p, err := parsePoint(s[:i])
	if err != nil {
		return types.ColoredPoint{}, err
	}
	return types.NewColoredPoint(p, strings.TrimSpace(s[i+1:]))
}

func parseColoredPoints(specs []string) ([]types.ColoredPoint, error) {
	points := make([]types.ColoredPoint, 0, len(specs))
	for _, spec := range specs {
		p, err := parseColoredPoint(spec)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func parseHexColors(values []string) ([]types.HexColor, error) {
	colors := make([]types.HexColor, 0, len(values))
	for _, v := range values {
		h, err := types.NewHexColor(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		colors = append(colors, h)
	}
	return colors, nil
}

// loadPng reads a PNG file, or takes a data URL as is.
func loadPng(pathOrURL string) (types.Base64Png, error) {
	if pathOrURL == "" {
		return types.Base64Png{}, fmt.Errorf("an image is required")
	}
	if strings.HasPrefix(pathOrURL, types.Base64PngPrefix) {
		return types.NewBase64Png(pathOrURL)
	}

	data, err := os.ReadFile(pathOrURL)
	if err != nil {
		return types.Base64Png{}, fmt.Errorf("failed to read image: %w", err)
	}
	return types.Base64PngFromBytes(data)
}

// regionFor parses spec, or covers the whole of origin when spec is empty.
func regionFor(spec string, origin types.Base64Png) (kiwi.Region, error) {
	if spec != "" {
		return parseRegion(spec)
	}

	size, err := imaging.Size(origin)
	if err != nil {
		return kiwi.Region{}, err
	}
	if size.Width == 0 || size.Height == 0 {
		return kiwi.Region{}, fmt.Errorf("image is empty")
	}
	return kiwi.Region{
		End: types.Point{X: types.I32(size.Width - 1), Y: types.I32(size.Height - 1)},
	}, nil
}
