package cli

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/kiwi-automation/kiwi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		want    []float64
		wantErr bool
	}{
		{"comma separated", "1,2,3", 3, []float64{1, 2, 3}, false},
		{"size form", "640x480", 2, []float64{640, 480}, false},
		{"spaces", " 1 , 2 ", 2, []float64{1, 2}, false},
		{"too few", "1,2", 3, nil, true},
		{"not a number", "1,a", 2, nil, true},
		{"empty", "", 2, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseNumbers(tt.input, tt.n, "test")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRegion(t *testing.T) {
	r, err := parseRegion("10,20,30,40")
	require.NoError(t, err)
	assert.Equal(t, types.Point{X: 10, Y: 20}, r.Start)
	assert.Equal(t, types.Point{X: 30, Y: 40}, r.End)

	_, err = parseRegion("10,20,30")
	assert.Error(t, err)

	_, err = parseRegion("1.5,0,1,1")
	assert.Error(t, err)
}

func TestParseSizeAndPoint(t *testing.T) {
	s, err := parseSize("64x32")
	require.NoError(t, err)
	assert.Equal(t, types.Size{Width: 64, Height: 32}, s)

	_, err = parseSize("-1x2")
	assert.Error(t, err)

	p, err := parsePoint("-5,7")
	require.NoError(t, err)
	assert.Equal(t, types.Point{X: -5, Y: 7}, p)
}

func TestParseRgbOffset(t *testing.T) {
	c, err := parseRgbOffset("")
	require.NoError(t, err)
	assert.Equal(t, types.RgbColor{}, c)

	c, err = parseRgbOffset("5,10,15")
	require.NoError(t, err)
	assert.Equal(t, types.RgbColor{R: 5, G: 10, B: 15}, c)

	_, err = parseRgbOffset("5,10,300")
	assert.Error(t, err)
}

func TestParseColoredPoints(t *testing.T) {
	points, err := parseColoredPoints([]string{"1,2,#ff0000", "-3,4, #00FF00"})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, types.Point{X: 1, Y: 2}, points[0].Point)
	assert.Equal(t, "#ff0000", points[0].Hex.String())
	assert.Equal(t, types.Point{X: -3, Y: 4}, points[1].Point)
	assert.Equal(t, "#00FF00", points[1].Hex.String())

	_, err = parseColoredPoints([]string{"1,2"})
	assert.Error(t, err)

	_, err = parseColoredPoints([]string{"#ff0000"})
	assert.Error(t, err)
}

func TestParseHexColors(t *testing.T) {
	colors, err := parseHexColors([]string{"#000000", "#ffffffaa"})
	require.NoError(t, err)
	assert.Len(t, colors, 2)

	_, err = parseHexColors([]string{"red"})
	assert.Error(t, err)
}

func TestLoadPng(t *testing.T) {
	data := pngBytes(t, 3, 2)
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	fromFile, err := loadPng(path)
	require.NoError(t, err)

	dataURL, err := types.Base64PngFromBytes(data)
	require.NoError(t, err)
	fromURL, err := loadPng(dataURL.String())
	require.NoError(t, err)
	assert.Equal(t, fromFile, fromURL)

	_, err = loadPng("")
	assert.Error(t, err)

	_, err = loadPng(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestRegionFor(t *testing.T) {
	origin, err := types.Base64PngFromBytes(pngBytes(t, 3, 2))
	require.NoError(t, err)

	r, err := regionFor("", origin)
	require.NoError(t, err)
	assert.Equal(t, types.Point{}, r.Start)
	assert.Equal(t, types.Point{X: 2, Y: 1}, r.End)

	r, err = regionFor("1,1,2,2", origin)
	require.NoError(t, err)
	assert.Equal(t, types.Point{X: 1, Y: 1}, r.Start)
}

func TestJSONToYAML(t *testing.T) {
	out, err := jsonToYAML([]byte(`{"status":"ok","data":{"size":[1,2]}}`))
	require.NoError(t, err)

	assert.NotContains(t, string(out), "{")
	assert.NotContains(t, string(out), "\"")
	assert.True(t, bytes.HasPrefix(out, []byte("status: ok\n")))

	var back map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "ok", back["status"])
	assert.Equal(t, map[string]interface{}{"size": []interface{}{1, 2}}, back["data"])
}

func TestWindowsAndPortRequests(t *testing.T) {
	req, err := windowsRequest([]string{"main", "monitor"})
	require.NoError(t, err)
	assert.Equal(t, []types.WindowLabel{types.WindowMain, types.WindowMonitor}, req.Windows)

	_, err = windowsRequest([]string{"settings"})
	assert.Error(t, err)

	port, err := portRequest("8080")
	require.NoError(t, err)
	assert.Equal(t, types.Port(8080), port.Port)

	for _, bad := range []string{"0", "70000", "http"} {
		_, err = portRequest(bad)
		assert.Error(t, err, bad)
	}
}
