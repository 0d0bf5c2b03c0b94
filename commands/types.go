package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kiwi-automation/kiwi/types"
)

// ValidateRequest names a validated kind and a raw value to check.
type ValidateRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type ValidateResponse struct {
	Kind  string      `json:"kind"`
	Valid bool        `json:"valid"`
	Value interface{} `json:"value,omitempty"`
	Error string      `json:"error,omitempty"`
}

// ValidationKinds lists the kinds accepted by ValidateCommand.
var ValidationKinds = []string{"u8", "u32", "i32", "f64", "hex", "base64png", "port"}

// ValidateCommand runs the factory of req.Kind on req.Value. An invalid
// value is a successful response with Valid set to false.
func ValidateCommand(req ValidateRequest) *CommandResponse {
	kind := strings.ToLower(req.Kind)

	var value interface{}
	var err error
	switch kind {
	case "u8", "u32", "i32", "f64", "port":
		var n float64
		n, err = strconv.ParseFloat(strings.TrimSpace(req.Value), 64)
		if err != nil {
			err = fmt.Errorf("not a number: %s", req.Value)
			break
		}
		value, err = validateNumber(kind, n)
	case "hex":
		value, err = types.NewHexColor(req.Value)
	case "base64png":
		value, err = types.NewBase64Png(req.Value)
	default:
		return NewErrorResponse(fmt.Errorf("unknown kind '%s'. Supported kinds are: %s", req.Kind, strings.Join(ValidationKinds, ", ")))
	}

	resp := ValidateResponse{Kind: kind, Valid: err == nil}
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Value = value
	}
	return NewSuccessResponse(resp)
}

func validateNumber(kind string, n float64) (interface{}, error) {
	switch kind {
	case "u8":
		return types.NewU8(n)
	case "u32":
		return types.NewU32(n)
	case "i32":
		return types.NewI32(n)
	case "port":
		return types.NewPort(n)
	default:
		return types.NewF64(n)
	}
}

func HexRandomCommand() *CommandResponse {
	return NewSuccessResponse(types.RandomHexColor())
}

type RgbRequest struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

func HexFromRgbCommand(req RgbRequest) *CommandResponse {
	c, err := types.NewRgbColor(req.R, req.G, req.B)
	if err != nil {
		return NewErrorResponse(err)
	}
	return respond(types.HexColorFromRgb(c))
}

type HexRequest struct {
	Hex string `json:"hex"`
}

type HexInfo struct {
	Hex      types.HexColor `json:"hex"`
	Rgb      types.RgbColor `json:"rgb"`
	Value    uint32         `json:"value"`
	HasAlpha bool           `json:"hasAlpha"`
}

func HexToRgbCommand(req HexRequest) *CommandResponse {
	h, err := types.NewHexColor(req.Hex)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(HexInfo{Hex: h, Rgb: h.Rgb(), Value: h.Uint32(), HasAlpha: h.HasAlpha()})
}

type RgbaPixelRequest struct {
	Data  types.RgbaBuffer `json:"data"`
	Index int              `json:"index"`
}

type RgbaPixel struct {
	Index int      `json:"index"`
	R     types.U8 `json:"r"`
	G     types.U8 `json:"g"`
	B     types.U8 `json:"b"`
	A     types.U8 `json:"a"`
}

func RgbaPixelCommand(req RgbaPixelRequest) *CommandResponse {
	r, g, b, a, err := req.Data.Pixel(req.Index)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(RgbaPixel{Index: req.Index, R: r, G: g, B: b, A: a})
}
