package kiwi

import (
	"context"

	"github.com/kiwi-automation/kiwi/types"
)

type FindImageRequest struct {
	Origin   types.Base64Png `json:"origin"`
	Template types.Base64Png `json:"template"`
	Region
	Threshold types.F64 `json:"threshold"`
}

func (r FindImageRequest) Validate() error {
	if err := validateOrigin("origin", r.Origin); err != nil {
		return err
	}
	if err := validateOrigin("template", r.Template); err != nil {
		return err
	}
	if err := r.Region.Validate(); err != nil {
		return err
	}
	return validateThreshold(r.Threshold)
}

type FindImagesRequest struct {
	FindImageRequest
	TemplateSize types.Size `json:"templateSize"`
}

type FindRelativeColorsRequest struct {
	Origin         types.Base64Png      `json:"origin"`
	VertexHex      types.HexColor       `json:"vertexHex"`
	RelativePoints []types.ColoredPoint `json:"relativePoints"`
	Region
	RgbOffset types.RgbColor `json:"rgbOffset"`
}

func (r FindRelativeColorsRequest) Validate() error {
	if err := validateOrigin("origin", r.Origin); err != nil {
		return err
	}
	if err := validateHex(r.VertexHex); err != nil {
		return err
	}
	if err := validateColoredPoints(r.RelativePoints); err != nil {
		return err
	}
	return r.Region.Validate()
}

type FindColorsRequest struct {
	Origin    types.Base64Png  `json:"origin"`
	HexColors []types.HexColor `json:"hexColors"`
	Region
	RgbOffset types.RgbColor `json:"rgbOffset"`
}

func (r FindColorsRequest) Validate() error {
	if err := validateOrigin("origin", r.Origin); err != nil {
		return err
	}
	if err := validateHexColors(r.HexColors); err != nil {
		return err
	}
	return r.Region.Validate()
}

type RecognizeTextRequest struct {
	Origin types.Base64Png `json:"origin"`
	Region
}

func (r RecognizeTextRequest) Validate() error {
	if err := validateOrigin("origin", r.Origin); err != nil {
		return err
	}
	return r.Region.Validate()
}

// Frame runs searches over a captured frame.
type Frame struct {
	inv Invoker
}

// FindImage returns the best match of the template, or nil when nothing
// scores above the threshold.
func (f *Frame) FindImage(ctx context.Context, req FindImageRequest) (*types.WeightPoint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var wp *types.WeightPoint
	if err := call(ctx, f.inv, ProcFindImage, req, &wp); err != nil {
		return nil, err
	}
	return wp, nil
}

func (f *Frame) FindImages(ctx context.Context, req FindImagesRequest) ([]types.WeightPoint, error) {
	if err := req.FindImageRequest.Validate(); err != nil {
		return nil, err
	}
	var wps []types.WeightPoint
	if err := call(ctx, f.inv, ProcFindImages, req, &wps); err != nil {
		return nil, err
	}
	if wps == nil {
		wps = []types.WeightPoint{}
	}
	return wps, nil
}

// FindRelativeColors returns the vertex location whose neighbours match
// every relative point, or nil.
func (f *Frame) FindRelativeColors(ctx context.Context, req FindRelativeColorsRequest) (*types.ColoredPoint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var cp *types.ColoredPoint
	if err := call(ctx, f.inv, ProcFindRelativeColors, req, &cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (f *Frame) FindColors(ctx context.Context, req FindColorsRequest) ([]types.ColoredPoint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var cps []types.ColoredPoint
	if err := call(ctx, f.inv, ProcFindColors, req, &cps); err != nil {
		return nil, err
	}
	if cps == nil {
		cps = []types.ColoredPoint{}
	}
	return cps, nil
}

func (f *Frame) RecognizeText(ctx context.Context, req RecognizeTextRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	var text string
	if err := call(ctx, f.inv, ProcRecognizeText, req, &text); err != nil {
		return "", err
	}
	return text, nil
}
