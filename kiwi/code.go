package kiwi

import (
	"context"
	"strings"

	"github.com/kiwi-automation/kiwi/types"
)

type ImageCodeRequest struct {
	Subpath string `json:"subpath"`
	Region
	Threshold types.F64 `json:"threshold"`
}

func (r ImageCodeRequest) Validate() error {
	if strings.TrimSpace(r.Subpath) == "" {
		return &types.ValidationError{Kind: "subpath", Value: r.Subpath}
	}
	if err := r.Region.Validate(); err != nil {
		return err
	}
	return validateThreshold(r.Threshold)
}

type RelativeColorsCodeRequest struct {
	VertexHex      types.HexColor       `json:"vertexHex"`
	RelativePoints []types.ColoredPoint `json:"relativePoints"`
	Region
	RgbOffset types.RgbColor `json:"rgbOffset"`
}

func (r RelativeColorsCodeRequest) Validate() error {
	if err := validateHex(r.VertexHex); err != nil {
		return err
	}
	if err := validateColoredPoints(r.RelativePoints); err != nil {
		return err
	}
	return r.Region.Validate()
}

type ColorsCodeRequest struct {
	HexColors []types.HexColor `json:"hexColors"`
	Region
	RgbOffset types.RgbColor `json:"rgbOffset"`
}

func (r ColorsCodeRequest) Validate() error {
	if err := validateHexColors(r.HexColors); err != nil {
		return err
	}
	return r.Region.Validate()
}

// Code generates script snippets in the open project's language.
type Code struct {
	inv Invoker
}

func (c *Code) generate(ctx context.Context, method string, args interface{}) (string, error) {
	var code string
	if err := call(ctx, c.inv, method, args, &code); err != nil {
		return "", err
	}
	return code, nil
}

func (c *Code) GenerateFindImageCode(ctx context.Context, req ImageCodeRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return c.generate(ctx, ProcGenerateFindImageCode, req)
}

func (c *Code) GenerateFindImagesCode(ctx context.Context, req ImageCodeRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return c.generate(ctx, ProcGenerateFindImagesCode, req)
}

func (c *Code) GenerateFindRelativeColorsCode(ctx context.Context, req RelativeColorsCodeRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return c.generate(ctx, ProcGenerateFindRelativeColorsCode, req)
}

func (c *Code) GenerateFindColorsCode(ctx context.Context, req ColorsCodeRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return c.generate(ctx, ProcGenerateFindColorsCode, req)
}

func (c *Code) GenerateRecognizeTextCode(ctx context.Context, region Region) (string, error) {
	if err := region.Validate(); err != nil {
		return "", err
	}
	return c.generate(ctx, ProcGenerateRecognizeTextCode, region)
}
