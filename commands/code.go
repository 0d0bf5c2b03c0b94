package commands

import (
	"context"

	"github.com/kiwi-automation/kiwi/kiwi"
)

type CodeResponse struct {
	Code string `json:"code"`
}

func codeResponse(code string, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return CodeResponse{Code: code}, nil
}

func FindImageCodeCommand(ctx context.Context, req kiwi.ImageCodeRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return codeResponse(k.Code.GenerateFindImageCode(ctx, req))
	})
}

func FindImagesCodeCommand(ctx context.Context, req kiwi.ImageCodeRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return codeResponse(k.Code.GenerateFindImagesCode(ctx, req))
	})
}

func FindRelativeColorsCodeCommand(ctx context.Context, req kiwi.RelativeColorsCodeRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return codeResponse(k.Code.GenerateFindRelativeColorsCode(ctx, req))
	})
}

func FindColorsCodeCommand(ctx context.Context, req kiwi.ColorsCodeRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return codeResponse(k.Code.GenerateFindColorsCode(ctx, req))
	})
}

func RecognizeTextCodeCommand(ctx context.Context, req kiwi.Region) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return codeResponse(k.Code.GenerateRecognizeTextCode(ctx, req))
	})
}
