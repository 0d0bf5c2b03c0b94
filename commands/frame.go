package commands

import (
	"context"

	"github.com/kiwi-automation/kiwi/kiwi"
)

func FindImageCommand(ctx context.Context, req kiwi.FindImageRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return k.Frame.FindImage(ctx, req)
	})
}

func FindImagesCommand(ctx context.Context, req kiwi.FindImagesRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return k.Frame.FindImages(ctx, req)
	})
}

func FindRelativeColorsCommand(ctx context.Context, req kiwi.FindRelativeColorsRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return k.Frame.FindRelativeColors(ctx, req)
	})
}

func FindColorsCommand(ctx context.Context, req kiwi.FindColorsRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return k.Frame.FindColors(ctx, req)
	})
}

func RecognizeTextCommand(ctx context.Context, req kiwi.RecognizeTextRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		text, err := k.Frame.RecognizeText(ctx, req)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"text": text}, nil
	})
}
