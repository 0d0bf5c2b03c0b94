package commands

import (
	"context"

	"github.com/kiwi-automation/kiwi/kiwi"
)

func MonitorSizeCommand(ctx context.Context) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return k.Capture.MonitorSize(ctx)
	})
}

func RequestFrameCommand(ctx context.Context) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Capture.RequestFrameData(ctx))
	})
}
