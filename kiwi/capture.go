package kiwi

import (
	"context"

	"github.com/kiwi-automation/kiwi/types"
)

type Capture struct {
	inv Invoker
}

func (c *Capture) MonitorSize(ctx context.Context) (types.Size, error) {
	var size types.Size
	if err := call(ctx, c.inv, ProcGetMonitorSize, nil, &size); err != nil {
		return types.Size{}, err
	}
	return size, nil
}

// RequestFrameData asks the backend to grab a frame. The frame arrives
// later as a notification.
func (c *Capture) RequestFrameData(ctx context.Context) error {
	return call(ctx, c.inv, ProcRequestFrameData, nil, nil)
}
