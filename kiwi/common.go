package kiwi

import (
	"context"

	"github.com/kiwi-automation/kiwi/types"
)

type Common struct {
	inv Invoker
}

func (c *Common) PathExists(ctx context.Context, path string) (bool, error) {
	var exists bool
	if err := call(ctx, c.inv, ProcPathExists, map[string]interface{}{"path": path}, &exists); err != nil {
		return false, err
	}
	return exists, nil
}

// XattrPython clears the macOS quarantine attribute of the bundled
// interpreter.
func (c *Common) XattrPython(ctx context.Context) error {
	return call(ctx, c.inv, ProcXattrPython, nil, nil)
}

// ProtectWindows hides the given windows from screen capture.
func (c *Common) ProtectWindows(ctx context.Context, windows ...types.WindowLabel) error {
	if err := validateWindows(windows); err != nil {
		return err
	}
	return call(ctx, c.inv, ProcProtectWindows, map[string]interface{}{"windows": windows}, nil)
}

func (c *Common) UnprotectWindows(ctx context.Context, windows ...types.WindowLabel) error {
	if err := validateWindows(windows); err != nil {
		return err
	}
	return call(ctx, c.inv, ProcUnprotectWindows, map[string]interface{}{"windows": windows}, nil)
}

func (c *Common) OpenWebsocket(ctx context.Context, port types.Port) error {
	if err := validatePort(port); err != nil {
		return err
	}
	return call(ctx, c.inv, ProcOpenWebsocket, map[string]interface{}{"port": port}, nil)
}

func (c *Common) ShutdownWebsocket(ctx context.Context) error {
	return call(ctx, c.inv, ProcShutdownWebsocket, nil, nil)
}

func (c *Common) IsWebsocketAlive(ctx context.Context, port types.Port) (bool, error) {
	if err := validatePort(port); err != nil {
		return false, err
	}
	var alive bool
	if err := call(ctx, c.inv, ProcIsWebsocketAlive, map[string]interface{}{"port": port}, &alive); err != nil {
		return false, err
	}
	return alive, nil
}

func validateWindows(windows []types.WindowLabel) error {
	for _, w := range windows {
		if _, err := types.ParseWindowLabel(string(w)); err != nil {
			return err
		}
	}
	return nil
}

func validatePort(port types.Port) error {
	_, err := types.NewPort(float64(port))
	return err
}
