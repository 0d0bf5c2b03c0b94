package commands

import (
	"context"

	"github.com/kiwi-automation/kiwi/kiwi"
	"github.com/kiwi-automation/kiwi/types"
)

type PathRequest struct {
	Path string `json:"path"`
}

type WindowsRequest struct {
	Windows []types.WindowLabel `json:"windows"`
}

type PortRequest struct {
	Port types.Port `json:"port"`
}

func PathExistsCommand(ctx context.Context, req PathRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		exists, err := k.Common.PathExists(ctx, req.Path)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"path": req.Path, "exists": exists}, nil
	})
}

func XattrPythonCommand(ctx context.Context) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Common.XattrPython(ctx))
	})
}

func ProtectWindowsCommand(ctx context.Context, req WindowsRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Common.ProtectWindows(ctx, req.Windows...))
	})
}

func UnprotectWindowsCommand(ctx context.Context, req WindowsRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Common.UnprotectWindows(ctx, req.Windows...))
	})
}

func OpenWebsocketCommand(ctx context.Context, req PortRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Common.OpenWebsocket(ctx, req.Port))
	})
}

func ShutdownWebsocketCommand(ctx context.Context) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Common.ShutdownWebsocket(ctx))
	})
}

func IsWebsocketAliveCommand(ctx context.Context, req PortRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		alive, err := k.Common.IsWebsocketAlive(ctx, req.Port)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"port": req.Port, "alive": alive}, nil
	})
}
