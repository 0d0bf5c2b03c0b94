package kiwi

import (
	"context"
	"fmt"

	"github.com/kiwi-automation/kiwi/types"
)

type AppConfig struct {
	App AppSection `json:"app" yaml:"app"`
}

type AppSection struct {
	WebsocketPort uint16 `json:"websocket_port" yaml:"websocket_port"`
}

// App mirrors the backend application's identity and settings.
type App struct {
	inv Invoker

	Name                  string
	Version               string
	Config                AppConfig
	RelativeImageDataPath string
}

func NewApp(inv Invoker) *App {
	return &App{inv: inv}
}

// Init loads name, version, config and image data path. It stops at the
// first failing call; fields loaded before it keep their values.
func (a *App) Init(ctx context.Context) error {
	steps := []struct {
		method string
		dest   interface{}
	}{
		{ProcGetAppName, &a.Name},
		{ProcGetAppVersion, &a.Version},
		{ProcGetAppConfig, &a.Config},
		{ProcGetRelativeImageDataPath, &a.RelativeImageDataPath},
	}

	for _, step := range steps {
		if err := call(ctx, a.inv, step.method, nil, step.dest); err != nil {
			return fmt.Errorf("failed to load app info: %w", err)
		}
	}
	return nil
}

// SaveConfig persists Config. The websocket port must be in [1, 65535].
func (a *App) SaveConfig(ctx context.Context) error {
	if _, err := types.NewPort(float64(a.Config.App.WebsocketPort)); err != nil {
		return err
	}
	return call(ctx, a.inv, ProcSaveAppConfig, map[string]interface{}{"config": a.Config}, nil)
}
