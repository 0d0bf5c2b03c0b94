package commands

import (
	"context"

	"github.com/kiwi-automation/kiwi/kiwi"
	"github.com/kiwi-automation/kiwi/store"
)

// AppInfoCommand loads the backend application info and keeps a copy in
// the state store.
func AppInfoCommand(ctx context.Context) *CommandResponse {
	e, err := GetEnv()
	if err != nil {
		return NewErrorResponse(err)
	}

	app := e.Kiwi.App
	if err := app.Init(ctx); err != nil {
		return NewErrorResponse(err)
	}

	state, err := stateStore()
	if err != nil {
		return NewErrorResponse(err)
	}

	st := store.AppStateFrom(app)
	if err := state.SetApp(st); err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(st)
}

type AppConfigRequest struct {
	WebsocketPort uint16 `json:"websocketPort"`
}

func AppSaveConfigCommand(ctx context.Context, req AppConfigRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		k.App.Config.App.WebsocketPort = req.WebsocketPort
		if err := k.App.SaveConfig(ctx); err != nil {
			return nil, err
		}
		return k.App.Config, nil
	})
}
