package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kiwi-automation/kiwi/config"
	"github.com/kiwi-automation/kiwi/kiwi"
	"github.com/kiwi-automation/kiwi/store"
	"github.com/kiwi-automation/kiwi/types"
)

type ProjectSaveRequest struct {
	Name     string         `json:"name"`
	Language types.Language `json:"language"`
	Path     string         `json:"path"`
}

type ImageRequest struct {
	Name     string          `json:"name"`
	DataPath string          `json:"dataPath,omitempty"`
	Data     types.Base64Png `json:"data,omitempty"`
}

type VerifyResponse struct {
	Path   string             `json:"path"`
	Status types.VerifyStatus `json:"status"`
}

func ProjectSaveCommand(ctx context.Context, req ProjectSaveRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Project.Save(ctx, req.Name, req.Language, req.Path))
	})
}

func ProjectInitCommand(ctx context.Context, req PathRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Project.Init(ctx, req.Path))
	})
}

func ProjectReinitCommand(ctx context.Context, req PathRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Project.Reinit(ctx, req.Path))
	})
}

func ProjectVerifyCommand(ctx context.Context, req PathRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		status, err := k.Project.Verify(ctx, req.Path)
		if err != nil {
			return nil, err
		}
		return VerifyResponse{Path: req.Path, Status: status}, nil
	})
}

// ProjectOpenCommand opens the project at req.Path and remembers its
// parent as the project root directory.
func ProjectOpenCommand(ctx context.Context, req PathRequest) *CommandResponse {
	e, err := GetEnv()
	if err != nil {
		return NewErrorResponse(err)
	}

	info, err := e.Kiwi.Project.Open(ctx, req.Path)
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := e.Local.Set(store.KeyProjectRootDirectory, filepath.Dir(req.Path)); err != nil {
		return NewErrorResponse(fmt.Errorf("project opened but not remembered: %w", err))
	}
	return NewSuccessResponse(info)
}

func ProjectGetCommand(ctx context.Context) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return k.Project.Get(ctx)
	})
}

func ProjectOpenInEditorCommand(ctx context.Context) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Project.OpenInEditor(ctx))
	})
}

func ProjectRevealFolderCommand(ctx context.Context) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Project.RevealFolder(ctx))
	})
}

func ProjectSaveImageCommand(ctx context.Context, req ImageRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Project.SaveImage(ctx, req.Name, req.Data))
	})
}

func ProjectGetImageCommand(ctx context.Context, req ImageRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return k.Project.GetImage(ctx, req.Name, req.DataPath)
	})
}

func ProjectGetImageSizeCommand(ctx context.Context, req ImageRequest) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return k.Project.GetImageSize(ctx, req.Name, req.DataPath)
	})
}

// ProjectRunCommand starts a script and clears the previous output of the
// "run" event.
func ProjectRunCommand(ctx context.Context, req PathRequest) *CommandResponse {
	e, err := GetEnv()
	if err != nil {
		return NewErrorResponse(err)
	}
	e.Events.Clear(RunEvent)
	return respond(done(e.Kiwi.Project.Run(ctx, req.Path)))
}

func ProjectRunRecorderCommand(ctx context.Context) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Project.RunRecorder(ctx))
	})
}

func ProjectStopAllCommand(ctx context.Context) *CommandResponse {
	return withKiwi(func(k *kiwi.Kiwi) (interface{}, error) {
		return done(k.Project.StopAll(ctx))
	})
}

// ProjectConfigCommand reads config.toml from a project directory without
// involving the backend.
func ProjectConfigCommand(req PathRequest) *CommandResponse {
	return respond(config.LoadProject(req.Path))
}
