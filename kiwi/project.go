package kiwi

import (
	"context"
	"strings"

	"github.com/kiwi-automation/kiwi/types"
)

// ProjectInfo describes the project open in the backend.
type ProjectInfo struct {
	Name             string         `json:"name" yaml:"name"`
	Language         types.Language `json:"language" yaml:"language"`
	MainFile         string         `json:"mainFile" yaml:"mainFile"`
	Path             string         `json:"path" yaml:"path"`
	KiwiVersion      string         `json:"kiwiVersion" yaml:"kiwiVersion"`
	MainFileFullPath string         `json:"mainFileFullPath,omitempty" yaml:"mainFileFullPath,omitempty"`
}

type Project struct {
	inv Invoker
}

func requireText(kind, s string) error {
	if strings.TrimSpace(s) == "" {
		return &types.ValidationError{Kind: kind, Value: s}
	}
	return nil
}

// Save creates a project directory with a config for language.
func (p *Project) Save(ctx context.Context, name string, language types.Language, path string) error {
	if err := requireText("project name", name); err != nil {
		return err
	}
	if _, err := types.ParseLanguage(string(language)); err != nil {
		return err
	}
	if err := requireText("project path", path); err != nil {
		return err
	}
	args := map[string]interface{}{"name": name, "language": language, "path": path}
	return call(ctx, p.inv, ProcSaveProject, args, nil)
}

// Init prepares the project's interpreter environment. Progress is
// reported through "init_project" notifications.
func (p *Project) Init(ctx context.Context, path string) error {
	if err := requireText("project path", path); err != nil {
		return err
	}
	return call(ctx, p.inv, ProcInitProject, map[string]interface{}{"path": path}, nil)
}

// Reinit discards and rebuilds the interpreter environment.
func (p *Project) Reinit(ctx context.Context, path string) error {
	if err := requireText("project path", path); err != nil {
		return err
	}
	return call(ctx, p.inv, ProcReinitProject, map[string]interface{}{"path": path}, nil)
}

func (p *Project) Verify(ctx context.Context, path string) (types.VerifyStatus, error) {
	if err := requireText("project path", path); err != nil {
		return "", err
	}
	var raw string
	if err := call(ctx, p.inv, ProcVerifyProject, map[string]interface{}{"path": path}, &raw); err != nil {
		return "", err
	}
	return types.ParseVerifyStatus(raw)
}

func (p *Project) Open(ctx context.Context, path string) (ProjectInfo, error) {
	if err := requireText("project path", path); err != nil {
		return ProjectInfo{}, err
	}
	var info ProjectInfo
	if err := call(ctx, p.inv, ProcOpenProject, map[string]interface{}{"path": path}, &info); err != nil {
		return ProjectInfo{}, err
	}
	return info, nil
}

func (p *Project) Get(ctx context.Context) (ProjectInfo, error) {
	var info ProjectInfo
	if err := call(ctx, p.inv, ProcGetProject, nil, &info); err != nil {
		return ProjectInfo{}, err
	}
	return info, nil
}

func (p *Project) OpenInEditor(ctx context.Context) error {
	return call(ctx, p.inv, ProcOpenProjectInEditor, nil, nil)
}

func (p *Project) RevealFolder(ctx context.Context) error {
	return call(ctx, p.inv, ProcRevealProjectFolder, nil, nil)
}

// SaveImage writes data as <name>.png under the project's image directory.
func (p *Project) SaveImage(ctx context.Context, name string, data types.Base64Png) error {
	if err := requireText("image name", name); err != nil {
		return err
	}
	if err := validateOrigin("image", data); err != nil {
		return err
	}
	return call(ctx, p.inv, ProcSaveImage, map[string]interface{}{"name": name, "data": data}, nil)
}

// GetImage loads <name>.png from dataPath as raw RGBA pixels.
func (p *Project) GetImage(ctx context.Context, name, dataPath string) (types.RgbaBuffer, error) {
	if err := requireText("image name", name); err != nil {
		return types.RgbaBuffer{}, err
	}
	var buf types.RgbaBuffer
	args := map[string]interface{}{"name": name, "dataPath": dataPath}
	if err := call(ctx, p.inv, ProcGetImage, args, &buf); err != nil {
		return types.RgbaBuffer{}, err
	}
	return buf, nil
}

func (p *Project) GetImageSize(ctx context.Context, name, dataPath string) (types.Size, error) {
	if err := requireText("image name", name); err != nil {
		return types.Size{}, err
	}
	var size types.Size
	args := map[string]interface{}{"name": name, "dataPath": dataPath}
	if err := call(ctx, p.inv, ProcGetImageSize, args, &size); err != nil {
		return types.Size{}, err
	}
	return size, nil
}

// Run starts the script at path. Output arrives as emit notifications.
func (p *Project) Run(ctx context.Context, path string) error {
	if err := requireText("script path", path); err != nil {
		return err
	}
	return call(ctx, p.inv, ProcRun, map[string]interface{}{"path": path}, nil)
}

func (p *Project) RunRecorder(ctx context.Context) error {
	return call(ctx, p.inv, ProcRunRecorder, nil, nil)
}

// StopAll stops every running script and the recorder.
func (p *Project) StopAll(ctx context.Context) error {
	return call(ctx, p.inv, ProcStopAll, nil, nil)
}
