package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kiwi-automation/kiwi/commands"
	"github.com/kiwi-automation/kiwi/kiwi"
)

// MethodShutdown stops the HTTP server. It is handled by the server itself
// and is not part of the registry.
const MethodShutdown = "server.shutdown"

// MethodPing answers without touching the backend. The daemon uses it to
// tell when a freshly started server is serving.
const MethodPing = "server.ping"

type PingResponse struct {
	Status string `json:"status"`
	Pid    int    `json:"pid"`
}

func ping(_ context.Context, _ json.RawMessage) (interface{}, error) {
	return PingResponse{Status: "ok", Pid: os.Getpid()}, nil
}

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// InvalidParamsError is returned when params cannot be decoded into the
// request of a method.
type InvalidParamsError struct {
	Err error
}

func (e *InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid parameters: %v", e.Err)
}

func (e *InvalidParamsError) Unwrap() error {
	return e.Err
}

// bind decodes params into a T. Missing params leave the zero value.
func bind[T any](params json.RawMessage) (T, error) {
	var req T
	if len(params) == 0 || string(params) == "null" {
		return req, nil
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return req, &InvalidParamsError{Err: err}
	}
	return req, nil
}

// result unwraps a command response into a JSON-RPC result.
func result(response *commands.CommandResponse) (interface{}, error) {
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

// withParams adapts a command taking a context and a request.
func withParams[T any](fn func(context.Context, T) *commands.CommandResponse) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		req, err := bind[T](params)
		if err != nil {
			return nil, err
		}
		return result(fn(ctx, req))
	}
}

// local adapts a command that does not reach the backend.
func local[T any](fn func(T) *commands.CommandResponse) HandlerFunc {
	return func(_ context.Context, params json.RawMessage) (interface{}, error) {
		req, err := bind[T](params)
		if err != nil {
			return nil, err
		}
		return result(fn(req))
	}
}

func noParams(fn func(context.Context) *commands.CommandResponse) HandlerFunc {
	return func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		return result(fn(ctx))
	}
}

func localNoParams(fn func() *commands.CommandResponse) HandlerFunc {
	return func(_ context.Context, _ json.RawMessage) (interface{}, error) {
		return result(fn())
	}
}

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP server and the websocket endpoint
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		MethodPing: ping,

		"types.validate": local(commands.ValidateCommand),
		"hex.random":     localNoParams(commands.HexRandomCommand),
		"hex.from_rgb":   local(commands.HexFromRgbCommand),
		"hex.to_rgb":     local(commands.HexToRgbCommand),
		"rgba.pixel":     local(commands.RgbaPixelCommand),

		"app.info":        noParams(commands.AppInfoCommand),
		"app.save_config": withParams(commands.AppSaveConfigCommand),
		"app.state":       localNoParams(commands.AppStateCommand),

		"capture.monitor_size":  noParams(commands.MonitorSizeCommand),
		"capture.request_frame": noParams(commands.RequestFrameCommand),

		"common.path_exists":        withParams(commands.PathExistsCommand),
		"common.xattr_python":       noParams(commands.XattrPythonCommand),
		"common.protect_windows":    withParams(commands.ProtectWindowsCommand),
		"common.unprotect_windows":  withParams(commands.UnprotectWindowsCommand),
		"common.open_websocket":     withParams(commands.OpenWebsocketCommand),
		"common.shutdown_websocket": noParams(commands.ShutdownWebsocketCommand),
		"common.is_websocket_alive": withParams(commands.IsWebsocketAliveCommand),

		"frame.find_image":           withParams(commands.FindImageCommand),
		"frame.find_images":          withParams(commands.FindImagesCommand),
		"frame.find_relative_colors": withParams(commands.FindRelativeColorsCommand),
		"frame.find_colors":          withParams(commands.FindColorsCommand),
		"frame.recognize_text":       withParams(commands.RecognizeTextCommand),

		"code.find_image":           withParams(commands.FindImageCodeCommand),
		"code.find_images":          withParams(commands.FindImagesCodeCommand),
		"code.find_relative_colors": withParams(commands.FindRelativeColorsCodeCommand),
		"code.find_colors":          withParams(commands.FindColorsCodeCommand),
		"code.recognize_text":       withParams[kiwi.Region](commands.RecognizeTextCodeCommand),

		"project.save":           withParams(commands.ProjectSaveCommand),
		"project.init":           withParams(commands.ProjectInitCommand),
		"project.reinit":         withParams(commands.ProjectReinitCommand),
		"project.verify":         withParams(commands.ProjectVerifyCommand),
		"project.open":           withParams(commands.ProjectOpenCommand),
		"project.get":            noParams(commands.ProjectGetCommand),
		"project.open_in_editor": noParams(commands.ProjectOpenInEditorCommand),
		"project.reveal_folder":  noParams(commands.ProjectRevealFolderCommand),
		"project.save_image":     withParams(commands.ProjectSaveImageCommand),
		"project.get_image":      withParams(commands.ProjectGetImageCommand),
		"project.get_image_size": withParams(commands.ProjectGetImageSizeCommand),
		"project.run":            withParams(commands.ProjectRunCommand),
		"project.run_recorder":   noParams(commands.ProjectRunRecorderCommand),
		"project.stop_all":       noParams(commands.ProjectStopAllCommand),
		"project.config":         local(commands.ProjectConfigCommand),

		"events.list":   localNoParams(commands.EventsListCommand),
		"events.recent": local(commands.EventsRecentCommand),
		"events.clear":  local(commands.EventsClearCommand),

		"store.get":   local(commands.StoreGetCommand),
		"store.set":   local(commands.StoreSetCommand),
		"store.clear": localNoParams(commands.StoreClearCommand),
		"store.keys":  localNoParams(commands.StoreKeysCommand),
		"zoom":        local(commands.ZoomCommand),

		"image.convert": local(commands.ImageConvertCommand),
		"image.crop":    local(commands.ImageCropCommand),
		"image.scale":   local(commands.ImageScaleCommand),
		"image.pixels":  local(commands.ImagePixelsCommand),
	}
}

// Execute dispatches a method call using the registry
// This is the main entry point for embedded clients
func Execute(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(ctx, params)
}
