package kiwi

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kiwi-automation/kiwi/notify"
	"github.com/kiwi-automation/kiwi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invocation struct {
	method string
	args   map[string]interface{}
}

// fakeInvoker answers from canned JSON results, going through encoding the
// same way a real backend round trip does.
type fakeInvoker struct {
	results map[string]string
	errs    map[string]error
	calls   []invocation
}

func newFakeInvoker() *fakeInvoker {
	return &fakeInvoker{
		results: make(map[string]string),
		errs:    make(map[string]error),
	}
}

func (f *fakeInvoker) Invoke(_ context.Context, method string, args interface{}, result interface{}) error {
	inv := invocation{method: method}
	if args != nil {
		raw, err := json.Marshal(args)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &inv.args); err != nil {
			return err
		}
	}
	f.calls = append(f.calls, inv)

	if err, ok := f.errs[method]; ok {
		return err
	}
	if raw, ok := f.results[method]; ok && result != nil {
		return json.Unmarshal([]byte(raw), result)
	}
	return nil
}

func (f *fakeInvoker) last() invocation {
	return f.calls[len(f.calls)-1]
}

func recordNotifications(t *testing.T) *notify.Recorder {
	rec := &notify.Recorder{}
	prev := notify.SetDefault(rec)
	t.Cleanup(func() { notify.SetDefault(prev) })
	return rec
}

const samplePng = "data:image/png;base64,iVBORw0KGgo="

func region(x1, y1, x2, y2 float64) Region {
	start, _ := types.NewPoint(x1, y1)
	end, _ := types.NewPoint(x2, y2)
	return Region{Start: start, End: end}
}

func TestApp_Init(t *testing.T) {
	inv := newFakeInvoker()
	inv.results[ProcGetAppName] = `"kiwi"`
	inv.results[ProcGetAppVersion] = `"0.3.0"`
	inv.results[ProcGetAppConfig] = `{"app":{"websocket_port":8765}}`
	inv.results[ProcGetRelativeImageDataPath] = `"data/images"`

	app := NewApp(inv)
	require.NoError(t, app.Init(context.Background()))

	assert.Equal(t, "kiwi", app.Name)
	assert.Equal(t, "0.3.0", app.Version)
	assert.Equal(t, uint16(8765), app.Config.App.WebsocketPort)
	assert.Equal(t, "data/images", app.RelativeImageDataPath)
	assert.Len(t, inv.calls, 4)
}

func TestApp_InitFailureNotifies(t *testing.T) {
	rec := recordNotifications(t)
	inv := newFakeInvoker()
	inv.results[ProcGetAppName] = `"kiwi"`
	inv.errs[ProcGetAppVersion] = errors.New("backend unavailable")

	app := NewApp(inv)
	err := app.Init(context.Background())
	require.Error(t, err)
	assert.Equal(t, "kiwi", app.Name)

	msgs := rec.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.LevelError, msgs[0].Level)
	assert.Equal(t, "backend unavailable", msgs[0].Text)
}

func TestApp_SaveConfig(t *testing.T) {
	inv := newFakeInvoker()
	app := NewApp(inv)

	err := app.SaveConfig(context.Background())
	assert.ErrorIs(t, err, types.ErrInvalid)
	assert.Empty(t, inv.calls)

	app.Config.App.WebsocketPort = 9000
	require.NoError(t, app.SaveConfig(context.Background()))
	assert.Equal(t, ProcSaveAppConfig, inv.last().method)
	assert.Equal(t, map[string]interface{}{"app": map[string]interface{}{"websocket_port": float64(9000)}}, inv.last().args["config"])
}

func TestCapture(t *testing.T) {
	inv := newFakeInvoker()
	inv.results[ProcGetMonitorSize] = `{"width":2560,"height":1440}`
	k := New(inv)

	size, err := k.Capture.MonitorSize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.Size{Width: 2560, Height: 1440}, size)

	require.NoError(t, k.Capture.RequestFrameData(context.Background()))
	assert.Equal(t, ProcRequestFrameData, inv.last().method)
}

func TestCapture_RejectsInvalidSize(t *testing.T) {
	inv := newFakeInvoker()
	inv.results[ProcGetMonitorSize] = `{"width":-1,"height":1440}`
	recordNotifications(t)

	_, err := New(inv).Capture.MonitorSize(context.Background())
	assert.ErrorIs(t, err, types.ErrInvalid)
}

func TestCommon(t *testing.T) {
	inv := newFakeInvoker()
	inv.results[ProcPathExists] = `true`
	inv.results[ProcIsWebsocketAlive] = `false`
	c := New(inv).Common
	ctx := context.Background()

	ok, err := c.PathExists(ctx, "/tmp")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/tmp", inv.last().args["path"])

	require.NoError(t, c.ProtectWindows(ctx, types.WindowMain, types.WindowMonitor))
	assert.Equal(t, []interface{}{"main", "monitor"}, inv.last().args["windows"])

	require.NoError(t, c.UnprotectWindows(ctx, types.WindowMain))
	require.NoError(t, c.XattrPython(ctx))
	require.NoError(t, c.OpenWebsocket(ctx, 8765))
	assert.Equal(t, float64(8765), inv.last().args["port"])

	alive, err := c.IsWebsocketAlive(ctx, 8765)
	require.NoError(t, err)
	assert.False(t, alive)

	require.NoError(t, c.ShutdownWebsocket(ctx))
}

func TestCommon_Validation(t *testing.T) {
	inv := newFakeInvoker()
	c := New(inv).Common
	ctx := context.Background()

	assert.ErrorIs(t, c.ProtectWindows(ctx, "settings"), types.ErrInvalid)
	assert.ErrorIs(t, c.UnprotectWindows(ctx, types.WindowMain, "other"), types.ErrInvalid)
	assert.ErrorIs(t, c.OpenWebsocket(ctx, 0), types.ErrInvalid)
	_, err := c.IsWebsocketAlive(ctx, 0)
	assert.ErrorIs(t, err, types.ErrInvalid)
	assert.Empty(t, inv.calls)
}

func TestRegion_Validate(t *testing.T) {
	tests := []struct {
		name   string
		region Region
		valid  bool
	}{
		{"ordered", region(0, 0, 100, 100), true},
		{"single pixel", region(5, 5, 5, 5), true},
		{"negative coordinates", region(-10, -10, 0, 0), true},
		{"x reversed", region(10, 0, 5, 100), false},
		{"y reversed", region(0, 10, 100, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.region.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, types.ErrInvalid)
			}
		})
	}
}

func TestFrame_FindImage(t *testing.T) {
	inv := newFakeInvoker()
	inv.results[ProcFindImage] = `{"point":{"x":10,"y":20},"weight":0.97}`
	f := New(inv).Frame

	req := FindImageRequest{
		Origin:    types.MustBase64Png(samplePng),
		Template:  types.MustBase64Png(samplePng),
		Region:    region(0, 0, 100, 100),
		Threshold: types.MustF64(0.9),
	}
	wp, err := f.FindImage(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, wp)
	assert.Equal(t, types.I32(10), wp.Point.X)
	assert.Equal(t, 0.97, wp.Weight.Float64())

	args := inv.last().args
	assert.Equal(t, samplePng, args["origin"])
	assert.Equal(t, map[string]interface{}{"x": float64(0), "y": float64(0)}, args["startPoint"])
	assert.Equal(t, map[string]interface{}{"x": float64(100), "y": float64(100)}, args["endPoint"])
	assert.Equal(t, 0.9, args["threshold"])
}

func TestFrame_FindImageNoMatch(t *testing.T) {
	inv := newFakeInvoker()
	inv.results[ProcFindImage] = `null`

	wp, err := New(inv).Frame.FindImage(context.Background(), FindImageRequest{
		Origin:    types.MustBase64Png(samplePng),
		Template:  types.MustBase64Png(samplePng),
		Region:    region(0, 0, 10, 10),
		Threshold: types.MustF64(0.5),
	})
	require.NoError(t, err)
	assert.Nil(t, wp)
}

func TestFrame_Validation(t *testing.T) {
	inv := newFakeInvoker()
	f := New(inv).Frame
	ctx := context.Background()
	origin := types.MustBase64Png(samplePng)

	_, err := f.FindImage(ctx, FindImageRequest{Origin: origin, Template: origin, Region: region(0, 0, 1, 1), Threshold: types.MustF64(1.5)})
	assert.ErrorIs(t, err, types.ErrInvalid)

	_, err = f.FindImage(ctx, FindImageRequest{Origin: origin, Region: region(0, 0, 1, 1)})
	assert.ErrorIs(t, err, types.ErrInvalid, "missing template")

	_, err = f.FindImages(ctx, FindImagesRequest{FindImageRequest: FindImageRequest{Origin: origin, Template: origin, Region: region(5, 0, 1, 1)}})
	assert.ErrorIs(t, err, types.ErrInvalid)

	_, err = f.FindColors(ctx, FindColorsRequest{Origin: origin, Region: region(0, 0, 1, 1)})
	assert.ErrorIs(t, err, types.ErrInvalid, "no colors")

	_, err = f.FindRelativeColors(ctx, FindRelativeColorsRequest{Origin: origin, Region: region(0, 0, 1, 1)})
	assert.ErrorIs(t, err, types.ErrInvalid, "no vertex")

	_, err = f.RecognizeText(ctx, RecognizeTextRequest{Region: region(0, 0, 1, 1)})
	assert.ErrorIs(t, err, types.ErrInvalid, "no origin")

	assert.Empty(t, inv.calls)
}

func TestFrame_FindImagesAndColors(t *testing.T) {
	inv := newFakeInvoker()
	inv.results[ProcFindImages] = `[{"point":{"x":1,"y":2},"weight":0.8},{"point":{"x":3,"y":4},"weight":0.9}]`
	inv.results[ProcFindColors] = `null`
	inv.results[ProcFindRelativeColors] = `{"point":{"x":7,"y":8},"hex":"#ff0000"}`
	inv.results[ProcRecognizeText] = `"hello"`
	f := New(inv).Frame
	ctx := context.Background()
	origin := types.MustBase64Png(samplePng)

	wps, err := f.FindImages(ctx, FindImagesRequest{
		FindImageRequest: FindImageRequest{Origin: origin, Template: origin, Region: region(0, 0, 50, 50), Threshold: types.MustF64(0.7)},
		TemplateSize:     types.Size{Width: 8, Height: 8},
	})
	require.NoError(t, err)
	assert.Len(t, wps, 2)
	assert.Equal(t, map[string]interface{}{"width": float64(8), "height": float64(8)}, inv.last().args["templateSize"])

	cps, err := f.FindColors(ctx, FindColorsRequest{
		Origin:    origin,
		HexColors: []types.HexColor{types.MustHexColor("#00ff00")},
		Region:    region(0, 0, 50, 50),
		RgbOffset: types.RgbColor{R: 5, G: 5, B: 5},
	})
	require.NoError(t, err)
	assert.NotNil(t, cps)
	assert.Empty(t, cps)
	assert.Equal(t, []interface{}{"#00ff00"}, inv.last().args["hexColors"])

	vertex := types.MustHexColor("#ff0000")
	neighbour, _ := types.NewColoredPoint(types.Point{X: 1}, "#0000ff")
	cp, err := f.FindRelativeColors(ctx, FindRelativeColorsRequest{
		Origin:         origin,
		VertexHex:      vertex,
		RelativePoints: []types.ColoredPoint{neighbour},
		Region:         region(0, 0, 50, 50),
	})
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, vertex, cp.Hex)

	text, err := f.RecognizeText(ctx, RecognizeTextRequest{Origin: origin, Region: region(0, 0, 50, 50)})
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestCode(t *testing.T) {
	inv := newFakeInvoker()
	for _, m := range []string{
		ProcGenerateFindImageCode,
		ProcGenerateFindImagesCode,
		ProcGenerateFindRelativeColorsCode,
		ProcGenerateFindColorsCode,
		ProcGenerateRecognizeTextCode,
	} {
		inv.results[m] = `"code for ` + m + `"`
	}
	c := New(inv).Code
	ctx := context.Background()
	r := region(0, 0, 10, 10)

	code, err := c.GenerateFindImageCode(ctx, ImageCodeRequest{Subpath: "button", Region: r, Threshold: types.MustF64(0.9)})
	require.NoError(t, err)
	assert.Equal(t, "code for "+ProcGenerateFindImageCode, code)
	assert.Equal(t, "button", inv.last().args["subpath"])

	_, err = c.GenerateFindImagesCode(ctx, ImageCodeRequest{Subpath: "icons", Region: r, Threshold: types.MustF64(0.5)})
	require.NoError(t, err)

	_, err = c.GenerateFindRelativeColorsCode(ctx, RelativeColorsCodeRequest{VertexHex: types.MustHexColor("#123456"), Region: r})
	require.NoError(t, err)
	assert.Equal(t, "#123456", inv.last().args["vertexHex"])

	_, err = c.GenerateFindColorsCode(ctx, ColorsCodeRequest{HexColors: []types.HexColor{types.MustHexColor("#abcdef")}, Region: r})
	require.NoError(t, err)

	code, err = c.GenerateRecognizeTextCode(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "code for "+ProcGenerateRecognizeTextCode, code)
	assert.Contains(t, inv.last().args, "startPoint")
}

func TestCode_Validation(t *testing.T) {
	inv := newFakeInvoker()
	c := New(inv).Code
	ctx := context.Background()

	_, err := c.GenerateFindImageCode(ctx, ImageCodeRequest{Subpath: " ", Region: region(0, 0, 1, 1)})
	assert.ErrorIs(t, err, types.ErrInvalid)
	_, err = c.GenerateRecognizeTextCode(ctx, region(2, 2, 1, 1))
	assert.ErrorIs(t, err, types.ErrInvalid)
	_, err = c.GenerateFindColorsCode(ctx, ColorsCodeRequest{Region: region(0, 0, 1, 1)})
	assert.ErrorIs(t, err, types.ErrInvalid)
	assert.Empty(t, inv.calls)
}

func TestProject(t *testing.T) {
	inv := newFakeInvoker()
	inv.results[ProcVerifyProject] = `"moved"`
	inv.results[ProcOpenProject] = `{"name":"demo","language":"python","mainFile":"main.py","path":"/p","kiwiVersion":"0.3.0"}`
	inv.results[ProcGetProject] = inv.results[ProcOpenProject]
	inv.results[ProcGetImageSize] = `{"width":4,"height":2}`
	inv.results[ProcGetImage] = `"AAAAAP////8="`
	p := New(inv).Project
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, "demo", types.LanguagePython, "/p"))
	assert.Equal(t, map[string]interface{}{"name": "demo", "language": "python", "path": "/p"}, inv.last().args)

	require.NoError(t, p.Init(ctx, "/p"))
	require.NoError(t, p.Reinit(ctx, "/p"))

	status, err := p.Verify(ctx, "/p")
	require.NoError(t, err)
	assert.Equal(t, types.VerifyMoved, status)

	info, err := p.Open(ctx, "/p")
	require.NoError(t, err)
	assert.Equal(t, "demo", info.Name)
	assert.Equal(t, types.LanguagePython, info.Language)

	info, err = p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main.py", info.MainFile)

	require.NoError(t, p.OpenInEditor(ctx))
	require.NoError(t, p.RevealFolder(ctx))
	require.NoError(t, p.SaveImage(ctx, "button", types.MustBase64Png(samplePng)))
	assert.Equal(t, samplePng, inv.last().args["data"])

	size, err := p.GetImageSize(ctx, "button", "data")
	require.NoError(t, err)
	assert.Equal(t, types.U32(4), size.Width)

	buf, err := p.GetImage(ctx, "button", "data")
	require.NoError(t, err)
	assert.Equal(t, 2, buf.PixelCount())

	require.NoError(t, p.Run(ctx, "/p/main.py"))
	require.NoError(t, p.RunRecorder(ctx))
	require.NoError(t, p.StopAll(ctx))
	assert.Equal(t, ProcStopAll, inv.last().method)
}

func TestProject_Validation(t *testing.T) {
	inv := newFakeInvoker()
	p := New(inv).Project
	ctx := context.Background()

	assert.ErrorIs(t, p.Save(ctx, "demo", "ruby", "/p"), types.ErrInvalid)
	assert.ErrorIs(t, p.Save(ctx, "", types.LanguageLua, "/p"), types.ErrInvalid)
	assert.ErrorIs(t, p.Init(ctx, ""), types.ErrInvalid)
	assert.ErrorIs(t, p.SaveImage(ctx, "img", types.Base64Png{}), types.ErrInvalid)
	assert.ErrorIs(t, p.Run(ctx, " "), types.ErrInvalid)
	assert.Empty(t, inv.calls)
}

func TestProject_VerifyRejectsUnknownStatus(t *testing.T) {
	inv := newFakeInvoker()
	inv.results[ProcVerifyProject] = `"broken"`

	_, err := New(inv).Project.Verify(context.Background(), "/p")
	assert.ErrorIs(t, err, types.ErrInvalid)
}

func TestProject_BackendErrorIsNotified(t *testing.T) {
	rec := recordNotifications(t)
	inv := newFakeInvoker()
	inv.errs[ProcStopAll] = errors.New("no project open")

	err := New(inv).Project.StopAll(context.Background())
	require.Error(t, err)
	require.Len(t, rec.Messages(), 1)
	assert.Equal(t, "no project open", rec.Messages()[0].Text)
}
