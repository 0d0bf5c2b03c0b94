// Package imaging converts captured frames between base64 PNG text, Go
// images and raw RGBA pixels.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/kiwi-automation/kiwi/types"
	"golang.org/x/image/draw"
)

// DefaultJpegQuality is used when a caller passes a quality outside 1..100.
const DefaultJpegQuality = 90

func DecodeBase64Png(b types.Base64Png) (image.Image, error) {
	data, err := b.Decode()
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode png: %w", err)
	}
	return img, nil
}

func EncodeBase64Png(img image.Image) (types.Base64Png, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return types.Base64Png{}, fmt.Errorf("failed to encode png: %w", err)
	}
	return types.Base64PngFromBytes(buf.Bytes())
}

// toNRGBA returns img as non-premultiplied RGBA with its origin at (0,0).
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// ToRgbaBuffer returns the pixels of img row by row, four bytes each, with
// straight (not premultiplied) alpha.
func ToRgbaBuffer(img image.Image) types.RgbaBuffer {
	n := toNRGBA(img)
	w, h := n.Rect.Dx(), n.Rect.Dy()

	out := make([]byte, 0, w*h*types.BytesPerPixel)
	for y := 0; y < h; y++ {
		row := n.Pix[y*n.Stride : y*n.Stride+w*types.BytesPerPixel]
		out = append(out, row...)
	}
	return types.MustRgbaBuffer(out)
}

// RgbPixels drops the alpha channel of every pixel.
func RgbPixels(buf types.RgbaBuffer) []types.RgbColor {
	colors := make([]types.RgbColor, buf.PixelCount())
	for i := range colors {
		// i is always in range
		r, g, b, _, _ := buf.Pixel(i)
		colors[i] = types.RgbColor{R: r, G: g, B: b}
	}
	return colors
}

// Crop cuts the rectangle at origin with size out of the frame. The
// rectangle must lie inside the frame.
func Crop(b types.Base64Png, origin types.Point, size types.Size) (types.Base64Png, error) {
	img, err := DecodeBase64Png(b)
	if err != nil {
		return types.Base64Png{}, err
	}
	return CropImage(img, origin, size)
}

func CropImage(img image.Image, origin types.Point, size types.Size) (types.Base64Png, error) {
	bounds := img.Bounds()
	rect := image.Rect(0, 0, int(size.Width), int(size.Height)).
		Add(bounds.Min).
		Add(image.Pt(int(origin.X), int(origin.Y)))

	if rect.Empty() || !rect.In(bounds) {
		return types.Base64Png{}, &types.ValidationError{
			Kind:  "crop region",
			Value: fmt.Sprintf("%v outside %dx%d frame", rect.Sub(bounds.Min), bounds.Dx(), bounds.Dy()),
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Copy(dst, image.Point{}, img, rect, draw.Src, nil)
	return EncodeBase64Png(dst)
}

// Scale resizes the frame to size with Catmull-Rom resampling.
func Scale(b types.Base64Png, size types.Size) (types.Base64Png, error) {
	if size.Width == 0 || size.Height == 0 {
		return types.Base64Png{}, &types.ValidationError{Kind: "scale size", Value: fmt.Sprintf("%dx%d", size.Width, size.Height)}
	}
	img, err := DecodeBase64Png(b)
	if err != nil {
		return types.Base64Png{}, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, int(size.Width), int(size.Height)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return EncodeBase64Png(dst)
}

// Size returns the frame's dimensions without keeping the pixels.
func Size(b types.Base64Png) (types.Size, error) {
	data, err := b.Decode()
	if err != nil {
		return types.Size{}, err
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return types.Size{}, fmt.Errorf("failed to decode png header: %w", err)
	}
	return types.Size{Width: types.U32(cfg.Width), Height: types.U32(cfg.Height)}, nil
}

func ConvertPngToJpeg(pngBytes []byte, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultJpegQuality
	}

	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, err
	}

	var jpegBytes bytes.Buffer
	if err := jpeg.Encode(&jpegBytes, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}

	return jpegBytes.Bytes(), nil
}
