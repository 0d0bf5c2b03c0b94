package commands

import (
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kiwi-automation/kiwi/imaging"
	"github.com/kiwi-automation/kiwi/types"
)

// ImageConvertRequest carries a frame and where the converted result goes.
type ImageConvertRequest struct {
	Image      types.Base64Png `json:"image"`
	Format     string          `json:"format,omitempty"`     // "png" or "jpeg"
	Quality    int             `json:"quality,omitempty"`    // 1-100, only used for JPEG
	OutputPath string          `json:"outputPath,omitempty"` // file path, "-" for inline data, or empty for default naming
}

// ImageResponse represents the response for an image command
type ImageResponse struct {
	Format   string     `json:"format"`
	Size     types.Size `json:"size"`
	Data     string     `json:"data,omitempty"`     // data URL of the image
	FilePath string     `json:"filePath,omitempty"` // path where file was saved
}

type CropRequest struct {
	Image      types.Base64Png `json:"image"`
	Origin     types.Point     `json:"origin"`
	Size       types.Size      `json:"size"`
	OutputPath string          `json:"outputPath,omitempty"`
}

type ScaleRequest struct {
	Image      types.Base64Png `json:"image"`
	Size       types.Size      `json:"size"`
	OutputPath string          `json:"outputPath,omitempty"`
}

// decodeFrame goes through the shared frame cache when one is configured.
func decodeFrame(b types.Base64Png) (image.Image, error) {
	if e, err := GetEnv(); err == nil && e.Frames != nil {
		return e.Frames.Decode(b)
	}
	return imaging.DecodeBase64Png(b)
}

func sizeOf(img image.Image) types.Size {
	b := img.Bounds()
	return types.Size{Width: types.U32(b.Dx()), Height: types.U32(b.Dy())}
}

// ImageConvertCommand re-encodes a frame as PNG or JPEG.
func ImageConvertCommand(req ImageConvertRequest) *CommandResponse {
	if req.Format == "" {
		req.Format = "png"
	}

	req.Format = strings.ToLower(req.Format)
	if req.Format != "png" && req.Format != "jpeg" {
		return NewErrorResponse(fmt.Errorf("invalid format '%s'. Supported formats are 'png' and 'jpeg'", req.Format))
	}

	if req.Format == "jpeg" {
		if req.Quality < 1 || req.Quality > 100 {
			req.Quality = imaging.DefaultJpegQuality
		}
	}

	img, err := decodeFrame(req.Image)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error decoding image: %v", err))
	}

	imageBytes, err := req.Image.Decode()
	if err != nil {
		return NewErrorResponse(err)
	}

	if req.Format == "jpeg" {
		convertedBytes, err := imaging.ConvertPngToJpeg(imageBytes, req.Quality)
		if err != nil {
			return NewErrorResponse(fmt.Errorf("error converting to JPEG: %v", err))
		}
		imageBytes = convertedBytes
	}

	return writeImage(imageBytes, req.Format, sizeOf(img), req.OutputPath)
}

func ImageCropCommand(req CropRequest) *CommandResponse {
	cropped, err := imaging.Crop(req.Image, req.Origin, req.Size)
	if err != nil {
		return NewErrorResponse(err)
	}
	return writeBase64Png(cropped, req.Size, req.OutputPath)
}

func ImageScaleCommand(req ScaleRequest) *CommandResponse {
	scaled, err := imaging.Scale(req.Image, req.Size)
	if err != nil {
		return NewErrorResponse(err)
	}
	return writeBase64Png(scaled, req.Size, req.OutputPath)
}

type PixelsResponse struct {
	Size   types.Size       `json:"size"`
	Colors []types.HexColor `json:"colors"`
}

// ImagePixelsCommand lists every pixel of a frame as #rrggbb, row by row.
func ImagePixelsCommand(req ImageConvertRequest) *CommandResponse {
	img, err := decodeFrame(req.Image)
	if err != nil {
		return NewErrorResponse(err)
	}

	pixels := imaging.RgbPixels(imaging.ToRgbaBuffer(img))
	colors := make([]types.HexColor, len(pixels))
	for i, p := range pixels {
		colors[i] = p.Hex()
	}

	return NewSuccessResponse(PixelsResponse{
		Size:   sizeOf(img),
		Colors: colors,
	})
}

func writeBase64Png(b types.Base64Png, size types.Size, outputPath string) *CommandResponse {
	data, err := b.Decode()
	if err != nil {
		return NewErrorResponse(err)
	}
	return writeImage(data, "png", size, outputPath)
}

func writeImage(imageBytes []byte, format string, size types.Size, outputPath string) *CommandResponse {
	response := ImageResponse{
		Format: format,
		Size:   size,
	}

	if outputPath == "-" {
		response.Data = fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(imageBytes))
		return NewSuccessResponse(response)
	}

	var finalPath string
	var err error
	if outputPath != "" {
		finalPath, err = filepath.Abs(outputPath)
		if err != nil {
			return NewErrorResponse(fmt.Errorf("invalid output path: %v", err))
		}
	} else {
		timestamp := time.Now().Format("20060102150405")
		extension := "png"
		if format == "jpeg" {
			extension = "jpg"
		}
		finalPath, err = filepath.Abs(fmt.Sprintf("./image-%s.%s", timestamp, extension))
		if err != nil {
			return NewErrorResponse(fmt.Errorf("error creating default path: %v", err))
		}
	}

	if err := os.WriteFile(finalPath, imageBytes, 0o600); err != nil {
		return NewErrorResponse(fmt.Errorf("error writing file: %v", err))
	}

	response.FilePath = finalPath
	return NewSuccessResponse(response)
}
