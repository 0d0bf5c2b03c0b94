package cli

import (
	"github.com/kiwi-automation/kiwi/commands"
	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:         "image",
	Short:       "Convert, crop and scale PNG frames",
	Long:        `Local image helpers. Images are PNG files or data URLs; use --output - to print the result as a data URL.`,
	Annotations: map[string]string{skipEnv: "true"},
}

var imageConvertCmd = &cobra.Command{
	Use:         "convert [png]",
	Short:       "Re-encode a frame as PNG or JPEG",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := loadPng(args[0])
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.ImageConvertCommand(commands.ImageConvertRequest{
			Image:      img,
			Format:     imageFormat,
			Quality:    imageQuality,
			OutputPath: imageOutputPath,
		}))
	},
}

var imageCropCmd = &cobra.Command{
	Use:         "crop [png]",
	Short:       "Cut a rectangle out of a frame",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := loadPng(args[0])
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		origin, err := parsePoint(cropOrigin)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		size, err := parseSize(cropSize)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.ImageCropCommand(commands.CropRequest{
			Image:      img,
			Origin:     origin,
			Size:       size,
			OutputPath: imageOutputPath,
		}))
	},
}

var imageScaleCmd = &cobra.Command{
	Use:         "scale [png]",
	Short:       "Resize a frame",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := loadPng(args[0])
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		size, err := parseSize(cropSize)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.ImageScaleCommand(commands.ScaleRequest{
			Image:      img,
			Size:       size,
			OutputPath: imageOutputPath,
		}))
	},
}

var imagePixelsCmd = &cobra.Command{
	Use:         "pixels [png]",
	Short:       "List every pixel of a frame as #rrggbb",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := loadPng(args[0])
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.ImagePixelsCommand(commands.ImageConvertRequest{Image: img}))
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)

	imageCmd.AddCommand(imageConvertCmd)
	imageCmd.AddCommand(imageCropCmd)
	imageCmd.AddCommand(imageScaleCmd)
	imageCmd.AddCommand(imagePixelsCmd)

	for _, cmd := range []*cobra.Command{imageConvertCmd, imageCropCmd, imageScaleCmd} {
		cmd.Flags().StringVar(&imageOutputPath, "save", "", "output file, '-' for a data URL (default: ./image-<timestamp>)")
	}

	imageConvertCmd.Flags().StringVarP(&imageFormat, "format", "f", "png", "output format (png or jpeg)")
	imageConvertCmd.Flags().IntVarP(&imageQuality, "quality", "q", 90, "JPEG quality (1-100)")

	imageCropCmd.Flags().StringVar(&cropOrigin, "origin", "0,0", "top-left corner as x,y")
	imageCropCmd.Flags().StringVar(&cropSize, "size", "", "crop size as WxH")
	_ = imageCropCmd.MarkFlagRequired("size")

	imageScaleCmd.Flags().StringVar(&cropSize, "size", "", "target size as WxH")
	_ = imageScaleCmd.MarkFlagRequired("size")
}
