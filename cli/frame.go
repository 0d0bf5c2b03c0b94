package cli

import (
	"github.com/kiwi-automation/kiwi/commands"
	"github.com/kiwi-automation/kiwi/kiwi"
	"github.com/kiwi-automation/kiwi/types"
	"github.com/spf13/cobra"
)

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Search a captured frame",
	Long:  `Finds images, colors and text on a captured frame. The frame is a PNG file or a data URL; without --region the whole frame is searched.`,
}

// frameOrigin loads --origin and the search region.
func frameOrigin() (types.Base64Png, kiwi.Region, error) {
	origin, err := loadPng(originPath)
	if err != nil {
		return types.Base64Png{}, kiwi.Region{}, err
	}
	region, err := regionFor(regionSpec, origin)
	if err != nil {
		return types.Base64Png{}, kiwi.Region{}, err
	}
	return origin, region, nil
}

func findImageRequest() (kiwi.FindImageRequest, error) {
	origin, region, err := frameOrigin()
	if err != nil {
		return kiwi.FindImageRequest{}, err
	}
	template, err := loadPng(templatePath)
	if err != nil {
		return kiwi.FindImageRequest{}, err
	}
	t, err := types.NewF64(threshold)
	if err != nil {
		return kiwi.FindImageRequest{}, err
	}
	return kiwi.FindImageRequest{Origin: origin, Template: template, Region: region, Threshold: t}, nil
}

var frameFindImageCmd = &cobra.Command{
	Use:   "find-image",
	Short: "Find the best match of a template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := findImageRequest()
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.FindImageCommand(cmd.Context(), req))
	},
}

var frameFindImagesCmd = &cobra.Command{
	Use:   "find-images",
	Short: "Find every match of a template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := findImageRequest()
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		size, err := parseSize(templateSize)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.FindImagesCommand(cmd.Context(), kiwi.FindImagesRequest{FindImageRequest: req, TemplateSize: size}))
	},
}

var frameFindRelativeColorsCmd = &cobra.Command{
	Use:   "find-relative-colors",
	Short: "Find a vertex color with colored points around it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, region, err := frameOrigin()
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		req, err := relativeColorsCodeRequest(region)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.FindRelativeColorsCommand(cmd.Context(), kiwi.FindRelativeColorsRequest{
			Origin:         origin,
			VertexHex:      req.VertexHex,
			RelativePoints: req.RelativePoints,
			Region:         region,
			RgbOffset:      req.RgbOffset,
		}))
	},
}

var frameFindColorsCmd = &cobra.Command{
	Use:   "find-colors",
	Short: "Find pixels matching any of the given colors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, region, err := frameOrigin()
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		req, err := colorsCodeRequest(region)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.FindColorsCommand(cmd.Context(), kiwi.FindColorsRequest{
			Origin:    origin,
			HexColors: req.HexColors,
			Region:    region,
			RgbOffset: req.RgbOffset,
		}))
	},
}

var frameRecognizeTextCmd = &cobra.Command{
	Use:   "recognize-text",
	Short: "Recognize the text inside a region",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		origin, region, err := frameOrigin()
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.RecognizeTextCommand(cmd.Context(), kiwi.RecognizeTextRequest{Origin: origin, Region: region}))
	},
}

func addSearchFlags(cmd *cobra.Command, withOrigin bool) {
	if withOrigin {
		cmd.Flags().StringVar(&originPath, "origin", "", "frame to search (PNG file or data URL)")
		_ = cmd.MarkFlagRequired("origin")
	}
	cmd.Flags().StringVar(&regionSpec, "region", "", "search region as x1,y1,x2,y2 (default: whole frame)")
}

func addColorFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rgbOffset, "rgb-offset", "", "per channel tolerance as r,g,b")
}

func init() {
	rootCmd.AddCommand(frameCmd)

	frameCmd.AddCommand(frameFindImageCmd)
	frameCmd.AddCommand(frameFindImagesCmd)
	frameCmd.AddCommand(frameFindRelativeColorsCmd)
	frameCmd.AddCommand(frameFindColorsCmd)
	frameCmd.AddCommand(frameRecognizeTextCmd)

	for _, cmd := range []*cobra.Command{frameFindImageCmd, frameFindImagesCmd} {
		addSearchFlags(cmd, true)
		cmd.Flags().StringVar(&templatePath, "template", "", "template image (PNG file or data URL)")
		cmd.Flags().Float64Var(&threshold, "threshold", 0.9, "minimum match score in [0, 1]")
		_ = cmd.MarkFlagRequired("template")
	}
	frameFindImagesCmd.Flags().StringVar(&templateSize, "template-size", "", "template size as WxH")
	_ = frameFindImagesCmd.MarkFlagRequired("template-size")

	addSearchFlags(frameFindRelativeColorsCmd, true)
	addColorFlags(frameFindRelativeColorsCmd)
	frameFindRelativeColorsCmd.Flags().StringVar(&vertexHex, "vertex", "", "vertex color as #rrggbb")
	frameFindRelativeColorsCmd.Flags().StringArrayVar(&relativeSpecs, "point", nil, "relative point as x,y,#rrggbb (repeatable)")
	_ = frameFindRelativeColorsCmd.MarkFlagRequired("vertex")

	addSearchFlags(frameFindColorsCmd, true)
	addColorFlags(frameFindColorsCmd)
	frameFindColorsCmd.Flags().StringSliceVar(&hexColors, "color", nil, "color to look for as #rrggbb (repeatable)")
	_ = frameFindColorsCmd.MarkFlagRequired("color")

	addSearchFlags(frameRecognizeTextCmd, true)
}
