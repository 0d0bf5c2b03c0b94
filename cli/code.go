package cli

import (
	"github.com/kiwi-automation/kiwi/commands"
	"github.com/kiwi-automation/kiwi/kiwi"
	"github.com/kiwi-automation/kiwi/types"
	"github.com/spf13/cobra"
)

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Generate script snippets",
	Long:  `Generates script code for a search, in the language of the open project.`,
}

func imageCodeRequest() (kiwi.ImageCodeRequest, error) {
	region, err := parseRegion(regionSpec)
	if err != nil {
		return kiwi.ImageCodeRequest{}, err
	}
	t, err := types.NewF64(threshold)
	if err != nil {
		return kiwi.ImageCodeRequest{}, err
	}
	return kiwi.ImageCodeRequest{Subpath: subpath, Region: region, Threshold: t}, nil
}

func relativeColorsCodeRequest(region kiwi.Region) (kiwi.RelativeColorsCodeRequest, error) {
	vertex, err := types.NewHexColor(vertexHex)
	if err != nil {
		return kiwi.RelativeColorsCodeRequest{}, err
	}
	points, err := parseColoredPoints(relativeSpecs)
	if err != nil {
		return kiwi.RelativeColorsCodeRequest{}, err
	}
	offset, err := parseRgbOffset(rgbOffset)
	if err != nil {
		return kiwi.RelativeColorsCodeRequest{}, err
	}
	return kiwi.RelativeColorsCodeRequest{VertexHex: vertex, RelativePoints: points, Region: region, RgbOffset: offset}, nil
}

func colorsCodeRequest(region kiwi.Region) (kiwi.ColorsCodeRequest, error) {
	colors, err := parseHexColors(hexColors)
	if err != nil {
		return kiwi.ColorsCodeRequest{}, err
	}
	offset, err := parseRgbOffset(rgbOffset)
	if err != nil {
		return kiwi.ColorsCodeRequest{}, err
	}
	return kiwi.ColorsCodeRequest{HexColors: colors, Region: region, RgbOffset: offset}, nil
}

var codeFindImageCmd = &cobra.Command{
	Use:   "find-image",
	Short: "Generate code finding a saved image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := imageCodeRequest()
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.FindImageCodeCommand(cmd.Context(), req))
	},
}

var codeFindImagesCmd = &cobra.Command{
	Use:   "find-images",
	Short: "Generate code finding every match of a saved image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := imageCodeRequest()
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.FindImagesCodeCommand(cmd.Context(), req))
	},
}

var codeFindRelativeColorsCmd = &cobra.Command{
	Use:   "find-relative-colors",
	Short: "Generate code finding a vertex color with relative points",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		region, err := parseRegion(regionSpec)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		req, err := relativeColorsCodeRequest(region)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.FindRelativeColorsCodeCommand(cmd.Context(), req))
	},
}

var codeFindColorsCmd = &cobra.Command{
	Use:   "find-colors",
	Short: "Generate code finding any of the given colors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		region, err := parseRegion(regionSpec)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		req, err := colorsCodeRequest(region)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.FindColorsCodeCommand(cmd.Context(), req))
	},
}

var codeRecognizeTextCmd = &cobra.Command{
	Use:   "recognize-text",
	Short: "Generate code recognizing text in a region",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		region, err := parseRegion(regionSpec)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.RecognizeTextCodeCommand(cmd.Context(), region))
	},
}

func init() {
	rootCmd.AddCommand(codeCmd)

	all := []*cobra.Command{codeFindImageCmd, codeFindImagesCmd, codeFindRelativeColorsCmd, codeFindColorsCmd, codeRecognizeTextCmd}
	for _, cmd := range all {
		codeCmd.AddCommand(cmd)
		cmd.Flags().StringVar(&regionSpec, "region", "", "search region as x1,y1,x2,y2")
		_ = cmd.MarkFlagRequired("region")
	}

	for _, cmd := range []*cobra.Command{codeFindImageCmd, codeFindImagesCmd} {
		cmd.Flags().StringVar(&subpath, "subpath", "", "image path relative to the project image directory")
		cmd.Flags().Float64Var(&threshold, "threshold", 0.9, "minimum match score in [0, 1]")
		_ = cmd.MarkFlagRequired("subpath")
	}

	addColorFlags(codeFindRelativeColorsCmd)
	codeFindRelativeColorsCmd.Flags().StringVar(&vertexHex, "vertex", "", "vertex color as #rrggbb")
	codeFindRelativeColorsCmd.Flags().StringArrayVar(&relativeSpecs, "point", nil, "relative point as x,y,#rrggbb (repeatable)")
	_ = codeFindRelativeColorsCmd.MarkFlagRequired("vertex")

	addColorFlags(codeFindColorsCmd)
	codeFindColorsCmd.Flags().StringSliceVar(&hexColors, "color", nil, "color to look for as #rrggbb (repeatable)")
	_ = codeFindColorsCmd.MarkFlagRequired("color")
}
