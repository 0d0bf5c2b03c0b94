package cli

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/kiwi-automation/kiwi/commands"
	"github.com/kiwi-automation/kiwi/types"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:         "types",
	Short:       "Validated value helpers",
	Long:        `Checks values against the validated kinds used by the backend and converts colors.`,
	Annotations: map[string]string{skipEnv: "true"},
}

var typesValidateCmd = &cobra.Command{
	Use:         "validate [kind] [value]",
	Short:       "Validate a value against a kind",
	Long:        fmt.Sprintf(`Checks a raw value against one of the kinds: %s.`, strings.Join(commands.ValidationKinds, ", ")),
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.ValidateCommand(commands.ValidateRequest{Kind: args[0], Value: args[1]})
		return printResponse(response)
	},
}

var hexCmd = &cobra.Command{
	Use:   "hex",
	Short: "Hex color helpers",
}

var hexRandomCmd = &cobra.Command{
	Use:         "random",
	Short:       "Print a random #rrggbb color",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.HexRandomCommand())
	},
}

var hexFromRgbCmd = &cobra.Command{
	Use:         "from-rgb [r,g,b]",
	Short:       "Convert an RGB triple to #rrggbb",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseNumbers(args[0], 3, "rgb")
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.HexFromRgbCommand(commands.RgbRequest{R: v[0], G: v[1], B: v[2]}))
	},
}

var hexToRgbCmd = &cobra.Command{
	Use:         "to-rgb [#rrggbb]",
	Short:       "Split a hex color into its channels",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.HexToRgbCommand(commands.HexRequest{Hex: args[0]}))
	},
}

var rgbaPixelCmd = &cobra.Command{
	Use:         "rgba-pixel [hex-bytes] [index]",
	Short:       "Read one pixel of a raw RGBA buffer",
	Long:        `Reads pixel [index] of an RGBA buffer given as hex encoded bytes, 4 bytes per pixel.`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := hex.DecodeString(args[0])
		if err != nil {
			return printResponse(commands.NewErrorResponse(fmt.Errorf("invalid hex bytes: %v", err)))
		}
		buf, err := types.NewRgbaBuffer(data)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return printResponse(commands.NewErrorResponse(fmt.Errorf("invalid index '%s'", args[1])))
		}
		return printResponse(commands.RgbaPixelCommand(commands.RgbaPixelRequest{Data: buf, Index: index}))
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)

	typesCmd.AddCommand(typesValidateCmd)
	typesCmd.AddCommand(hexCmd)
	typesCmd.AddCommand(rgbaPixelCmd)

	hexCmd.AddCommand(hexRandomCmd)
	hexCmd.AddCommand(hexFromRgbCmd)
	hexCmd.AddCommand(hexToRgbCmd)
}
