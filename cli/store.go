package cli

import (
	"encoding/json"

	"github.com/kiwi-automation/kiwi/commands"
	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Read and write the local key/value store",
}

var storeGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a stored value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.StoreGetCommand(commands.StoreRequest{Key: args[0]}))
	},
}

var storeSetCmd = &cobra.Command{
	Use:   "set [key] [json]",
	Short: "Store a JSON value",
	Long:  `Stores a value under key. The value must be JSON, so strings need quotes: kiwi store set name '"demo"'.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.StoreSetCommand(commands.StoreRequest{Key: args[0], Value: json.RawMessage(args[1])}))
	},
}

var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.StoreClearCommand())
	},
}

var storeKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the stored keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.StoreKeysCommand())
	},
}

var zoomCmd = &cobra.Command{
	Use:   "zoom [get|in|out|set]",
	Short: "Read or change the UI zoom",
	Long:  `Reads or changes the persisted UI zoom factor. "set" takes the factor from --factor.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "get"
		if len(args) == 1 {
			action = args[0]
		}
		return printResponse(commands.ZoomCommand(commands.ZoomRequest{Action: action, Factor: zoomFactor}))
	},
}

var appStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the persisted application state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.AppStateCommand())
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(zoomCmd)

	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeSetCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeKeysCmd)

	zoomCmd.Flags().Float64Var(&zoomFactor, "factor", 1.0, "zoom factor for 'set'")
}
