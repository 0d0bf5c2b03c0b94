package cli

import (
	"fmt"
	"strconv"

	"github.com/kiwi-automation/kiwi/commands"
	"github.com/spf13/cobra"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Backend application info and settings",
}

var appInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the backend application info",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.AppInfoCommand(cmd.Context()))
	},
}

var appSaveConfigCmd = &cobra.Command{
	Use:   "save-config [websocket-port]",
	Short: "Save the backend application config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return printResponse(commands.NewErrorResponse(fmt.Errorf("invalid websocket port '%s'", args[0])))
		}
		return printResponse(commands.AppSaveConfigCommand(cmd.Context(), commands.AppConfigRequest{WebsocketPort: uint16(port)}))
	},
}

func init() {
	rootCmd.AddCommand(appCmd)

	appCmd.AddCommand(appInfoCmd)
	appCmd.AddCommand(appSaveConfigCmd)
	appCmd.AddCommand(appStateCmd)
}
