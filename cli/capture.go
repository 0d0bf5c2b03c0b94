package cli

import (
	"fmt"
	"strconv"

	"github.com/kiwi-automation/kiwi/commands"
	"github.com/kiwi-automation/kiwi/types"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Screen capture commands",
}

var captureMonitorSizeCmd = &cobra.Command{
	Use:   "monitor-size",
	Short: "Print the size of the captured monitor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.MonitorSizeCommand(cmd.Context()))
	},
}

var captureRequestFrameCmd = &cobra.Command{
	Use:   "request-frame",
	Short: "Ask the backend to capture a new frame",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.RequestFrameCommand(cmd.Context()))
	},
}

var pathExistsCmd = &cobra.Command{
	Use:   "path-exists [path]",
	Short: "Check a path on the backend machine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.PathExistsCommand(cmd.Context(), commands.PathRequest{Path: args[0]}))
	},
}

var xattrPythonCmd = &cobra.Command{
	Use:   "xattr-python",
	Short: "Clear the quarantine attribute of the bundled python",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.XattrPythonCommand(cmd.Context()))
	},
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "Protect application windows from capture",
}

func windowsRequest(args []string) (commands.WindowsRequest, error) {
	windows := make([]types.WindowLabel, 0, len(args))
	for _, arg := range args {
		label, err := types.ParseWindowLabel(arg)
		if err != nil {
			return commands.WindowsRequest{}, err
		}
		windows = append(windows, label)
	}
	return commands.WindowsRequest{Windows: windows}, nil
}

var windowsProtectCmd = &cobra.Command{
	Use:   "protect [main|monitor]...",
	Short: "Hide windows from screen capture",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := windowsRequest(args)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.ProtectWindowsCommand(cmd.Context(), req))
	},
}

var windowsUnprotectCmd = &cobra.Command{
	Use:   "unprotect [main|monitor]...",
	Short: "Show windows to screen capture again",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := windowsRequest(args)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.UnprotectWindowsCommand(cmd.Context(), req))
	},
}

var websocketCmd = &cobra.Command{
	Use:   "websocket",
	Short: "Manage the backend's script websocket",
}

func portRequest(arg string) (commands.PortRequest, error) {
	n, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return commands.PortRequest{}, fmt.Errorf("invalid port '%s'", arg)
	}
	port, err := types.NewPort(n)
	if err != nil {
		return commands.PortRequest{}, err
	}
	return commands.PortRequest{Port: port}, nil
}

var websocketOpenCmd = &cobra.Command{
	Use:   "open [port]",
	Short: "Open the script websocket on a port",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := portRequest(args[0])
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.OpenWebsocketCommand(cmd.Context(), req))
	},
}

var websocketAliveCmd = &cobra.Command{
	Use:   "alive [port]",
	Short: "Check whether the script websocket answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := portRequest(args[0])
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.IsWebsocketAliveCommand(cmd.Context(), req))
	},
}

var websocketShutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Close the script websocket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.ShutdownWebsocketCommand(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(pathExistsCmd)
	rootCmd.AddCommand(xattrPythonCmd)
	rootCmd.AddCommand(windowsCmd)
	rootCmd.AddCommand(websocketCmd)

	captureCmd.AddCommand(captureMonitorSizeCmd)
	captureCmd.AddCommand(captureRequestFrameCmd)

	windowsCmd.AddCommand(windowsProtectCmd)
	windowsCmd.AddCommand(windowsUnprotectCmd)

	websocketCmd.AddCommand(websocketOpenCmd)
	websocketCmd.AddCommand(websocketAliveCmd)
	websocketCmd.AddCommand(websocketShutdownCmd)
}
