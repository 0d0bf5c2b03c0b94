package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/kiwi-automation/kiwi/commands"
	"github.com/kiwi-automation/kiwi/daemon"
	"github.com/kiwi-automation/kiwi/server"
	"github.com/kiwi-automation/kiwi/utils"
	"github.com/spf13/cobra"
)

const defaultServerAddress = "localhost:12000"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the kiwi JSON-RPC server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the kiwi server",
	Long:  `Starts a JSON-RPC server exposing every kiwi command over HTTP and websocket.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr := loadedConfig.Server.Listen
		if listenAddr == "" {
			listenAddr = defaultServerAddress
		}

		// GetBool cannot fail for defined flags
		isDaemon, _ := cmd.Flags().GetBool("daemon")

		if err := utils.CheckListenAddr(listenAddr); err != nil {
			return err
		}

		if !isDaemon {
			return server.StartServer(listenAddr, loadedConfig.Server.CORS)
		}

		d := daemon.New(daemon.OptionsFromConfig(loadedConfig))
		child, err := d.Start()
		if err != nil {
			return fmt.Errorf("failed to start daemon: %w", err)
		}

		if child == nil {
			defer func() {
				if err := d.Release(); err != nil {
					utils.Warn("Failed to remove pid file: %v", err)
				}
			}()
			return server.StartServer(listenAddr, loadedConfig.Server.CORS)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), daemon.ReadyTimeout)
		defer cancel()
		if err := daemon.WaitReady(ctx, listenAddr, child.Pid); err != nil {
			return fmt.Errorf("server daemon (pid %d) is not answering, see %s: %w", child.Pid, d.Options().LogFile(), err)
		}

		fmt.Printf("Server daemon (pid %d) listening on %s, backend %s\n", child.Pid, listenAddr, loadedConfig.Backend.URL)
		return nil
	},
}

var serverStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the kiwi server is answering",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := daemon.OptionsFromConfig(loadedConfig)
		if opts.Listen == "" {
			opts.Listen = defaultServerAddress
		}

		status := serverStatus{URL: daemon.ServerURL(opts.Listen)}
		if pid, err := daemon.ReadPid(opts); err == nil {
			status.DaemonPid = pid
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		pong, err := daemon.Ping(ctx, opts.Listen)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		status.Running = true
		status.Pid = pong.Pid
		return printResponse(commands.NewSuccessResponse(status))
	},
}

type serverStatus struct {
	URL       string `json:"url"`
	Running   bool   `json:"running"`
	Pid       int    `json:"pid,omitempty"`
	DaemonPid int    `json:"daemonPid,omitempty"`
}

var serverKillCmd = &cobra.Command{
	Use:         "kill",
	Short:       "Stop the daemonized kiwi server",
	Long:        `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetString cannot fail for defined flags
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = defaultServerAddress
		}

		err := daemon.KillServer(addr)
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)
	serverCmd.AddCommand(serverStatusCmd)

	// server start flags, bound to server.listen and server.cors
	serverStartCmd.Flags().String("listen", "", fmt.Sprintf("Address to listen on (default: %s)", defaultServerAddress))
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")

	serverStatusCmd.Flags().String("listen", "", fmt.Sprintf("Address of the server (default: %s)", defaultServerAddress))

	// server kill flags
	serverKillCmd.Flags().String("listen", "", fmt.Sprintf("Address of server to kill (default: %s)", defaultServerAddress))
}
