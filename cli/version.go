package cli

import (
	"context"
	"time"

	"github.com/kiwi-automation/kiwi/commands"
	"github.com/kiwi-automation/kiwi/utils"
	"github.com/spf13/cobra"
)

type versionResponse struct {
	Version string            `json:"version"`
	Update  *utils.UpdateInfo `json:"update,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the kiwi version",
	Long:        `Prints the version. With --check the latest GitHub release is compared against it.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipEnv: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		resp := versionResponse{Version: version}
		if checkUpdate {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			info, err := utils.CheckForUpdate(ctx, utils.ReleaseRepo, version)
			if err != nil {
				return printResponse(commands.NewErrorResponse(err))
			}
			resp.Update = info
		}
		return printResponse(commands.NewSuccessResponse(resp))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&checkUpdate, "check", false, "check GitHub for a newer release")
}
