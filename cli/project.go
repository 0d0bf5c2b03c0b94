package cli

import (
	"github.com/kiwi-automation/kiwi/commands"
	"github.com/kiwi-automation/kiwi/types"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage kiwi projects",
	Long:  `Creates, opens and runs kiwi projects through the backend.`,
}

var projectSaveCmd = &cobra.Command{
	Use:   "save [path]",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := types.ParseLanguage(projectLanguage)
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.ProjectSaveCommand(cmd.Context(), commands.ProjectSaveRequest{
			Name:     projectName,
			Language: lang,
			Path:     args[0],
		}))
	},
}

// pathCommand builds a subcommand taking one path argument.
func pathCommand(use, short string, run func(cmd *cobra.Command, req commands.PathRequest) *commands.CommandResponse) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [path]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(run(cmd, commands.PathRequest{Path: args[0]}))
		},
	}
}

// simpleCommand builds a subcommand without arguments.
func simpleCommand(use, short string, run func(cmd *cobra.Command) *commands.CommandResponse) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(run(cmd))
		},
	}
}

var projectImageSaveCmd = &cobra.Command{
	Use:   "save-image [name] [png]",
	Short: "Save an image into the open project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := loadPng(args[1])
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}
		return printResponse(commands.ProjectSaveImageCommand(cmd.Context(), commands.ImageRequest{Name: args[0], Data: data}))
	},
}

var projectImageGetCmd = &cobra.Command{
	Use:   "get-image [name]",
	Short: "Read a project image as an RGBA buffer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.ProjectGetImageCommand(cmd.Context(), commands.ImageRequest{Name: args[0], DataPath: imageDataPath}))
	},
}

var projectImageSizeCmd = &cobra.Command{
	Use:   "image-size [name]",
	Short: "Print the size of a project image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.ProjectGetImageSizeCommand(cmd.Context(), commands.ImageRequest{Name: args[0], DataPath: imageDataPath}))
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.AddCommand(projectSaveCmd)
	projectSaveCmd.Flags().StringVar(&projectName, "name", "", "project name")
	projectSaveCmd.Flags().StringVar(&projectLanguage, "language", string(types.LanguagePython), "script language (python or lua)")
	_ = projectSaveCmd.MarkFlagRequired("name")

	projectCmd.AddCommand(
		pathCommand("init", "Initialise a project directory", func(cmd *cobra.Command, req commands.PathRequest) *commands.CommandResponse {
			return commands.ProjectInitCommand(cmd.Context(), req)
		}),
		pathCommand("reinit", "Rewrite the project files of a directory", func(cmd *cobra.Command, req commands.PathRequest) *commands.CommandResponse {
			return commands.ProjectReinitCommand(cmd.Context(), req)
		}),
		pathCommand("verify", "Check whether a directory holds a valid project", func(cmd *cobra.Command, req commands.PathRequest) *commands.CommandResponse {
			return commands.ProjectVerifyCommand(cmd.Context(), req)
		}),
		pathCommand("open", "Open a project and remember its parent directory", func(cmd *cobra.Command, req commands.PathRequest) *commands.CommandResponse {
			return commands.ProjectOpenCommand(cmd.Context(), req)
		}),
		pathCommand("run", "Run a script of the open project", func(cmd *cobra.Command, req commands.PathRequest) *commands.CommandResponse {
			return commands.ProjectRunCommand(cmd.Context(), req)
		}),
		pathCommand("config", "Read the config.toml of a project directory", func(cmd *cobra.Command, req commands.PathRequest) *commands.CommandResponse {
			return commands.ProjectConfigCommand(req)
		}),
		simpleCommand("get", "Print the open project", func(cmd *cobra.Command) *commands.CommandResponse {
			return commands.ProjectGetCommand(cmd.Context())
		}),
		simpleCommand("edit", "Open the project in its editor", func(cmd *cobra.Command) *commands.CommandResponse {
			return commands.ProjectOpenInEditorCommand(cmd.Context())
		}),
		simpleCommand("reveal", "Reveal the project folder", func(cmd *cobra.Command) *commands.CommandResponse {
			return commands.ProjectRevealFolderCommand(cmd.Context())
		}),
		simpleCommand("record", "Start the recorder", func(cmd *cobra.Command) *commands.CommandResponse {
			return commands.ProjectRunRecorderCommand(cmd.Context())
		}),
		simpleCommand("stop", "Stop every running script", func(cmd *cobra.Command) *commands.CommandResponse {
			return commands.ProjectStopAllCommand(cmd.Context())
		}),
	)

	projectCmd.AddCommand(projectImageSaveCmd)
	projectCmd.AddCommand(projectImageGetCmd)
	projectCmd.AddCommand(projectImageSizeCmd)
	for _, cmd := range []*cobra.Command{projectImageGetCmd, projectImageSizeCmd} {
		cmd.Flags().StringVar(&imageDataPath, "data-path", "", "image directory relative to the project (default: the app setting)")
	}
}
