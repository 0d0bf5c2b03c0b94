package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kiwi-automation/kiwi/backend"
	"github.com/kiwi-automation/kiwi/commands"
	"github.com/kiwi-automation/kiwi/config"
	"github.com/kiwi-automation/kiwi/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var version = "dev"

// skipEnv marks commands that run without a configured backend.
const skipEnv = "skipEnv"

var backendRegistry *backend.Registry

// SetBackendRegistry sets the registry backend clients are tracked in so
// main can close them on exit.
func SetBackendRegistry(r *backend.Registry) {
	backendRegistry = r
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kiwi",
	Short: "Client for the kiwi desktop automation backend",
	Long:  `Finds images, colors and text on captured frames, generates script snippets and manages kiwi projects through the kiwi backend.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func setup(cmd *cobra.Command, args []string) error {
	utils.SetVerbose(verbose)
	if err := utils.SetLogFormat(logFormat); err != nil {
		return err
	}
	if outputFormat != "json" && outputFormat != "yaml" {
		return fmt.Errorf("unknown output format '%s', expected 'json' or 'yaml'", outputFormat)
	}

	if cmd.Annotations[skipEnv] == "true" {
		return nil
	}

	cfg, err := config.Load(configPath,
		config.WithFlag("backend.url", cmd.Flags().Lookup("backend-url")),
		config.WithFlag("server.listen", cmd.Flags().Lookup("listen")),
		config.WithFlag("server.cors", cmd.Flags().Lookup("cors")),
		config.WithFlag("store.backend", cmd.Flags().Lookup("store")),
	)
	if err != nil {
		return err
	}
	loadedConfig = cfg

	env, err := commands.NewEnv(cfg, backendRegistry)
	if err != nil {
		return err
	}
	commands.SetEnv(env)
	utils.Verbose("Using backend %s", cfg.Backend.URL)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "output format (json or yaml)")
	rootCmd.PersistentFlags().String("backend-url", "", "websocket URL of the kiwi backend")
	rootCmd.PersistentFlags().String("store", "", "store backend (file, keyring or sql)")
}

// Execute runs the root command
func Execute() error {
	defer closeEnv()
	return rootCmd.Execute()
}

func closeEnv() {
	env, err := commands.GetEnv()
	if err != nil {
		return
	}
	if err := env.Close(); err != nil {
		utils.Warn("Failed to close stores: %v", err)
	}
	commands.SetEnv(nil)
}

// printResponse writes response in the selected output format and turns
// an error response into a command error.
func printResponse(response *commands.CommandResponse) error {
	if err := printOutput(response); err != nil {
		return err
	}
	if response.Status == "error" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}

func printOutput(data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	if outputFormat != "yaml" {
		fmt.Println(string(jsonData))
		return nil
	}

	yamlData, err := jsonToYAML(jsonData)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(yamlData)
	return err
}

// jsonToYAML re-encodes a JSON document as block style YAML, keeping the
// JSON field names and their order.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	clearStyle(&node)
	return yaml.Marshal(&node)
}

func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}
