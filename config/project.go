package config

import (
	"fmt"
	"path/filepath"

	"github.com/kiwi-automation/kiwi/types"
	"github.com/spf13/viper"
)

// ProjectConfigFile is the name of the per-project settings file.
const ProjectConfigFile = "config.toml"

// ProjectConfig mirrors the [project] table written by the backend when a
// project is created.
type ProjectConfig struct {
	Name        string
	Language    types.Language
	EditCommand string
	KiwiVersion string
}

// LoadProject reads <projectPath>/config.toml.
func LoadProject(projectPath string) (*ProjectConfig, error) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(projectPath, ProjectConfigFile))
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read project config: %w", err)
	}

	name := v.GetString("project.name")
	if name == "" {
		return nil, fmt.Errorf("project config is missing project.name")
	}

	lang, err := types.ParseLanguage(v.GetString("project.language"))
	if err != nil {
		return nil, fmt.Errorf("project config: %w", err)
	}

	return &ProjectConfig{
		Name:        name,
		Language:    lang,
		EditCommand: v.GetString("project.edit_command"),
		KiwiVersion: v.GetString("project.kiwi_version"),
	}, nil
}
