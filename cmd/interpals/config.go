package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"interpals/pkg/config"
	"interpals/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage interpals configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (INTERPALS_*)
  - .env and ~/.interpals.env files
  - Configuration file
  - Default values (lowest priority)`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to a file",
	Long: `Write the default configuration to .interpals.yaml in the current
directory, or to the path given with --config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if path == "" {
			path = ".interpals.yaml"
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return fmt.Errorf("failed to create configuration file: %w", err)
		}
		ui.PrintSuccess("Configuration file created: " + path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.PrintHighlight("Current Configuration")
		return printYAML(cfg)
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Loading already validated it
		ui.PrintSuccess("Configuration is valid")
		ui.PrintInfo("Site", cfg.Interpals.BaseURL)
		ui.PrintInfo("Timeout", cfg.HTTP.Timeout.String())
		ui.PrintInfo("Page delay", cfg.Search.PageDelay.String())
		ui.PrintInfo("Search limit", fmt.Sprint(cfg.Search.Limit))
		ui.PrintInfo("Session store", cfg.Session.Store)
		ui.PrintInfo("Log level", cfg.Logging.Level)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}
