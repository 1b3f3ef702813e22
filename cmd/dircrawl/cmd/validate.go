package cmd

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/dircrawl/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate checks the configuration file for syntax errors, unknown
algorithm or format names, and incomplete database settings.

Example:
  dircrawl validate --config dircrawl.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	color.Green.Printf("configuration %s is valid\n", configFile)
	cmd.Printf("  algorithm: %s\n", cfg.Hashing.Algorithm)
	cmd.Printf("  output:    %s (%s)\n", cfg.Output.Directory, cfg.Output.Format)
	if cfg.Database.Enabled {
		cmd.Printf("  database:  %s\n", cfg.Database.Driver)
	}
	if len(cfg.Exclude) > 0 {
		cmd.Printf("  excluded:  %d path(s)\n", len(cfg.Exclude))
	}
	return nil
}
