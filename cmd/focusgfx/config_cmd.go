package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"focusgfx/internal/config"
	"focusgfx/internal/fsutil"
)

var configInitForce bool

// configCmd groups config file helpers
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the focusgfx config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with the default settings",
	Long: `Writes the default configuration as YAML.

The file defaults to ` + config.FileName + ` in the current directory, which focusgfx
reads automatically. Existing files are kept unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Prints the configuration after the config file and FOCUSGFX_* environment
variables have been applied.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.FileName
	if len(args) == 1 {
		path = args[0]
	}
	if fsutil.Exists(path) && !configInitForce {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(data))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
