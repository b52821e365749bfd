package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/csheth/nutriscout/internal/config"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage NutriScout configuration",
		Long: `Manage NutriScout configuration files and settings.

Configuration is merged from built-in defaults, ./.nutriscout.yaml,
~/.config/nutriscout/config.yaml, NUTRISCOUT_* environment variables
and command-line flags, in increasing priority.`,
	}

	configCmd.AddCommand(newConfigShowCommand(opts))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

func newConfigShowCommand(opts *rootOptions) *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective configuration after merging every source.`,
		Example: `  nutriscout config show
  nutriscout config show --format json
  nutriscout config show --endpoint http://classifier:5000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := config.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config to YAML: %w", err)
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}
			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	return showCmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Example: `  nutriscout config init
  nutriscout config init --output ~/.config/nutriscout/config.yaml --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(outputPath, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", outputPath)
			return nil
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "output", "o", config.ConfigPaths[0], "output path for config file")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")
	return initCmd
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List configuration search paths",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, path := range config.ConfigPaths {
				status := "missing"
				if info, err := os.Stat(config.ExpandPath(path)); err == nil && !info.IsDir() {
					status = "found"
				}
				fmt.Fprintf(out, "%-40s %s\n", path, status)
			}
		},
	}
}
