package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/upgradecheck/internal/config"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage the upgradecheck configuration.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. System config (` + config.SystemConfigPath + `)
  3. Config file given with --config
  4. Environment variables (UPGRADECHECK_*)`,
		Example: `  # Write a config file with the defaults
  upgradecheck config init

  # Show effective configuration
  upgradecheck config show --json`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(root))
	cmd.AddCommand(newConfigPathCmd(root))

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(path); err == nil && !force {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration already exists at %s\n", path)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Use --force to overwrite it with the defaults")
				return nil
			}

			if err := config.NewConfig().WriteYAML(path); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created configuration at %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", config.SystemConfigPath, "Where to write the config file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(root.cfg)
			}

			data, err := yaml.Marshal(root.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), firstNonEmpty(root.configPath, config.SystemConfigPath))
			return err
		},
	}
}
