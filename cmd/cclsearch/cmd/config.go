package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/cclsearch/configs"
	"github.com/Aman-CERP/cclsearch/internal/config"
	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
	"github.com/Aman-CERP/cclsearch/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create configuration",
		Long: `Show or create cclsearch configuration.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config ($XDG_CONFIG_HOME/cclsearch/config.yaml)
  3. Project config (.cclsearch.yaml)
  4. Environment variables (CCLSEARCH_*)`,
		Example: `  # Create .cclsearch.yaml in the project directory
  cclsearch config init

  # Show effective configuration (merged from all sources)
  cclsearch config show

  # Print config file paths
  cclsearch config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force bool
		user  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file from the template",
		Long: `Create .cclsearch.yaml in the project directory, or the user
configuration file with --user, from the built-in template.

An existing file is left alone unless --force is given; it is then backed
up next to the original before being overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.GetUserConfigPath()
			if !user {
				dir, err := projectDir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, config.ProjectConfigFile)
			}
			return runConfigInit(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file (a backup is kept)")
	cmd.Flags().BoolVar(&user, "user", false, "Create the user configuration instead of the project one")

	return cmd
}

func runConfigInit(cmd *cobra.Command, path string, force bool) error {
	out := output.New(cmd.OutOrStdout())

	if _, err := os.Stat(path); err == nil {
		if !force {
			out.Warning("Configuration already exists")
			out.Statusf("📁", "Location: %s", path)
			out.Status("💡", "Use --force to overwrite it (a backup is kept)")
			return nil
		}

		backup, err := config.BackupFile(path)
		if err != nil {
			return err
		}
		out.Statusf("💾", "Backup: %s", backup)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return cclerrors.ConfigError("failed to create config directory", err)
	}
	if err := os.WriteFile(path, []byte(configs.ProjectConfigTemplate), 0644); err != nil {
		return cclerrors.ConfigError("failed to write config file", err).WithDetail("path", path)
	}

	out.Success("Created configuration")
	out.Statusf("📁", "Location: %s", path)
	out.Status("💡", "Run 'cclsearch config show' to verify")
	return nil
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration after merging defaults, the user
config, the project config and environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "user:    %s\n", config.GetUserConfigPath())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "project: %s\n", filepath.Join(dir, config.ProjectConfigFile))
			return nil
		},
	}
}
