package cli

import (
	"encoding/json"
	"path/filepath"

	"github.com/kac-dev/kac/internal/config"
	kacerrors "github.com/kac-dev/kac/internal/errors"
	"github.com/kac-dev/kac/internal/output"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(d deps, f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage kac configuration",
		Long: `Manage kac configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (KAC_*)
  2. Project config (.kac.yml, .kac.toml, legacy .kac.json)
  3. User config (~/.config/kac/config.yml)
  4. Built-in defaults`,
		Example: `  # Show the effective configuration
  kac config show

  # Write a commented .kac.yml
  kac config init`,
		Args: cobra.NoArgs,
	}

	cmd.AddCommand(newConfigShowCmd(d, f))
	cmd.AddCommand(newConfigInitCmd(d))
	return cmd
}

func newConfigShowCmd(d deps, f *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := d.getwd()
			if err != nil {
				return kacerrors.WrapWithMessage(err, kacerrors.IO, "cannot determine working directory")
			}
			cfg, err := loadConfig(dir, f, d.stderr)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), f, cfg)

			var data []byte
			if asJSON {
				data, err = json.MarshalIndent(cfg, "", "  ")
				data = append(data, '\n')
			} else {
				data, err = yaml.Marshal(cfg)
			}
			if err != nil {
				return kacerrors.WrapWithMessage(err, kacerrors.Configuration, "encoding configuration")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newConfigInitCmd(d deps) *cobra.Command {
	var (
		user  bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config file",
		Long: `Write a config file holding every option with its default value.

By default the project file .kac.yml is created in the working directory.
Use --user for ~/.config/kac/config.yml. Existing files are left unchanged
unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configInitPath(d, user)
			if err != nil {
				return err
			}

			exists, err := afero.Exists(d.fs, path)
			if err != nil {
				return kacerrors.WrapWithMessage(err, kacerrors.IO, "checking "+path)
			}
			printer := output.New(d.stdout, d.stderr)
			if exists && !force {
				printer.Warning("Config already exists at %s (use --force to overwrite)", path)
				return nil
			}

			if err := d.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return kacerrors.WrapWithMessage(err, kacerrors.IO, "creating config directory")
			}
			if err := afero.WriteFile(d.fs, path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
				return kacerrors.WrapWithMessage(err, kacerrors.IO, "writing "+path)
			}
			printer.Success("Created config %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "Create the user-level config instead of .kac.yml")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")
	return cmd
}

func configInitPath(d deps, user bool) (string, error) {
	if user {
		path, err := config.UserConfigPath()
		if err != nil {
			return "", kacerrors.WrapWithMessage(err, kacerrors.Configuration, "locating user config directory",
				"Set XDG_CONFIG_HOME or HOME")
		}
		return path, nil
	}

	dir, err := d.getwd()
	if err != nil {
		return "", kacerrors.WrapWithMessage(err, kacerrors.IO, "cannot determine working directory")
	}
	return config.ProjectConfigPath(dir), nil
}
