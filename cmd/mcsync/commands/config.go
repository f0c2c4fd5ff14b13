package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/mcsync/cmd/mcsync/commands/flags"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/editor"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/paths"
	"github.com/thoreinstein/mcsync/pkg/fileutil"
)

// configFormat holds the value of the --format flag.
var configFormat string

func init() {
	configCmd.PersistentFlags().StringVar(&configFormat, "format", fileutil.FormatYAML,
		"output format: yaml, toml")
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration mcsync runs with: the config file merged with
defaults and MCSYNC_* environment variables.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  mcsync config

  # Show it as TOML
  mcsync config list --format toml

  # Get a single value
  mcsync config get backup.retention

See Also: mcsync init, mcsync doctor`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all effective configuration values in YAML or TOML.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Supports dot notation for nested keys. Array values are printed one per line.`,
	Example: `  # Get the retention count
  mcsync config get backup.retention

  # Get the installer arguments
  mcsync config get installer.args`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		writeConfigPath(cmd.OutOrStdout(), flags.Config())
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your default editor.

Uses $EDITOR, then $VISUAL, then nano or vi. If no configuration file
exists, run 'mcsync init' first.`,
	Example: `  # Open config in default editor
  mcsync config edit

  # Open with specific editor
  EDITOR=nano mcsync config edit`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	return writeConfigList(cmd.OutOrStdout(), flags.Config(), configFormat)
}

func writeConfigList(w io.Writer, cfg *config.Config, format string) error {
	data, err := fileutil.Marshal(cfg, format)
	if err != nil {
		if errors.Is(err, fileutil.ErrUnknownFormat) {
			return errors.NewUserError(err, "Use --format yaml or --format toml")
		}
		return errors.Wrap(err, "marshaling config")
	}
	_, err = w.Write(data)
	return err
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	return writeConfigValue(cmd.OutOrStdout(), args[0])
}

func writeConfigValue(w io.Writer, key string) error {
	if !viper.IsSet(key) {
		return errors.NewUserError(errors.Newf("unknown key %q", key), "Run: mcsync config list")
	}

	switch v := viper.Get(key).(type) {
	case []any:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case []string:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case map[string]any:
		data, err := fileutil.Marshal(v, configFormat)
		if err != nil {
			return errors.Wrap(err, "marshaling value")
		}
		_, err = w.Write(data)
		return err
	default:
		fmt.Fprintln(w, viper.GetString(key))
	}
	return nil
}

func writeConfigPath(w io.Writer, cfg *config.Config) {
	if cfg.File == "" {
		fmt.Fprintf(w, "no config file found, using defaults (create one with: mcsync init --config %s)\n",
			paths.DefaultConfigFile())
		return
	}
	fmt.Fprintln(w, cfg.File)
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := flags.Config().File
	if path == "" {
		path = flags.ConfigPath()
	}
	if path == "" {
		path = paths.DefaultConfigFile()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.NewUserError(errors.Newf("config file not found at %s", path), "Run: mcsync init")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Location: %s\n", path)
	return editor.Open(cmd.Context(), path)
}
