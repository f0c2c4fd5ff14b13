package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcsync/cmd/mcsync/commands/flags"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/paths"
	"github.com/thoreinstein/mcsync/pkg/fileutil"
)

var (
	initYes   bool
	initForce bool
)

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Non-interactive mode, accept all defaults")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Create a configuration file with the default settings.

The file is written to the --config path if given, otherwise to
config.yaml in the user config directory. A path ending in .toml is
written as TOML.

The game directory is left unset so the platform default is used; set
paths.minecraft_path to override it.`,
	Example: `  # Create the user config, asking first
  mcsync init

  # Create a TOML config next to a modpack
  mcsync init --yes --config ./pack.toml

  # Force overwrite existing configuration
  mcsync init --force

  See Also: mcsync config, mcsync doctor`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	return runInitWithIO(flags.ConfigPath(), cmd.InOrStdin(), cmd.OutOrStdout())
}

func runInitWithIO(configPath string, in io.Reader, w io.Writer) error {
	if configPath == "" {
		configPath = paths.DefaultConfigFile()
	}

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(w, "Configuration already exists at %s\n", configPath)
		fmt.Fprintln(w, "Use --force to overwrite")
		return nil
	}

	cfg := config.Default()
	if root, err := cfg.Resolver().Resolve(); err == nil {
		fmt.Fprintf(w, "Game directory: %s\n", root)
	} else {
		fmt.Fprintf(w, "Game directory: not detected (%v)\n", err)
	}

	if !initYes {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "This will create:")
		fmt.Fprintf(w, "  %s\n", configPath)
		fmt.Fprintln(w)

		if !confirm(in, w, "Proceed?") {
			fmt.Fprintln(w, "Aborted")
			return nil
		}
	}

	if err := paths.EnsureDir(filepath.Dir(configPath), 0); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating config directory"), "")
	}
	if err := fileutil.AtomicWriteConfig(configPath, cfg); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "writing config file"), "")
	}

	fmt.Fprintf(w, "Created %s\n", configPath)
	return nil
}

// confirm prompts the user for a yes/no confirmation.
// Returns true only if the user enters "y" or "yes" (case-insensitive).
func confirm(in io.Reader, w io.Writer, prompt string) bool {
	reader := bufio.NewReader(in)
	fmt.Fprintf(w, "%s [y/N] ", prompt)

	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
