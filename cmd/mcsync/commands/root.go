// Package commands implements the CLI commands for mcsync.
package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcsync/cmd"
	"github.com/thoreinstein/mcsync/cmd/mcsync/commands/backup"
	"github.com/thoreinstein/mcsync/cmd/mcsync/commands/flags"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/logging"
)

// configFile holds the value of the --config flag.
var configFile string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// noColor holds the value of the --no-color flag.
var noColor bool

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml, then the user config dir)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored output")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("mcsync version {{.Version}}\n")

	// Errors are printed by main together with their suggestion.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(backup.Cmd)
}

var rootCmd = &cobra.Command{
	Use:   "mcsync",
	Short: "Sync Minecraft mods, resource packs and shader packs",
	Long: `mcsync copies the mods, resourcepacks and shaderpacks folders from a
source directory into the Minecraft game directory.

Before a folder is overwritten, the live copy is renamed to a timestamped
backup next to it. Only the most recent backups are kept. If a run fails,
the backups are renamed back so the game directory is left as it was.`,
	Example: `  # Sync using ./config.yaml or the user config
  mcsync sync

  # Undo the last sync
  mcsync rollback

  # Check paths, backups and the installer
  mcsync doctor

  See Also: mcsync init, mcsync config, mcsync backup`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"),
			"Pass only one of -q or -v")
	}
	if noColor {
		logging.DisableColor()
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("MCSYNC_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case logging.FormatText, "":
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	default:
		return errors.NewUserError(errors.Newf("unknown log format %q", logFormat),
			"Use --log-format text or --log-format json")
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// skipConfig lists commands that must work without a readable config.
var skipConfig = map[string]bool{
	"help":    true,
	"version": true,
	"init":    true,
}

// loadConfig reads the configuration and stores it for subcommands.
func loadConfig(cmd *cobra.Command) error {
	flags.SetConfigPath(configFile)
	if skipConfig[cmd.Name()] {
		return nil
	}

	config.Init()
	cfg, err := config.Load(configFile)
	if err != nil {
		return errors.NewConfigError(err)
	}
	logging.FromContext(cmd.Context()).Debug("loaded config", "file", cfg.File)
	flags.SetConfig(cfg)
	return nil
}

// Execute runs the root command. An interrupt cancels the running command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
