package commands

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcsync/cmd/mcsync/commands/flags"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/logging"
	"github.com/thoreinstein/mcsync/internal/orchestrator"
	"github.com/thoreinstein/mcsync/internal/paths"
)

var syncJSON bool

func init() {
	syncCmd.Flags().BoolVar(&syncJSON, "json", false, "output the run report as JSON")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Back up and sync every enabled folder",
	Long: `Copy mods, resourcepacks and shaderpacks from the source directory into
the game directory.

Each enabled folder is first renamed to <folder>.bak.<timestamp> and then
copied fresh from the source. Files are overwritten, nothing is deleted from
the destination, and only the newest backups are kept.

If the run cannot continue (an invalid path, a locked game directory, a
failed backup or installer), folders are restored from their newest backups
before mcsync exits.

Exit codes:
  0 - Every enabled folder synced
  1 - The run failed or the configuration is invalid
  2 - An unexpected system error`,
	Example: `  # Sync with the configured paths
  mcsync sync

  # Use a specific config file and print a JSON report
  mcsync sync --config ./pack.toml --json

  See Also: mcsync rollback, mcsync backup list`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	return runSyncWithWriter(ctx, flags.Config(), logging.FromContext(ctx), cmd.OutOrStdout())
}

func runSyncWithWriter(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer, opts ...orchestrator.Option) error {
	if errs := config.Validate(cfg); len(errs) > 0 {
		return errors.NewConfigError(errors.Wrap(errors.Join(errs...), "invalid configuration"))
	}

	opts = append([]orchestrator.Option{orchestrator.WithLogger(logger)}, opts...)
	report, runErr := orchestrator.New(cfg, opts...).Run(ctx)

	format := orchestrator.FormatText
	if syncJSON {
		format = orchestrator.FormatJSON
	}
	if err := orchestrator.NewReporter(w, format).Report(report); err != nil {
		return errors.NewSystemError(err, "")
	}

	switch {
	case runErr == nil && report.Succeeded():
		return nil
	case runErr == nil:
		err := errors.Wrapf(errors.ErrRunFailed, "folders failed: %s",
			strings.Join(content.Strings(report.Failed()), ", "))
		return errors.NewUserError(err, "Run: mcsync rollback")
	case errors.Is(runErr, errors.ErrRunFailed):
		return errors.NewUserError(runErr, "Run: mcsync backup list")
	case errors.Is(runErr, paths.ErrUnsupportedPlatform):
		return errors.NewUserError(runErr, "Set paths.minecraft_path in the config file")
	default:
		return errors.NewSystemError(runErr, "Run: mcsync doctor")
	}
}
