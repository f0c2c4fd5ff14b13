package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcsync/cmd/mcsync/commands/flags"
	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/lock"
	"github.com/thoreinstein/mcsync/internal/logging"
	"github.com/thoreinstein/mcsync/internal/orchestrator"
	"github.com/thoreinstein/mcsync/internal/rollback"
)

var rollbackFolders []string

func init() {
	rollbackCmd.Flags().StringSliceVar(&rollbackFolders, "folder", nil,
		fmt.Sprintf("folder(s) to restore: %v (default: all)", content.Names()))
	rootCmd.AddCommand(rollbackCmd)
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore folders from their newest backups",
	Long: `Replace each folder in the game directory with its newest backup.

The live folder is removed and the backup is renamed into its place, so the
backup is consumed. Folders without a backup are left alone. Each folder is
handled independently: a failure on one does not stop the others.`,
	Example: `  # Restore every folder
  mcsync rollback

  # Restore only the mods folder
  mcsync rollback --folder mods

  See Also: mcsync backup restore, mcsync backup list`,
	Args: cobra.NoArgs,
	RunE: runRollback,
}

func runRollback(cmd *cobra.Command, _ []string) error {
	return runRollbackWithWriter(flags.Config(), logging.FromContext(cmd.Context()), cmd.OutOrStdout())
}

func runRollbackWithWriter(cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	kinds, err := content.ParseAll(rollbackFolders)
	if err != nil {
		return errors.NewUserError(err, "")
	}

	resolver := cfg.Resolver()
	if cfg.Lock.Enabled {
		root, err := resolver.Resolve()
		if err != nil {
			return errors.NewUserError(err, "Set paths.minecraft_path in the config file")
		}
		l := lock.New(root)
		if err := l.Acquire(); err != nil {
			return errors.NewUserError(err, "Wait for the running sync to finish")
		}
		defer func() {
			if err := l.Release(); err != nil {
				logger.Warn("could not release lock", "error", err)
			}
		}()
	}

	bm := backup.NewManager(
		backup.WithRetentionCount(cfg.Backup.Retention),
		backup.WithLogger(logger),
	)
	mgr := rollback.NewManager(resolver,
		rollback.WithBackupManager(bm),
		rollback.WithLogger(logger),
	)

	report, err := mgr.Rollback(kinds)
	if err != nil {
		return errors.NewUserError(errors.Wrap(err, "rolling back"), "Run: mcsync doctor")
	}

	fmt.Fprintf(w, "Destination: %s\n\n", report.Root)
	orchestrator.WriteRollback(w, report)

	if !report.Succeeded() {
		return errors.NewUserError(errors.Wrap(errors.Join(report.Errors()...), "rollback incomplete"),
			"Run: mcsync backup list")
	}
	fmt.Fprintf(w, "\nRestored %d folder(s)\n", report.Count(rollback.StatusRestored))
	return nil
}
