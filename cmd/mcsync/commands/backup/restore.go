package backup

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcsync/cmd/mcsync/commands/flags"
	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/logging"
	"github.com/thoreinstein/mcsync/internal/rollback"
)

// errAborted is returned when the interactive picker is cancelled.
var errAborted = errors.New("restore aborted")

// selectFunc picks one of backups. It is replaced in tests.
type selectFunc func(backups []backup.Backup) (int, error)

func init() {
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-name]",
	Short: "Restore a folder from a backup",
	Long: `Replace a folder in the game directory with one of its backups.

With a backup name, that backup is restored. Without one, an interactive
picker lists every backup when stdin is a terminal; otherwise the newest
backup is used. Use --folder to limit the candidates.

The live folder is removed and the backup is renamed into its place. The
game directory is locked while this happens, as during a sync.`,
	Example: `  # Pick a backup interactively
  mcsync backup restore

  # Restore the newest mods backup
  mcsync backup restore --folder mods

  # Restore a specific backup
  mcsync backup restore mods.bak.20260123_100712

  See Also:
    mcsync backup list - List available backups
    mcsync rollback    - Restore every folder from its newest backup`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	var pick selectFunc
	if logging.IsTTY(os.Stdin) && logging.IsTTY(cmd.OutOrStdout()) {
		pick = fuzzySelect
	}
	return runRestoreWithWriter(flags.Config(), logging.FromContext(cmd.Context()), args, pick, cmd.OutOrStdout())
}

// runRestoreWithWriter restores the named backup, or the one chosen by pick,
// or the newest when pick is nil.
func runRestoreWithWriter(cfg *config.Config, logger *slog.Logger, args []string, pick selectFunc, w io.Writer) error {
	t, err := resolveTarget(cfg, logger)
	if err != nil {
		return err
	}

	candidates, err := listAll(t)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return errors.NewUserError(backup.ErrNoBackupsFound, "Run: mcsync backup list")
	}

	var chosen backup.Backup
	switch {
	case len(args) > 0:
		idx := indexOf(candidates, args[0])
		if idx < 0 {
			return errors.NewUserError(errors.Wrapf(backup.ErrNoBackupsFound, "%s", args[0]),
				"Run: mcsync backup list")
		}
		chosen = candidates[idx]
	case pick != nil:
		idx, err := pick(candidates)
		if err != nil {
			if errors.Is(err, errAborted) {
				fmt.Fprintln(w, "Aborted")
				return nil
			}
			return errors.Wrap(err, "selecting backup")
		}
		chosen = candidates[idx]
	default:
		chosen = newest(candidates)
		fmt.Fprintf(w, "Using most recent backup: %s\n", chosen.Name)
	}

	kind, err := content.Parse(chosen.Folder)
	if err != nil {
		return errors.Wrap(err, "backup folder")
	}

	release, err := t.acquireLock(cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	mgr := rollback.NewManager(cfg.Resolver(),
		rollback.WithBackupManager(t.manager),
		rollback.WithLogger(logger),
	)
	outcome := mgr.Restore(kind, chosen)
	for _, warn := range outcome.Warnings {
		fmt.Fprintf(w, "%s\n", color.YellowString("warning: %v", warn))
	}
	if outcome.Err != nil {
		return errors.NewUserError(errors.Wrapf(outcome.Err, "restoring %s", chosen.Name), "Run: mcsync doctor")
	}

	fmt.Fprintf(w, "%s Restored %s from %s\n", color.GreenString("✓"), kind, chosen.Name)
	return nil
}

// listAll returns the backups of every selected folder, grouped by folder
// in processing order and newest first within each folder.
func listAll(t *target) ([]backup.Backup, error) {
	var all []backup.Backup
	for _, k := range t.kinds {
		backups, err := t.manager.List(t.root, k.String())
		if err != nil {
			return nil, errors.Wrapf(err, "listing backups for %s", k)
		}
		all = append(all, backups...)
	}
	return all, nil
}

func indexOf(backups []backup.Backup, name string) int {
	for i, b := range backups {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// newest returns the most recently modified backup across folders.
func newest(backups []backup.Backup) backup.Backup {
	best := backups[0]
	for _, b := range backups[1:] {
		if b.ModTime.After(best.ModTime) {
			best = b
		}
	}
	return best
}

func fuzzySelect(backups []backup.Backup) (int, error) {
	idx, err := fuzzyfinder.Find(
		backups,
		func(i int) string {
			return backups[i].Name
		},
		fuzzyfinder.WithPromptString("restore> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			b := backups[i]
			size := "?"
			if n, err := backup.Size(b); err == nil {
				size = humanize.Bytes(uint64(n))
			}
			return fmt.Sprintf("Folder:  %s\nCreated: %s (%s)\nSize:    %s\nPath:    %s",
				b.Folder,
				b.ModTime.Local().Format("2006-01-02 15:04:05"),
				humanize.Time(b.ModTime),
				size,
				b.Path(),
			)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return 0, errAborted
		}
		return 0, err
	}
	return idx, nil
}
