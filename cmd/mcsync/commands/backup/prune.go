package backup

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcsync/cmd/mcsync/commands/flags"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/logging"
)

// pruneKeep holds the --keep flag; negative means the configured retention.
var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", -1,
		"Number of backups to retain per folder (default: backup.retention)")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove backups beyond the retention count, oldest first.

By default, keeps backup.retention backups per folder (3 unless configured).
Use --keep to override it. A backup that cannot be removed is reported and
the rest are still pruned.`,
	Example: `  # Prune using the configured retention
  mcsync backup prune

  # Keep only the most recent backup of each folder
  mcsync backup prune --keep 1

  # Remove all shaderpacks backups
  mcsync backup prune --keep 0 --folder shaderpacks`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("keep") && pruneKeep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}
	return runPruneWithWriter(flags.Config(), logging.FromContext(cmd.Context()), cmd.OutOrStdout())
}

func runPruneWithWriter(cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	t, err := resolveTarget(cfg, logger)
	if err != nil {
		return err
	}

	keep := pruneKeep
	if keep < 0 {
		keep = t.manager.RetentionCount()
	}

	removed := 0
	var failures []error
	for _, k := range t.kinds {
		res, err := t.manager.Prune(t.root, k.String(), keep)
		if err != nil {
			return errors.Wrapf(err, "pruning backups for %s", k)
		}
		for _, b := range res.Removed {
			fmt.Fprintf(w, "%s removed %s\n", color.GreenString("✓"), b.Name)
		}
		for _, err := range res.Errors {
			fmt.Fprintf(w, "%s %v\n", color.RedString("✗"), err)
		}
		removed += len(res.Removed)
		failures = append(failures, res.Errors...)
	}

	if removed == 0 && len(failures) == 0 {
		fmt.Fprintln(w, "No backups to prune")
		return nil
	}
	fmt.Fprintf(w, "\nTotal: removed %d backup(s)\n", removed)

	if len(failures) > 0 {
		return errors.NewSystemError(errors.Wrap(errors.Join(failures...), "some backups could not be removed"),
			"Check permissions in the game directory")
	}
	return nil
}
