// Package backup provides CLI commands for managing folder backups.
package backup

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/lock"
)

// folderFlag holds the value of the --folder flag shared by the subcommands.
var folderFlag []string

func init() {
	Cmd.PersistentFlags().StringSliceVar(&folderFlag, "folder", nil,
		fmt.Sprintf("limit to folder(s): %v (default: all)", content.Names()))
}

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage folder backups",
	Long: `Manage the backups mcsync keeps in the game directory.

Before a folder is synced, the live copy is renamed to
<folder>.bak.<YYYYMMDD_HHMMSS>. Only the newest backups per folder are kept
(backup.retention, default 3). This command group lists, prunes and restores
them.`,
	Example: `  # List all backups
  mcsync backup list

  # List backups of the mods folder as JSON
  mcsync backup list --folder mods --json

  # Restore a backup, picking it interactively
  mcsync backup restore

  # Remove old backups, keeping the 2 most recent
  mcsync backup prune --keep 2

  See Also:
    mcsync backup list    - List available backups
    mcsync backup restore - Restore from a backup
    mcsync backup prune   - Remove old backups`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// target is the game directory and the folders a subcommand works on.
type target struct {
	root    string
	kinds   []content.Kind
	manager *backup.Manager
}

func resolveTarget(cfg *config.Config, logger *slog.Logger) (*target, error) {
	kinds, err := content.ParseAll(folderFlag)
	if err != nil {
		return nil, errors.NewUserError(err, "")
	}
	root, err := cfg.Resolver().Resolve()
	if err != nil {
		return nil, errors.NewUserError(errors.Wrap(err, "resolving destination root"),
			"Set paths.minecraft_path in the config file")
	}
	return &target{
		root:  root,
		kinds: kinds,
		manager: backup.NewManager(
			backup.WithRetentionCount(cfg.Backup.Retention),
			backup.WithLogger(logger),
		),
	}, nil
}

// acquireLock takes the destination lock when cfg enables it. The returned func
// releases it and is never nil.
func (t *target) acquireLock(cfg *config.Config, logger *slog.Logger) (func(), error) {
	if !cfg.Lock.Enabled {
		return func() {}, nil
	}
	l := lock.New(t.root)
	if err := l.Acquire(); err != nil {
		return nil, errors.NewUserError(err, "Wait for the running sync to finish")
	}
	return func() {
		if err := l.Release(); err != nil {
			logger.Warn("could not release lock", "error", err)
		}
	}, nil
}
