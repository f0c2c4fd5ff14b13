package rollback

import (
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/content"
)

// ErrFolderMismatch indicates a backup was offered for a different folder.
var ErrFolderMismatch = errors.New("backup belongs to a different folder")

// RootResolver yields the destination root. *paths.Resolver implements it.
type RootResolver interface {
	Resolve() (string, error)
}

// Manager restores managed folders from their newest backup.
type Manager struct {
	resolver RootResolver
	backups  *backup.Manager
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithBackupManager sets the manager used to list backups.
func WithBackupManager(b *backup.Manager) Option {
	return func(m *Manager) {
		if b != nil {
			m.backups = b
		}
	}
}

// NewManager creates a Manager that resolves the destination root through r.
func NewManager(r RootResolver, opts ...Option) *Manager {
	m := &Manager{
		resolver: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.backups == nil {
		m.backups = backup.NewManager(backup.WithLogger(m.logger))
	}
	return m
}

// RollbackAll restores every managed folder.
func (m *Manager) RollbackAll() (*Report, error) {
	return m.Rollback(content.Kinds())
}

// Rollback restores each of kinds from its newest backup. Kinds are handled
// independently: a failure on one is recorded in its outcome and the rest
// still run. A root that does not exist holds no backups, so every kind
// reports nothing to restore. The returned error is reserved for failures
// that prevent the rollback as a whole.
func (m *Manager) Rollback(kinds []content.Kind) (*Report, error) {
	root, err := m.resolver.Resolve()
	if err != nil {
		return nil, errors.Wrap(err, "resolving destination root")
	}

	report := &Report{Root: root}
	for _, kind := range kinds {
		report.Outcomes = append(report.Outcomes, m.rollbackKind(root, kind))
	}

	if report.Succeeded() {
		m.logger.Info("rollback finished", "root", root, "restored", report.Count(StatusRestored))
	} else {
		m.logger.Warn("rollback finished with errors", "root", root, "failed", report.Count(StatusFailed))
	}
	return report, nil
}

func (m *Manager) rollbackKind(root string, kind content.Kind) Outcome {
	latest, err := m.backups.Latest(root, kind.String())
	switch {
	case errors.Is(err, backup.ErrNoBackupsFound):
		m.logger.Info("no backup to restore", "folder", kind)
		return Outcome{Kind: kind, Status: StatusNothingToRestore}
	case err != nil:
		m.logger.Warn("could not list backups", "folder", kind, "error", err)
		return Outcome{Kind: kind, Status: StatusFailed, Err: err}
	}
	return m.Restore(kind, *latest)
}

// Restore replaces the live folder of kind with b. A failure to remove the
// live folder is a warning; a failure to rename b into place fails the
// outcome.
func (m *Manager) Restore(kind content.Kind, b backup.Backup) Outcome {
	out := Outcome{Kind: kind, Backup: &b}

	if b.Folder != kind.String() {
		out.Status = StatusFailed
		out.Err = errors.Wrapf(ErrFolderMismatch, "%s is not a backup of %s", b.Name, kind)
		return out
	}

	live := b.Target()
	if err := os.RemoveAll(live); err != nil {
		err = errors.Wrapf(err, "removing %s", live)
		out.Warnings = append(out.Warnings, err)
		m.logger.Warn("could not remove live folder", "folder", kind, "error", err)
	}

	if err := os.Rename(b.Path(), live); err != nil {
		out.Status = StatusFailed
		out.Err = errors.Wrapf(err, "restoring %s", b.Name)
		m.logger.Error("restore failed", "folder", kind, "backup", b.Name, "error", err)
		return out
	}

	out.Status = StatusRestored
	m.logger.Info("restored folder", "folder", kind, "backup", b.Name)
	return out
}
