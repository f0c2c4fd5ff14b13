package backup

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// Manager creates, lists and prunes folder backups.
type Manager struct {
	retentionCount int
	now            func() time.Time
	logger         *slog.Logger
	removeAll      func(string) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithRetentionCount sets the number of backups to retain per folder.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithClock overrides the time source used for backup names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
		logger:         slog.Default(),
		removeAll:      os.RemoveAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RetentionCount returns the configured number of backups kept per folder.
func (m *Manager) RetentionCount() int {
	return m.retentionCount
}

// Backup renames target to a timestamped sibling and applies retention.
//
// The contents of target are moved untouched, but the backup directory's own
// mtime is set to the backup time rather than kept from the live folder, so
// List and retention order backups by when they were taken.
//
// A missing target is not an error: nothing is created and (nil, nil) is
// returned. Only the rename can fail the call; eviction problems are reported
// in Result.CleanupErrors.
func (m *Manager) Backup(target string) (*Result, error) {
	dir, folder := filepath.Split(filepath.Clean(target))
	if folder == "" || folder == "." || folder == string(filepath.Separator) {
		return nil, errors.Wrapf(ErrInvalidTarget, "%q", target)
	}
	dir = filepath.Clean(dir)

	if _, err := os.Lstat(target); err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug("nothing to back up", "folder", folder, "path", target)
			return nil, nil
		}
		return nil, errors.Wrapf(err, "stat %s", target)
	}

	now := m.now()
	name, err := availableName(dir, folder, now)
	if err != nil {
		return nil, err
	}

	backupPath := filepath.Join(dir, name)
	if err := os.Rename(target, backupPath); err != nil {
		return nil, errors.Wrapf(err, "renaming %s to %s", target, name)
	}

	// The rename keeps the folder's old mtime; stamp it so ordering follows
	// backup creation.
	if err := os.Chtimes(backupPath, now, now); err != nil {
		m.logger.Warn("could not set backup time", "backup", name, "error", err)
	}

	m.logger.Info("backed up folder", "folder", folder, "backup", name)

	result := &Result{
		Backup: Backup{Folder: folder, Dir: dir, Name: name, ModTime: now},
	}

	pruned, err := m.Prune(dir, folder, m.retentionCount)
	if err != nil {
		result.CleanupErrors = append(result.CleanupErrors, err)
		m.logger.Warn("could not apply backup retention", "folder", folder, "error", err)
		return result, nil
	}
	result.Evicted = pruned.Removed
	result.CleanupErrors = pruned.Errors

	return result, nil
}

// availableName returns the first unused backup name for the timestamp.
// A second backup in the same second gets -2, then -3, and so on.
func availableName(dir, folder string, t time.Time) (string, error) {
	base := folder + Marker + t.Format(TimestampFormat)
	name := base
	for n := 2; ; n++ {
		_, err := os.Lstat(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			return name, nil
		}
		if err != nil {
			return "", errors.Wrapf(err, "stat %s", name)
		}
		name = base + "-" + strconv.Itoa(n)
	}
}

// Pattern returns the doublestar pattern matching backups of folder.
func Pattern(folder string) string {
	return folder + Marker + "*"
}

// List returns the backups of folder inside dir, newest first.
// A missing dir yields an empty list.
func (m *Manager) List(dir, folder string) ([]Backup, error) {
	if folder == "" {
		return nil, errors.New("folder is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	pattern := Pattern(folder)
	backups := make([]Backup, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ok, err := doublestar.Match(pattern, entry.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "matching %s", pattern)
		}
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, "stat %s", entry.Name())
		}
		backups = append(backups, Backup{
			Folder:  folder,
			Dir:     dir,
			Name:    entry.Name(),
			ModTime: info.ModTime(),
		})
	}

	sortNewestFirst(backups)
	return backups, nil
}

// sortNewestFirst orders by mtime, then by name, both descending.
func sortNewestFirst(backups []Backup) {
	slices.SortFunc(backups, func(a, b Backup) int {
		if c := b.ModTime.Compare(a.ModTime); c != 0 {
			return c
		}
		return compareNames(b.Name, a.Name)
	})
}

// compareNames orders "x-10" after "x-9" and the unsuffixed name first.
func compareNames(a, b string) int {
	baseA, nA := splitSuffix(a)
	baseB, nB := splitSuffix(b)
	if c := strings.Compare(baseA, baseB); c != 0 {
		return c
	}
	return nA - nB
}

func splitSuffix(name string) (string, int) {
	i := strings.LastIndexByte(name, '-')
	if i < 0 {
		return name, 1
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil || n < 2 {
		return name, 1
	}
	return name[:i], n
}

// Latest returns the newest backup of folder inside dir.
func (m *Manager) Latest(dir, folder string) (*Backup, error) {
	backups, err := m.List(dir, folder)
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, errors.Wrapf(ErrNoBackupsFound, "%s in %s", folder, dir)
	}
	return &backups[0], nil
}

// Prune removes backups of folder beyond the newest keep.
// Removal failures are collected in the result and logged; only a failure to
// list the backups is returned as an error.
func (m *Manager) Prune(dir, folder string, keep int) (*PruneResult, error) {
	if keep < 0 {
		return nil, errors.New("keep must be non-negative")
	}

	backups, err := m.List(dir, folder)
	if err != nil {
		return nil, err
	}

	result := &PruneResult{}
	for i, b := range backups {
		if i < keep {
			result.Kept = append(result.Kept, b)
			continue
		}
		if err := m.removeAll(b.Path()); err != nil {
			err = errors.Wrapf(err, "removing backup %s", b.Name)
			result.Errors = append(result.Errors, err)
			m.logger.Warn("could not remove old backup", "backup", b.Name, "error", err)
			continue
		}
		result.Removed = append(result.Removed, b)
		m.logger.Debug("removed old backup", "backup", b.Name)
	}

	return result, nil
}

// Size returns the total size in bytes of the regular files in a backup.
func Size(b Backup) (int64, error) {
	var total int64
	err := filepath.WalkDir(b.Path(), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "measuring %s", b.Name)
	}
	return total, nil
}
