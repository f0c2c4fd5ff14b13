package backup

import (
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

// Default configuration values.
const (
	// DefaultRetentionCount is the default number of backups kept per folder.
	DefaultRetentionCount = 3

	// TimestampFormat is the layout of the timestamp in a backup name.
	TimestampFormat = "20060102_150405"

	// Marker separates the folder name from the timestamp: mods.bak.20240101_120000.
	Marker = ".bak."
)

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the specified folder.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrInvalidTarget indicates a target path with no usable folder name.
	ErrInvalidTarget = errors.New("invalid backup target")
)

// Backup is a renamed copy of a managed folder sitting next to it.
type Backup struct {
	// Folder is the managed folder name the backup was taken of (mods).
	Folder string `json:"folder"`

	// Dir is the directory holding both the folder and its backups.
	Dir string `json:"dir"`

	// Name is the backup directory name (mods.bak.20240101_120000).
	Name string `json:"name"`

	// ModTime orders backups; newest is restored first.
	ModTime time.Time `json:"mod_time"`
}

// Path returns the absolute path of the backup directory.
func (b Backup) Path() string {
	return filepath.Join(b.Dir, b.Name)
}

// Target returns the path of the live folder the backup restores to.
func (b Backup) Target() string {
	return filepath.Join(b.Dir, b.Folder)
}

// Result describes one call to Manager.Backup.
type Result struct {
	// Backup is the backup that was created.
	Backup Backup

	// Evicted lists backups removed by retention.
	Evicted []Backup

	// CleanupErrors holds eviction failures. They never fail the backup.
	CleanupErrors []error
}

// PruneResult describes one retention pass.
type PruneResult struct {
	Kept    []Backup
	Removed []Backup
	Errors  []error
}
