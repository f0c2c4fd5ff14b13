package doctor

import (
	"fmt"

	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/errors"
)

// Fixer is an optional interface that checks can implement to support auto-remediation.
// Checks that implement Fixer can fix issues they detect when the --fix flag is used.
type Fixer interface {
	// CanFix returns true if this check has fixable issues.
	// Must be called after Run() to check if there are issues that can be fixed.
	CanFix() bool

	// Fix attempts to remediate the issues found by Run().
	// Returns a slice of FixResult indicating what was fixed or why it couldn't be fixed.
	// Must be called after Run().
	Fix() []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	// Path is the file or directory that was targeted for fixing.
	Path string

	// Fixed indicates whether the fix was successfully applied.
	Fixed bool

	// Description explains what was fixed or why it couldn't be fixed.
	Description string

	// Error contains the error if the fix failed.
	Error error
}

// BackupPruneFixer prunes folders that hold more backups than the retention
// count. It is embedded in BackupCheck to provide fix capability.
type BackupPruneFixer struct {
	manager *backup.Manager
	root    string
	keep    int
	excess  []content.Kind
}

func (f *BackupPruneFixer) setTarget(m *backup.Manager, root string, keep int) {
	f.manager = m
	f.root = root
	f.keep = keep
	f.excess = nil
}

func (f *BackupPruneFixer) addExcess(k content.Kind) {
	f.excess = append(f.excess, k)
}

// CanFix returns true if any folder exceeds retention.
func (f *BackupPruneFixer) CanFix() bool {
	return len(f.excess) > 0
}

// Fix removes the oldest backups beyond retention, one result per backup.
func (f *BackupPruneFixer) Fix() []FixResult {
	var results []FixResult
	for _, kind := range f.excess {
		pruned, err := f.manager.Prune(f.root, kind.String(), f.keep)
		if err != nil {
			results = append(results, FixResult{
				Path:        f.root,
				Description: fmt.Sprintf("failed to list %s backups: %v", kind, err),
				Error:       errors.Wrapf(err, "pruning %s", kind),
			})
			continue
		}
		for _, b := range pruned.Removed {
			results = append(results, FixResult{
				Path:        b.Path(),
				Fixed:       true,
				Description: "removed old backup",
			})
		}
		for _, err := range pruned.Errors {
			results = append(results, FixResult{
				Path:        f.root,
				Description: err.Error(),
				Error:       err,
			})
		}
	}
	return results
}
