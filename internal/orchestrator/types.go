package orchestrator

import (
	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/rollback"
)

// State is a step of a sync run.
type State int

// Run states, in the order a successful run visits them.
const (
	StateInit State = iota
	StatePathResolved
	StateBackingUp
	StateSyncing
	StateRecorded
	StateReporting
	StateDone
	StateErrorRecovery
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StatePathResolved:
		return "path-resolved"
	case StateBackingUp:
		return "backing-up"
	case StateSyncing:
		return "syncing"
	case StateRecorded:
		return "recorded"
	case StateReporting:
		return "reporting"
	case StateDone:
		return "done"
	case StateErrorRecovery:
		return "error-recovery"
	default:
		return "unknown"
	}
}

// SyncTarget pairs a folder with its source and destination for one run.
type SyncTarget struct {
	Spec        content.FolderSpec
	Source      string
	Destination string
}

// SyncResult is the outcome of syncing one folder.
type SyncResult struct {
	Folder    content.Kind
	Succeeded bool
	Err       error
	Files     int
	Bytes     int64
	// Backup is nil when the destination had nothing to back up.
	Backup *backup.Backup
	// CleanupErrors are non-fatal failures to evict old backups.
	CleanupErrors []error
}

// Report is the outcome of a run.
type Report struct {
	Root       string
	SourceRoot string
	Results    []SyncResult
	Skipped    []content.Kind

	// Err is the error that sent the run into recovery, if any.
	Err error
	// Rollback is set when a rollback was attempted.
	Rollback *rollback.Report
	// RollbackErr is set when the rollback could not run at all.
	RollbackErr error
}

// Succeeded reports whether every recorded folder synced and no rollback
// was needed.
func (r *Report) Succeeded() bool {
	if r == nil || r.Err != nil || r.Rollback != nil || r.RollbackErr != nil {
		return false
	}
	for _, res := range r.Results {
		if !res.Succeeded {
			return false
		}
	}
	return true
}

// Failed returns the folders whose sync failed.
func (r *Report) Failed() []content.Kind {
	var kinds []content.Kind
	for _, res := range r.Results {
		if !res.Succeeded {
			kinds = append(kinds, res.Folder)
		}
	}
	return kinds
}
