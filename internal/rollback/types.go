package rollback

import (
	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/content"
)

// Status is the result of rolling back one folder.
type Status int

const (
	// StatusRestored means the newest backup replaced the live folder.
	StatusRestored Status = iota
	// StatusNothingToRestore means the folder had no backup. Not a failure.
	StatusNothingToRestore
	// StatusFailed means the backup could not be put in place.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRestored:
		return "restored"
	case StatusNothingToRestore:
		return "nothing to restore"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one folder.
type Outcome struct {
	Kind   content.Kind
	Status Status
	// Backup is the backup that was restored, or attempted.
	Backup *backup.Backup
	// Err is set when Status is StatusFailed.
	Err error
	// Warnings holds non-fatal problems, such as a live folder that could
	// not be fully removed.
	Warnings []error
}

// Report collects the outcomes of a rollback.
type Report struct {
	Root     string
	Outcomes []Outcome
}

// Succeeded reports whether no outcome carries an error.
func (r *Report) Succeeded() bool {
	if r == nil {
		return false
	}
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return false
		}
	}
	return true
}

// Count returns the number of outcomes with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Errors returns the errors of the failed outcomes.
func (r *Report) Errors() []error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}
