// Package lock guards a destination root against concurrent mcsync runs.
package lock

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/gofrs/flock"
)

// FileName is the lock file created inside the destination root.
const FileName = ".mcsync.lock"

// ErrLocked indicates another process holds the lock.
var ErrLocked = errors.New("destination is locked by another mcsync run")

// Lock is an advisory file lock on a destination root.
type Lock struct {
	flock *flock.Flock
}

// New returns an unacquired lock for root.
func New(root string) *Lock {
	return &Lock{flock: flock.New(filepath.Join(root, FileName))}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.flock.Path()
}

// Acquire takes the lock without waiting. It returns ErrLocked when another
// holder has it.
func (l *Lock) Acquire() error {
	locked, err := l.flock.TryLock()
	if err != nil {
		return errors.Wrapf(err, "locking %s", l.Path())
	}
	if !locked {
		return errors.Wrapf(ErrLocked, "%s", l.Path())
	}
	return nil
}

// Release drops the lock. The lock file is kept: removing it would let a
// later run lock a fresh file while an earlier waiter still holds the
// unlinked one. Releasing a lock this process does not hold is a no-op.
func (l *Lock) Release() error {
	if !l.flock.Locked() {
		return nil
	}
	return errors.Wrapf(l.flock.Unlock(), "unlocking %s", l.Path())
}

// Probe reports whether another process holds the lock on root. The lock
// file is left in place either way.
func Probe(root string) (bool, error) {
	f := flock.New(filepath.Join(root, FileName))
	locked, err := f.TryLock()
	if err != nil {
		return false, errors.Wrapf(err, "probing %s", f.Path())
	}
	if !locked {
		return true, nil
	}
	return false, errors.Wrapf(f.Unlock(), "unlocking %s", f.Path())
}
