// Package runlock serializes crawl runs against a shared output base
// directory using an advisory file lock.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld is returned when another dircrawl process holds the lock.
var ErrHeld = fmt.Errorf("another run is already writing to this output directory")

// RunLock guards one output base directory. Two concurrent runs over the
// same base would race on run-directory naming at second resolution, so
// the second run must be refused rather than queued.
type RunLock struct {
	flock *flock.Flock
	path  string
}

// New creates a lock rooted at base. The lock file lives beside the run
// directories at <base>/dircrawl/.lock.
func New(base string) (*RunLock, error) {
	dir := filepath.Join(base, "dircrawl")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create lock directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, ".lock")
	return &RunLock{
		flock: flock.New(path),
		path:  path,
	}, nil
}

// Acquire takes the lock without blocking. Returns ErrHeld when another
// process already owns it.
func (l *RunLock) Acquire() error {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	if !acquired {
		return ErrHeld
	}
	return nil
}

// Release releases the lock.
func (l *RunLock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
