// Package crawler implements the traversal engine: the worklist-driven
// walk that discovers every reachable directory and file beneath a set of
// roots exactly once, fingerprints file contents, and emits records through
// an abstract sink.
package crawler

import (
	"path/filepath"
	"time"
)

// DirectoryNode is the record emitted for each distinct directory.
// ID and ParentID never change once assigned; ParentID is 0 for roots.
type DirectoryNode struct {
	ID           int64
	ParentID     int64
	Depth        int
	Path         string
	CanonicalKey string
	CreatedAt    time.Time
	ModifiedAt   time.Time
	AccessedAt   time.Time
	// HasTimes is false for degraded records whose metadata read failed;
	// the timestamp fields are then placeholders.
	HasTimes bool
}

// FileNode is the record emitted for each discovered file.
// OwnerDirectoryID references a DirectoryNode id emitted earlier in the run.
type FileNode struct {
	ID               int64
	OwnerDirectoryID int64
	Path             string
	// Size is -1 when unknown due to a metadata error.
	Size int64
	// Fingerprint is empty when hashing failed.
	Fingerprint string
	CreatedAt   time.Time
	ModifiedAt  time.Time
	AccessedAt  time.Time
	HasTimes    bool
}

// Name returns the base name of the directory, derived from its path.
func (d DirectoryNode) Name() string {
	return baseName(d.Path)
}

// Name returns the base name of the file, derived from its path.
func (f FileNode) Name() string {
	return baseName(f.Path)
}

// Degraded reports whether this file record carries placeholder fields.
func (f FileNode) Degraded() bool {
	return f.Size < 0 || f.Fingerprint == ""
}

// ErrorKind classifies a reported traversal error.
type ErrorKind string

const (
	// ErrorRootInvalid means a supplied root path does not denote an
	// existing directory. The run continues with the remaining roots.
	ErrorRootInvalid ErrorKind = "root-invalid"
	// ErrorDirMetadata means a directory's own attributes could not be
	// read; the directory is still emitted as a degraded record.
	ErrorDirMetadata ErrorKind = "dir-metadata"

	// ErrorSubdirListPermission, ErrorSubdirListNotFound and
	// ErrorSubdirListIO classify subdirectory listing failures.
	ErrorSubdirListPermission ErrorKind = "subdir-list-permission"
	ErrorSubdirListNotFound   ErrorKind = "subdir-list-not-found"
	ErrorSubdirListIO         ErrorKind = "subdir-list-io"

	// ErrorFileListPermission, ErrorFileListNotFound and ErrorFileListIO
	// classify file listing failures.
	ErrorFileListPermission ErrorKind = "file-list-permission"
	ErrorFileListNotFound   ErrorKind = "file-list-not-found"
	ErrorFileListIO         ErrorKind = "file-list-io"

	// ErrorFileUnreadable means a file's metadata read or hashing failed;
	// the file is still emitted as a degraded record.
	ErrorFileUnreadable ErrorKind = "file-unreadable"
)

func baseName(path string) string {
	return filepath.Base(path)
}
