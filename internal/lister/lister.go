// Package lister enumerates directory children and classifies the
// filesystem errors the traversal engine must recover from.
package lister

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Kind classifies an expected filesystem failure. Every Kind is a normal,
// recoverable branch for the traversal engine, not a program fault.
type Kind string

const (
	// KindPermission means access to the directory was denied.
	KindPermission Kind = "permission"
	// KindNotFound means the directory vanished between discovery and listing.
	KindNotFound Kind = "not-found"
	// KindIO covers every other listing failure.
	KindIO Kind = "io"
)

// Op identifies which listing operation failed.
type Op string

const (
	// OpListSubdirs is the subdirectory enumeration step.
	OpListSubdirs Op = "list-subdirs"
	// OpListFiles is the file enumeration step.
	OpListFiles Op = "list-files"
)

// ClassifiedError carries the failure kind alongside the wrapped cause.
type ClassifiedError struct {
	Op   Op
	Kind Kind
	Path string
	Err  error
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s %s: %s error: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// Classify extracts the Kind from an error returned by this package.
// Unclassified errors report KindIO.
func Classify(err error) Kind {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindIO
}

// Lister reads immediate children of directories from the local filesystem.
type Lister struct{}

// New creates a Lister.
func New() *Lister {
	return &Lister{}
}

// ListChildren returns the absolute paths of the immediate subdirectories
// of directoryPath, in directory order.
func (l *Lister) ListChildren(directoryPath string) ([]string, error) {
	entries, err := os.ReadDir(directoryPath)
	if err != nil {
		return nil, classify(OpListSubdirs, directoryPath, err)
	}

	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(directoryPath, entry.Name()))
		}
	}
	return subdirs, nil
}

// ListFiles returns the absolute paths of the immediate regular files of
// directoryPath, in directory order. Symlinks and other non-regular entries
// are not files and not directories, so they are skipped entirely.
func (l *Lister) ListFiles(directoryPath string) ([]string, error) {
	entries, err := os.ReadDir(directoryPath)
	if err != nil {
		return nil, classify(OpListFiles, directoryPath, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, filepath.Join(directoryPath, entry.Name()))
		}
	}
	return files, nil
}

// Metadata is the per-node attribute set recorded in emitted records.
type Metadata struct {
	Size       int64
	IsDir      bool
	CreatedAt  time.Time
	ModifiedAt time.Time
	AccessedAt time.Time
}

// Stat reads size and timestamps for path. Created and accessed times come
// from the platform where available and fall back to the modification time
// elsewhere.
func (l *Lister) Stat(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("stat %s: %w", path, err)
	}

	md := Metadata{
		Size:       info.Size(),
		IsDir:      info.IsDir(),
		CreatedAt:  info.ModTime(),
		ModifiedAt: info.ModTime(),
		AccessedAt: info.ModTime(),
	}
	fillPlatformTimes(info, &md)
	return md, nil
}

func classify(op Op, path string, err error) error {
	kind := KindIO
	switch {
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermission
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	}
	return &ClassifiedError{Op: op, Kind: kind, Path: path, Err: err}
}
