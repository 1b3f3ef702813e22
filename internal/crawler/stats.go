package crawler

import (
	"time"

	"github.com/dbsmedya/dircrawl/internal/lister"
)

// Statistics is the run-wide counter set, mutated throughout a run and
// read once at the end to produce the summary.
type Statistics struct {
	DistinctDirectories int64
	DistinctFiles       int64
	ChildDirectories    int64
	SkippedDirectories  int64
	LeafDirectories     int64
	CycleHits           int64
	InvalidRoots        int64

	DirMetadataErrors int64
	FileErrors        int64

	SubdirListPermissionErrors int64
	SubdirListNotFoundErrors   int64
	SubdirListIOErrors         int64
	FileListPermissionErrors   int64
	FileListNotFoundErrors     int64
	FileListIOErrors           int64

	BytesProcessed int64

	StartedAt   time.Time
	CompletedAt time.Time
	Elapsed     time.Duration
	// BytesPerSecond is BytesProcessed over Elapsed, zero when Elapsed is zero.
	BytesPerSecond float64
}

// TotalErrors sums every reported error counter. Cycle hits and skipped
// directories are structural, not errors, and are excluded.
func (s *Statistics) TotalErrors() int64 {
	return s.InvalidRoots +
		s.DirMetadataErrors +
		s.FileErrors +
		s.SubdirListPermissionErrors +
		s.SubdirListNotFoundErrors +
		s.SubdirListIOErrors +
		s.FileListPermissionErrors +
		s.FileListNotFoundErrors +
		s.FileListIOErrors
}

// countSubdirListError increments the subdirectory-listing counter matching
// the classified kind and returns the corresponding ErrorKind.
func (s *Statistics) countSubdirListError(kind lister.Kind) ErrorKind {
	switch kind {
	case lister.KindPermission:
		s.SubdirListPermissionErrors++
		return ErrorSubdirListPermission
	case lister.KindNotFound:
		s.SubdirListNotFoundErrors++
		return ErrorSubdirListNotFound
	default:
		s.SubdirListIOErrors++
		return ErrorSubdirListIO
	}
}

// countFileListError is the file-listing analogue of countSubdirListError.
func (s *Statistics) countFileListError(kind lister.Kind) ErrorKind {
	switch kind {
	case lister.KindPermission:
		s.FileListPermissionErrors++
		return ErrorFileListPermission
	case lister.KindNotFound:
		s.FileListNotFoundErrors++
		return ErrorFileListNotFound
	default:
		s.FileListIOErrors++
		return ErrorFileListIO
	}
}

// finalize stamps the run window and derives throughput.
func (s *Statistics) finalize(start, end time.Time) {
	s.StartedAt = start
	s.CompletedAt = end
	s.Elapsed = end.Sub(start)
	if s.Elapsed > 0 {
		s.BytesPerSecond = float64(s.BytesProcessed) / s.Elapsed.Seconds()
	}
}
