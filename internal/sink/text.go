package sink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/dircrawl/internal/crawler"
)

// Format selects the text record layout.
type Format string

const (
	// Delimited writes pipe-separated fields.
	Delimited Format = "delimited"
	// Fixed writes aligned fixed-width columns.
	Fixed Format = "fixed"
)

// ParseFormat converts a configuration string into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Delimited:
		return Delimited, nil
	case Fixed:
		return Fixed, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want delimited or fixed)", s)
	}
}

const (
	timeLayout  = "2006-01-02 15:04:05"
	absentField = "-"
)

// Fixed-layout column widths. Name is the last field and is not padded.
const (
	widthID    = 10
	widthDepth = 6
	widthTime  = 19
	widthSize  = 14
	widthHash  = 64
)

// TextSink writes directory, file, error and summary records as text files
// inside a run directory. Not safe for concurrent use; the engine is
// single-threaded by contract.
type TextSink struct {
	format Format

	dirFile     *os.File
	fileFile    *os.File
	errFile     *os.File
	summaryPath string

	dirs  *bufio.Writer
	files *bufio.Writer
	errs  *bufio.Writer
}

// NewTextSink opens directories.txt, files.txt and errors.txt inside
// runDir. Any open failure is returned to the caller, which treats it as
// fatal before traversal begins.
func NewTextSink(runDir string, format Format) (*TextSink, error) {
	s := &TextSink{
		format:      format,
		summaryPath: filepath.Join(runDir, "summary.txt"),
	}

	var err error
	if s.dirFile, err = create(runDir, "directories.txt"); err != nil {
		return nil, err
	}
	if s.fileFile, err = create(runDir, "files.txt"); err != nil {
		s.dirFile.Close()
		return nil, err
	}
	if s.errFile, err = create(runDir, "errors.txt"); err != nil {
		s.dirFile.Close()
		s.fileFile.Close()
		return nil, err
	}

	s.dirs = bufio.NewWriter(s.dirFile)
	s.files = bufio.NewWriter(s.fileFile)
	s.errs = bufio.NewWriter(s.errFile)
	return s, nil
}

func create(dir, name string) (*os.File, error) {
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("create output file %s: %w", path, err)
	}
	return f, nil
}

// EmitDirectory writes one directory record: id, parent id, depth, three
// timestamps, name.
func (s *TextSink) EmitDirectory(node crawler.DirectoryNode) error {
	fields := []string{
		formatInt(node.ID, widthID, s.format),
		formatInt(node.ParentID, widthID, s.format),
		formatInt(int64(node.Depth), widthDepth, s.format),
		formatTime(node.CreatedAt, node.HasTimes, s.format),
		formatTime(node.ModifiedAt, node.HasTimes, s.format),
		formatTime(node.AccessedAt, node.HasTimes, s.format),
		node.Name(),
	}
	return s.writeLine(s.dirs, fields)
}

// EmitFile writes one file record: id, owning directory id, three
// timestamps, size, fingerprint, name.
func (s *TextSink) EmitFile(node crawler.FileNode) error {
	fingerprint := node.Fingerprint
	if fingerprint == "" {
		fingerprint = absentField
	}
	fields := []string{
		formatInt(node.ID, widthID, s.format),
		formatInt(node.OwnerDirectoryID, widthID, s.format),
		formatTime(node.CreatedAt, node.HasTimes, s.format),
		formatTime(node.ModifiedAt, node.HasTimes, s.format),
		formatTime(node.AccessedAt, node.HasTimes, s.format),
		formatInt(node.Size, widthSize, s.format),
		pad(fingerprint, widthHash, s.format),
		node.Name(),
	}
	return s.writeLine(s.files, fields)
}

// EmitError appends one classified error line.
func (s *TextSink) EmitError(kind crawler.ErrorKind, context, message string) error {
	fields := []string{
		time.Now().Format(timeLayout),
		string(kind),
		context,
		message,
	}
	return s.writeLine(s.errs, fields)
}

// EmitSummary writes summary.txt in one shot at run end.
func (s *TextSink) EmitSummary(stats crawler.Statistics) error {
	var b strings.Builder
	writeCount := func(label string, value int64) {
		fmt.Fprintf(&b, "%-28s %d\n", label, value)
	}

	fmt.Fprintf(&b, "started                      %s\n", stats.StartedAt.Format(timeLayout))
	fmt.Fprintf(&b, "completed                    %s\n", stats.CompletedAt.Format(timeLayout))
	fmt.Fprintf(&b, "elapsed                      %s\n", stats.Elapsed)
	writeCount("distinct directories", stats.DistinctDirectories)
	writeCount("distinct files", stats.DistinctFiles)
	writeCount("child directories", stats.ChildDirectories)
	writeCount("skipped directories", stats.SkippedDirectories)
	writeCount("leaf directories", stats.LeafDirectories)
	writeCount("cycle hits", stats.CycleHits)
	writeCount("invalid roots", stats.InvalidRoots)
	writeCount("dir metadata errors", stats.DirMetadataErrors)
	writeCount("file errors", stats.FileErrors)
	writeCount("subdir list permission", stats.SubdirListPermissionErrors)
	writeCount("subdir list not found", stats.SubdirListNotFoundErrors)
	writeCount("subdir list io", stats.SubdirListIOErrors)
	writeCount("file list permission", stats.FileListPermissionErrors)
	writeCount("file list not found", stats.FileListNotFoundErrors)
	writeCount("file list io", stats.FileListIOErrors)
	writeCount("bytes processed", stats.BytesProcessed)
	fmt.Fprintf(&b, "%-28s %.0f\n", "bytes per second", stats.BytesPerSecond)

	if err := os.WriteFile(s.summaryPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write summary %s: %w", s.summaryPath, err)
	}
	return nil
}

// Close flushes and closes all output files.
func (s *TextSink) Close() error {
	var firstErr error
	for _, w := range []*bufio.Writer{s.dirs, s.files, s.errs} {
		if err := w.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, f := range []*os.File{s.dirFile, s.fileFile, s.errFile} {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *TextSink) writeLine(w *bufio.Writer, fields []string) error {
	var line string
	if s.format == Fixed {
		line = strings.Join(fields, " ")
	} else {
		line = strings.Join(fields, "|")
	}
	if _, err := w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func formatInt(v int64, width int, f Format) string {
	s := fmt.Sprintf("%d", v)
	return pad(s, width, f)
}

func formatTime(t time.Time, present bool, f Format) string {
	s := absentField
	if present {
		s = t.Format(timeLayout)
	}
	return pad(s, widthTime, f)
}

// pad right-fills to the column's display width in fixed mode, so wide
// runes do not break column alignment.
func pad(s string, width int, f Format) string {
	if f != Fixed {
		return s
	}
	return runewidth.FillRight(s, width)
}
