package sink

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"

	"github.com/dbsmedya/dircrawl/internal/crawler"
)

// Console echoes run progress to a terminal: one line per directory, one
// line per reported error, and a closing summary banner. File records are
// counted but not echoed.
type Console struct {
	out       io.Writer
	fileCount int64
}

// NewConsole creates a console echo sink writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// EmitDirectory prints one progress line for the directory.
func (c *Console) EmitDirectory(node crawler.DirectoryNode) error {
	fmt.Fprintf(c.out, "%s %s\n",
		color.Gray.Sprintf("[%6d d%-2d]", node.ID, node.Depth),
		node.Path)
	return nil
}

// EmitFile counts the file for the summary banner.
func (c *Console) EmitFile(node crawler.FileNode) error {
	c.fileCount++
	return nil
}

// EmitError prints the error in red.
func (c *Console) EmitError(kind crawler.ErrorKind, context, message string) error {
	fmt.Fprintf(c.out, "%s %s: %s\n", color.Red.Sprintf("[%s]", kind), context, message)
	return nil
}

// EmitSummary prints the closing banner with humanized byte counts.
func (c *Console) EmitSummary(stats crawler.Statistics) error {
	fmt.Fprintf(c.out, "\n%s\n", color.Bold.Sprint("crawl complete"))
	fmt.Fprintf(c.out, "  directories %d (skipped %d, leaves %d, cycles %d)\n",
		stats.DistinctDirectories, stats.SkippedDirectories,
		stats.LeafDirectories, stats.CycleHits)
	fmt.Fprintf(c.out, "  files       %d, %s processed\n",
		stats.DistinctFiles, humanize.Bytes(uint64(stats.BytesProcessed)))
	fmt.Fprintf(c.out, "  errors      %d\n", stats.TotalErrors())
	fmt.Fprintf(c.out, "  elapsed     %s (%s/s)\n",
		stats.Elapsed.Round(time.Millisecond),
		humanize.Bytes(uint64(stats.BytesPerSecond)))
	return nil
}
