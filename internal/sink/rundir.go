// Package sink provides the record destinations for a crawl run: plain
// text files in a timestamped run directory, an optional relational
// database, and console echo. All of them implement crawler.RecordSink.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// runDirFormat names run directories by start time, second resolution.
const runDirFormat = "060102.150405"

// CreateRunDir creates and returns <base>/dircrawl/<YYMMDD.HHMMSS>/.
// Failure here is fatal to the run: without an output destination no
// traversal may begin.
func CreateRunDir(base string, now time.Time) (string, error) {
	dir := filepath.Join(base, "dircrawl", now.Format(runDirFormat))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create run directory %s: %w", dir, err)
	}
	return dir, nil
}
