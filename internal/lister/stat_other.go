//go:build !linux

package lister

import "os"

// fillPlatformTimes keeps the modification-time fallbacks on platforms
// where the stat structure layout differs.
func fillPlatformTimes(info os.FileInfo, md *Metadata) {
	_ = info
	_ = md
}
