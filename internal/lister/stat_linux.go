//go:build linux

package lister

import (
	"os"
	"syscall"
	"time"
)

// fillPlatformTimes extracts access and change times from the underlying
// stat structure. The change time stands in for creation time; linux does
// not expose birth time through os.Stat.
func fillPlatformTimes(info os.FileInfo, md *Metadata) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	md.AccessedAt = time.Unix(stat.Atim.Sec, stat.Atim.Nsec)
	md.CreatedAt = time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
}
