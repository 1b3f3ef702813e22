// Package pathkey produces canonical keys for filesystem paths.
//
// A canonical key is the identity of a directory for the duration of a run:
// two paths with the same key are treated as the same directory, which is
// how revisits are detected. Keys are compared as plain strings; symbolic
// links and hard links are deliberately not resolved, so distinct spellings
// that the kernel maps to the same object remain distinct keys.
package pathkey

import (
	"path/filepath"
	"strings"
)

// Canonicalizer converts paths into canonical keys.
type Canonicalizer interface {
	Key(path string) string
}

// CaseFolding canonicalizes by absolutizing, cleaning and lower-casing the
// path. Lower-casing on every platform keeps run output portable between
// case-sensitive and case-insensitive filesystems; swap in a different
// Canonicalizer if strict case-sensitive identity is needed.
type CaseFolding struct{}

// New returns the default case-folding canonicalizer.
func New() CaseFolding {
	return CaseFolding{}
}

// Key returns the canonical key for path.
func (CaseFolding) Key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return strings.ToLower(abs)
}
