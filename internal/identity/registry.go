// Package identity assigns run-unique identifiers to directories and files.
package identity

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Registry hands out monotonically increasing integer identifiers for one
// run. Directory ids are keyed by canonical path key so a directory seen
// twice keeps its first id; file ids are a plain counter in discovery order.
// The two sequences are independent and both start at 1. The registry only
// grows; there is no removal.
//
// Registry is not safe for concurrent use. The traversal engine owns it for
// the duration of a run.
type Registry struct {
	dirs       *orderedmap.OrderedMap[string, int64]
	nextFileID int64
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		dirs: orderedmap.NewOrderedMap[string, int64](),
	}
}

// AssignDirectoryID returns the id for the given canonical key. The first
// call for a key allocates the next sequential id and reports
// alreadyExisted=false; later calls return the existing id with
// alreadyExisted=true, which is the revisit (cycle) signal.
func (r *Registry) AssignDirectoryID(canonicalKey string) (id int64, alreadyExisted bool) {
	if existing, ok := r.dirs.Get(canonicalKey); ok {
		return existing, true
	}
	id = int64(r.dirs.Len()) + 1
	r.dirs.Set(canonicalKey, id)
	return id, false
}

// NextFileID returns the next file identifier, starting at 1.
func (r *Registry) NextFileID() int64 {
	r.nextFileID++
	return r.nextFileID
}

// DirectoryCount returns how many distinct directories have been assigned ids.
func (r *Registry) DirectoryCount() int {
	return r.dirs.Len()
}

// FileCount returns how many file ids have been handed out.
func (r *Registry) FileCount() int64 {
	return r.nextFileID
}

// Keys returns the canonical keys in first-discovery order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, r.dirs.Len())
	for el := r.dirs.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}
	return keys
}
