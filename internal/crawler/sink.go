package crawler

import "time"

// RecordSink receives every record the engine produces. The engine never
// opens, names, or formats output destinations itself; implementations
// decide layout and medium.
type RecordSink interface {
	EmitDirectory(node DirectoryNode) error
	EmitFile(node FileNode) error
	EmitError(kind ErrorKind, context string, message string) error
	EmitSummary(stats Statistics) error
}

// ExclusionSet holds canonical directory keys the engine must never descend
// into. Supplied once at run start, read-only thereafter.
type ExclusionSet interface {
	Contains(canonicalKey string) bool
}

// StaticExclusions is an ExclusionSet backed by a fixed key set.
type StaticExclusions map[string]struct{}

// NewStaticExclusions builds a StaticExclusions from canonical keys.
func NewStaticExclusions(keys ...string) StaticExclusions {
	s := make(StaticExclusions, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Contains reports whether key is excluded.
func (s StaticExclusions) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Clock supplies the run's start and end timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
