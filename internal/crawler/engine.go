package crawler

import (
	"fmt"
	"path/filepath"

	"github.com/dbsmedya/dircrawl/internal/identity"
	"github.com/dbsmedya/dircrawl/internal/lister"
	"github.com/dbsmedya/dircrawl/internal/logger"
)

// NodeLister enumerates directory children and reads node metadata.
// lister.Lister is the production implementation.
type NodeLister interface {
	ListChildren(directoryPath string) ([]string, error)
	ListFiles(directoryPath string) ([]string, error)
	Stat(path string) (lister.Metadata, error)
}

// Fingerprinter computes a file's content fingerprint.
type Fingerprinter interface {
	Hash(path string) (string, error)
}

// Canonicalizer converts paths into canonical identity keys.
type Canonicalizer interface {
	Key(path string) string
}

// Engine walks the root forest. One Engine performs one run; it owns its
// worklist, identity registry and counters exclusively, so it is strictly
// sequential and not safe for concurrent use.
type Engine struct {
	lister NodeLister
	hasher Fingerprinter
	canon  Canonicalizer
	sink   RecordSink
	clock  Clock
	logger *logger.Logger

	exclusions ExclusionSet
	registry   *identity.Registry
	pending    *worklist
	stats      Statistics
}

// NewEngine creates a traversal engine. Exclusions may be nil when nothing
// is excluded; every other collaborator is required.
func NewEngine(nl NodeLister, fp Fingerprinter, canon Canonicalizer, sink RecordSink, clock Clock, exclusions ExclusionSet, log *logger.Logger) (*Engine, error) {
	if nl == nil {
		return nil, fmt.Errorf("node lister is nil")
	}
	if fp == nil {
		return nil, fmt.Errorf("fingerprinter is nil")
	}
	if canon == nil {
		return nil, fmt.Errorf("canonicalizer is nil")
	}
	if sink == nil {
		return nil, fmt.Errorf("record sink is nil")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if exclusions == nil {
		exclusions = StaticExclusions{}
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Engine{
		lister:     nl,
		hasher:     fp,
		canon:      canon,
		sink:       sink,
		clock:      clock,
		logger:     log,
		exclusions: exclusions,
		registry:   identity.NewRegistry(),
		pending:    newWorklist(),
	}, nil
}

// Run walks every reachable directory beneath the given roots exactly once
// and returns the final statistics. Every per-node failure is recovered
// locally; Run itself fails only on programmer error (no roots slice).
func (e *Engine) Run(roots []string) (*Statistics, error) {
	if roots == nil {
		return nil, fmt.Errorf("roots is nil")
	}

	start := e.clock.Now()

	// Roots are seeded one at a time: a root's entire reachable set is
	// unfolded FIFO and exhausted before the next root is taken up, so
	// subtrees of different roots never interleave.
	for _, root := range roots {
		if !e.seedRoot(root) {
			continue
		}
		for {
			item, ok := e.pending.Pop()
			if !ok {
				break
			}
			e.processDirectory(item)
		}
	}

	end := e.clock.Now()
	e.stats.finalize(start, end)

	e.logger.Infow("Traversal complete",
		"directories", e.stats.DistinctDirectories,
		"files", e.stats.DistinctFiles,
		"bytes", e.stats.BytesProcessed,
		"errors", e.stats.TotalErrors(),
		"elapsed", e.stats.Elapsed,
	)

	e.emitSummary(e.stats)
	return &e.stats, nil
}

// seedRoot validates one root and queues it at depth 0 with parent id 0.
// Invalid roots are reported and skipped, never fatal. Returns true when
// the root was queued.
func (e *Engine) seedRoot(root string) bool {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = filepath.Clean(root)
	}

	md, err := e.lister.Stat(abs)
	if err != nil || !md.IsDir {
		e.stats.InvalidRoots++
		msg := "not a directory"
		if err != nil {
			msg = err.Error()
		}
		e.logger.Warnw("Skipping invalid root", "root", root, "reason", msg)
		e.emitError(ErrorRootInvalid, root, msg)
		return false
	}

	if e.exclusions.Contains(e.canon.Key(abs)) {
		e.stats.SkippedDirectories++
		e.logger.Infow("Skipping excluded root", "root", root)
		return false
	}

	e.pending.Push(workItem{path: abs, depth: 0, parentID: 0})
	return true
}

// processDirectory handles a single worklist item: identity assignment,
// node emission, child listing, file fingerprinting, child enqueueing.
func (e *Engine) processDirectory(item workItem) {
	key := e.canon.Key(item.path)

	id, alreadyExisted := e.registry.AssignDirectoryID(key)
	if alreadyExisted {
		// Revisit of a directory already walked; skip without re-listing
		// or re-emitting anything.
		e.stats.CycleHits++
		e.logger.Infow("Cycle hit", "path", item.path, "existing_id", id)
		return
	}

	node := DirectoryNode{
		ID:           id,
		ParentID:     item.parentID,
		Depth:        item.depth,
		Path:         item.path,
		CanonicalKey: key,
	}

	md, err := e.lister.Stat(item.path)
	if err != nil {
		// Degraded emission: the id is assigned and the record emitted
		// with placeholder timestamps so parent references stay valid.
		e.stats.DirMetadataErrors++
		e.logger.Warnw("Directory metadata unavailable", "path", item.path, "error", err)
		e.emitError(ErrorDirMetadata, item.path, err.Error())
	} else {
		node.CreatedAt = md.CreatedAt
		node.ModifiedAt = md.ModifiedAt
		node.AccessedAt = md.AccessedAt
		node.HasTimes = true
	}

	e.stats.DistinctDirectories++
	if err := e.sink.EmitDirectory(node); err != nil {
		e.logger.Warnw("Sink rejected directory record", "path", item.path, "error", err)
	}

	subdirs, err := e.lister.ListChildren(item.path)
	if err != nil {
		kind := e.stats.countSubdirListError(lister.Classify(err))
		e.logger.Warnw("Subdirectory listing failed", "path", item.path, "kind", kind, "error", err)
		e.emitError(kind, item.path, err.Error())
		return
	}

	files, err := e.lister.ListFiles(item.path)
	if err != nil {
		kind := e.stats.countFileListError(lister.Classify(err))
		e.logger.Warnw("File listing failed", "path", item.path, "kind", kind, "error", err)
		e.emitError(kind, item.path, err.Error())
		return
	}

	for _, file := range files {
		e.processFile(file, id)
	}

	for _, subdir := range subdirs {
		if e.exclusions.Contains(e.canon.Key(subdir)) {
			e.stats.SkippedDirectories++
			e.logger.Debugw("Skipping excluded directory", "path", subdir)
			continue
		}
		e.pending.Push(workItem{path: subdir, depth: item.depth + 1, parentID: id})
		e.stats.ChildDirectories++
	}

	if len(subdirs) == 0 {
		e.stats.LeafDirectories++
	}
}

// processFile fingerprints one file and emits its record. A metadata or
// hashing failure still consumes a file id and still emits, with size -1
// and an absent fingerprint, so per-directory row counts stay intact.
func (e *Engine) processFile(path string, ownerID int64) {
	node := FileNode{
		ID:               e.registry.NextFileID(),
		OwnerDirectoryID: ownerID,
		Path:             path,
		Size:             -1,
	}

	md, mdErr := e.lister.Stat(path)
	if mdErr == nil {
		node.CreatedAt = md.CreatedAt
		node.ModifiedAt = md.ModifiedAt
		node.AccessedAt = md.AccessedAt
		node.HasTimes = true
	}

	fp, hashErr := e.hasher.Hash(path)
	if hashErr == nil {
		node.Fingerprint = fp
	}

	if mdErr != nil || hashErr != nil {
		// Size stays -1 on any failure so degraded records are
		// recognizable downstream.
		e.stats.FileErrors++
		failure := hashErr
		if failure == nil {
			failure = mdErr
		}
		e.logger.Warnw("File unreadable", "path", path, "error", failure)
		e.emitError(ErrorFileUnreadable, path, failure.Error())
	} else {
		node.Size = md.Size
		e.stats.BytesProcessed += md.Size
	}

	e.stats.DistinctFiles++
	if err := e.sink.EmitFile(node); err != nil {
		e.logger.Warnw("Sink rejected file record", "path", path, "error", err)
	}
}

func (e *Engine) emitError(kind ErrorKind, context, message string) {
	if err := e.sink.EmitError(kind, context, message); err != nil {
		e.logger.Warnw("Sink rejected error record", "kind", kind, "context", context, "error", err)
	}
}

func (e *Engine) emitSummary(stats Statistics) {
	if err := e.sink.EmitSummary(stats); err != nil {
		e.logger.Warnw("Sink rejected summary", "error", err)
	}
}
