package crawler

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dbsmedya/dircrawl/internal/fingerprint"
	"github.com/dbsmedya/dircrawl/internal/lister"
	"github.com/dbsmedya/dircrawl/internal/pathkey"
)

// recordingSink captures every emission in order for assertions.
type recordingSink struct {
	events    []string // "dir" / "file" / "error" / "summary" in emission order
	dirs      []DirectoryNode
	files     []FileNode
	errors    []emittedError
	summaries []Statistics
}

type emittedError struct {
	kind    ErrorKind
	context string
	message string
}

func (s *recordingSink) EmitDirectory(node DirectoryNode) error {
	s.events = append(s.events, "dir")
	s.dirs = append(s.dirs, node)
	return nil
}

func (s *recordingSink) EmitFile(node FileNode) error {
	s.events = append(s.events, "file")
	s.files = append(s.files, node)
	return nil
}

func (s *recordingSink) EmitError(kind ErrorKind, context, message string) error {
	s.events = append(s.events, "error")
	s.errors = append(s.errors, emittedError{kind: kind, context: context, message: message})
	return nil
}

func (s *recordingSink) EmitSummary(stats Statistics) error {
	s.events = append(s.events, "summary")
	s.summaries = append(s.summaries, stats)
	return nil
}

// fakeLister injects listing and stat outcomes per path.
type fakeLister struct {
	children func(string) ([]string, error)
	files    func(string) ([]string, error)
	stat     func(string) (lister.Metadata, error)
}

func (f *fakeLister) ListChildren(dir string) ([]string, error) { return f.children(dir) }
func (f *fakeLister) ListFiles(dir string) ([]string, error)    { return f.files(dir) }
func (f *fakeLister) Stat(path string) (lister.Metadata, error) { return f.stat(path) }

// fakeClock hands out fixed timestamps in sequence.
type fakeClock struct {
	times []time.Time
	idx   int
}

func (c *fakeClock) Now() time.Time {
	t := c.times[c.idx]
	if c.idx < len(c.times)-1 {
		c.idx++
	}
	return t
}

func newTestEngine(t *testing.T, sink RecordSink, exclusions ExclusionSet) *Engine {
	t.Helper()
	e, err := NewEngine(lister.New(), fingerprint.New(fingerprint.MD5), pathkey.New(),
		sink, SystemClock{}, exclusions, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	sink := &recordingSink{}
	canon := pathkey.New()
	fp := fingerprint.New(fingerprint.MD5)
	nl := lister.New()

	if _, err := NewEngine(nil, fp, canon, sink, nil, nil, nil); err == nil {
		t.Error("expected error for nil lister")
	}
	if _, err := NewEngine(nl, nil, canon, sink, nil, nil, nil); err == nil {
		t.Error("expected error for nil fingerprinter")
	}
	if _, err := NewEngine(nl, fp, nil, sink, nil, nil, nil); err == nil {
		t.Error("expected error for nil canonicalizer")
	}
	if _, err := NewEngine(nl, fp, canon, nil, nil, nil, nil); err == nil {
		t.Error("expected error for nil sink")
	}
	if _, err := NewEngine(nl, fp, canon, sink, nil, nil, nil); err != nil {
		t.Errorf("clock, exclusions and logger must be optional: %v", err)
	}
}

// The reference scenario: root a/ holding f.txt ("test") and empty b/.
func TestRunReferenceScenario(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "f.txt"), []byte("test"), 0644); err != nil {
		t.Fatalf("write f.txt: %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "b"), 0755); err != nil {
		t.Fatalf("mkdir b: %v", err)
	}

	sink := &recordingSink{}
	stats, err := newTestEngine(t, sink, nil).Run([]string{root})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sink.dirs) != 2 {
		t.Fatalf("emitted %d directories, want 2", len(sink.dirs))
	}
	rootNode, childNode := sink.dirs[0], sink.dirs[1]
	if rootNode.ID != 1 || rootNode.ParentID != 0 || rootNode.Depth != 0 {
		t.Errorf("root node = id %d parent %d depth %d, want 1/0/0",
			rootNode.ID, rootNode.ParentID, rootNode.Depth)
	}
	if !rootNode.HasTimes {
		t.Error("root node missing timestamps")
	}
	if childNode.ID != 2 || childNode.ParentID != 1 || childNode.Depth != 1 {
		t.Errorf("child node = id %d parent %d depth %d, want 2/1/1",
			childNode.ID, childNode.ParentID, childNode.Depth)
	}
	if childNode.Name() != "b" {
		t.Errorf("child name = %q, want b", childNode.Name())
	}

	if len(sink.files) != 1 {
		t.Fatalf("emitted %d files, want 1", len(sink.files))
	}
	file := sink.files[0]
	if file.ID != 1 || file.OwnerDirectoryID != 1 {
		t.Errorf("file = id %d owner %d, want 1/1", file.ID, file.OwnerDirectoryID)
	}
	if file.Size != 4 {
		t.Errorf("file size = %d, want 4", file.Size)
	}
	if file.Fingerprint != "098f6bcd4621d373cade4e832627b4f6" {
		t.Errorf("fingerprint = %q, want md5 of \"test\"", file.Fingerprint)
	}
	if file.Name() != "f.txt" {
		t.Errorf("file name = %q, want f.txt", file.Name())
	}

	if stats.DistinctDirectories != 2 || stats.DistinctFiles != 1 {
		t.Errorf("counts = %d dirs %d files, want 2/1",
			stats.DistinctDirectories, stats.DistinctFiles)
	}
	if stats.ChildDirectories != 1 {
		t.Errorf("child directories = %d, want 1", stats.ChildDirectories)
	}
	if stats.LeafDirectories != 1 {
		t.Errorf("leaf directories = %d, want 1", stats.LeafDirectories)
	}
	if stats.BytesProcessed != 4 {
		t.Errorf("bytes processed = %d, want 4", stats.BytesProcessed)
	}
	if stats.TotalErrors() != 0 {
		t.Errorf("errors = %d, want 0", stats.TotalErrors())
	}
	if len(sink.summaries) != 1 {
		t.Errorf("summary emitted %d times, want once", len(sink.summaries))
	}
}

func TestRunInvalidRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")

	sink := &recordingSink{}
	stats, err := newTestEngine(t, sink, nil).Run([]string{missing})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.InvalidRoots != 1 {
		t.Errorf("invalid roots = %d, want 1", stats.InvalidRoots)
	}
	if stats.DistinctDirectories != 0 || stats.DistinctFiles != 0 {
		t.Errorf("counts = %d dirs %d files, want 0/0",
			stats.DistinctDirectories, stats.DistinctFiles)
	}
	if len(sink.errors) != 1 || sink.errors[0].kind != ErrorRootInvalid {
		t.Fatalf("errors = %+v, want one root-invalid", sink.errors)
	}
	if len(sink.summaries) != 1 {
		t.Error("summary must still be emitted for an empty run")
	}
}

func TestRunFileAsRootIsInvalid(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	os.WriteFile(file, []byte("x"), 0644)

	sink := &recordingSink{}
	stats, _ := newTestEngine(t, sink, nil).Run([]string{file})

	if stats.InvalidRoots != 1 {
		t.Errorf("invalid roots = %d, want 1", stats.InvalidRoots)
	}
}

func TestRunContinuesPastInvalidRoot(t *testing.T) {
	good := t.TempDir()
	os.WriteFile(filepath.Join(good, "x.txt"), []byte("x"), 0644)
	missing := filepath.Join(t.TempDir(), "gone")

	sink := &recordingSink{}
	stats, _ := newTestEngine(t, sink, nil).Run([]string{missing, good})

	if stats.InvalidRoots != 1 {
		t.Errorf("invalid roots = %d, want 1", stats.InvalidRoots)
	}
	if stats.DistinctDirectories != 1 || stats.DistinctFiles != 1 {
		t.Errorf("good root not walked: %d dirs %d files",
			stats.DistinctDirectories, stats.DistinctFiles)
	}
}

func TestRunCycleHit(t *testing.T) {
	// Two sibling directories whose names fold to the same canonical key:
	// the second is a revisit and must be skipped without re-emission.
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "Dup"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "dup"), 0755); err != nil {
		t.Skipf("filesystem folds case itself: %v", err)
	}

	sink := &recordingSink{}
	stats, err := newTestEngine(t, sink, nil).Run([]string{root})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.CycleHits != 1 {
		t.Errorf("cycle hits = %d, want 1", stats.CycleHits)
	}
	if len(sink.dirs) != 2 {
		t.Errorf("emitted %d directories, want 2 (root + one of the pair)", len(sink.dirs))
	}
	if stats.DistinctDirectories != 2 {
		t.Errorf("distinct directories = %d, want 2", stats.DistinctDirectories)
	}
	// Both siblings were enqueued as children before the dedup fired.
	if stats.ChildDirectories != 2 {
		t.Errorf("child directories = %d, want 2", stats.ChildDirectories)
	}
}

func TestRunExclusion(t *testing.T) {
	root := t.TempDir()
	excluded := filepath.Join(root, "out")
	kept := filepath.Join(root, "in")
	os.Mkdir(excluded, 0755)
	os.Mkdir(kept, 0755)
	os.WriteFile(filepath.Join(excluded, "secret.txt"), []byte("x"), 0644)

	canon := pathkey.New()
	sink := &recordingSink{}
	engine := newTestEngine(t, sink, NewStaticExclusions(canon.Key(excluded)))

	stats, err := engine.Run([]string{root})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.SkippedDirectories != 1 {
		t.Errorf("skipped = %d, want 1", stats.SkippedDirectories)
	}
	for _, d := range sink.dirs {
		if d.Path == excluded {
			t.Error("excluded directory was emitted")
		}
	}
	if len(sink.files) != 0 {
		t.Errorf("files inside excluded directory were processed: %v", sink.files)
	}
	if stats.ChildDirectories != 1 {
		t.Errorf("child directories = %d, want 1 (only the kept one)", stats.ChildDirectories)
	}
}

func TestRunSubdirListingFailureAbandonsDirectory(t *testing.T) {
	boom := &lister.ClassifiedError{
		Op: lister.OpListSubdirs, Kind: lister.KindPermission,
		Path: "/root", Err: os.ErrPermission,
	}
	filesCalled := false
	fl := &fakeLister{
		children: func(string) ([]string, error) { return nil, boom },
		files: func(string) ([]string, error) {
			filesCalled = true
			return nil, nil
		},
		stat: func(string) (lister.Metadata, error) {
			return lister.Metadata{IsDir: true, ModifiedAt: time.Now()}, nil
		},
	}

	sink := &recordingSink{}
	engine, err := NewEngine(fl, fingerprint.New(fingerprint.MD5), pathkey.New(),
		sink, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	stats, err := engine.Run([]string{"/root"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sink.dirs) != 1 {
		t.Fatalf("directory itself must still be emitted, got %d", len(sink.dirs))
	}
	if filesCalled {
		t.Error("file listing must not run after subdirectory listing fails")
	}
	if stats.SubdirListPermissionErrors != 1 {
		t.Errorf("subdir permission errors = %d, want 1", stats.SubdirListPermissionErrors)
	}
	if stats.LeafDirectories != 0 {
		t.Errorf("leaf directories = %d, want 0 for abandoned directory", stats.LeafDirectories)
	}
}

func TestRunFileListingFailureKeepsDirectory(t *testing.T) {
	boom := &lister.ClassifiedError{
		Op: lister.OpListFiles, Kind: lister.KindIO,
		Path: "/root", Err: fmt.Errorf("read failed"),
	}
	fl := &fakeLister{
		children: func(path string) ([]string, error) {
			if path == "/root" {
				return []string{"/root/child"}, nil
			}
			return nil, nil
		},
		files: func(path string) ([]string, error) {
			if path == "/root" {
				return nil, boom
			}
			return nil, nil
		},
		stat: func(string) (lister.Metadata, error) {
			return lister.Metadata{IsDir: true, ModifiedAt: time.Now()}, nil
		},
	}

	sink := &recordingSink{}
	engine, _ := NewEngine(fl, fingerprint.New(fingerprint.MD5), pathkey.New(),
		sink, nil, nil, nil)

	stats, _ := engine.Run([]string{"/root"})

	if stats.FileListIOErrors != 1 {
		t.Errorf("file list io errors = %d, want 1", stats.FileListIOErrors)
	}
	if len(sink.dirs) != 1 {
		t.Errorf("emitted %d directories, want only the failing one", len(sink.dirs))
	}
	// Children discovered before the file listing failed are not enqueued.
	if stats.ChildDirectories != 0 {
		t.Errorf("child directories = %d, want 0", stats.ChildDirectories)
	}
}

func TestRunDegradedDirectoryMetadata(t *testing.T) {
	statCalls := 0
	fl := &fakeLister{
		children: func(string) ([]string, error) { return nil, nil },
		files:    func(string) ([]string, error) { return nil, nil },
		stat: func(string) (lister.Metadata, error) {
			statCalls++
			if statCalls == 1 {
				// Root validation succeeds.
				return lister.Metadata{IsDir: true}, nil
			}
			return lister.Metadata{}, fmt.Errorf("attributes unreadable")
		},
	}

	sink := &recordingSink{}
	engine, _ := NewEngine(fl, fingerprint.New(fingerprint.MD5), pathkey.New(),
		sink, nil, nil, nil)

	stats, _ := engine.Run([]string{"/root"})

	if len(sink.dirs) != 1 {
		t.Fatalf("degraded directory must still be emitted, got %d", len(sink.dirs))
	}
	if sink.dirs[0].HasTimes {
		t.Error("degraded directory carries timestamps")
	}
	if sink.dirs[0].ID != 1 {
		t.Errorf("degraded directory id = %d, want 1", sink.dirs[0].ID)
	}
	if stats.DirMetadataErrors != 1 {
		t.Errorf("dir metadata errors = %d, want 1", stats.DirMetadataErrors)
	}
}

func TestRunDegradedFile(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "ok.txt"), []byte("fine"), 0644)

	vanished := filepath.Join(root, "ghost.txt")
	fl := &fakeLister{
		children: func(string) ([]string, error) { return nil, nil },
		files: func(path string) ([]string, error) {
			// Report a file that no longer exists next to a real one.
			return []string{filepath.Join(root, "ok.txt"), vanished}, nil
		},
		stat: func(path string) (lister.Metadata, error) {
			return lister.New().Stat(path)
		},
	}

	sink := &recordingSink{}
	engine, _ := NewEngine(fl, fingerprint.New(fingerprint.MD5), pathkey.New(),
		sink, nil, nil, nil)

	stats, _ := engine.Run([]string{root})

	if len(sink.files) != 2 {
		t.Fatalf("emitted %d files, want 2 (degraded record still emitted)", len(sink.files))
	}
	good, bad := sink.files[0], sink.files[1]
	if good.Size != 4 || good.Fingerprint == "" {
		t.Errorf("good file = size %d fingerprint %q", good.Size, good.Fingerprint)
	}
	if bad.Size != -1 {
		t.Errorf("degraded file size = %d, want -1", bad.Size)
	}
	if bad.Fingerprint != "" {
		t.Errorf("degraded file fingerprint = %q, want absent", bad.Fingerprint)
	}
	if bad.ID != 2 {
		t.Errorf("degraded file id = %d, want 2 (id still consumed)", bad.ID)
	}
	if stats.FileErrors != 1 {
		t.Errorf("file errors = %d, want 1", stats.FileErrors)
	}
	if stats.BytesProcessed != 4 {
		t.Errorf("bytes processed = %d, want 4 (degraded file excluded)", stats.BytesProcessed)
	}
}

// Directory ids are contiguous from 1, file ids are contiguous from 1, and
// every file's owner was emitted strictly before the file.
func TestRunIdentifierInvariants(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"a", "a/x", "a/y", "b", "b/z"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	for i, file := range []string{"one", "a/two", "a/x/three", "b/four", "b/z/five"} {
		content := []byte(fmt.Sprintf("content-%d", i))
		if err := os.WriteFile(filepath.Join(root, file), content, 0644); err != nil {
			t.Fatalf("write %s: %v", file, err)
		}
	}

	sink := &recordingSink{}
	stats, err := newTestEngine(t, sink, nil).Run([]string{root})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, d := range sink.dirs {
		if d.ID != int64(i+1) {
			t.Errorf("directory %d has id %d, want contiguous sequence", i, d.ID)
		}
	}
	for i, f := range sink.files {
		if f.ID != int64(i+1) {
			t.Errorf("file %d has id %d, want contiguous sequence", i, f.ID)
		}
	}

	emitted := make(map[int64]int) // dir id -> emission index
	dirSeen := 0
	fileAt := make(map[int]FileNode)
	for i, event := range sink.events {
		switch event {
		case "dir":
			emitted[sink.dirs[dirSeen].ID] = i
			dirSeen++
		case "file":
			fileAt[i] = sink.files[len(fileAt)]
		}
	}
	for at, f := range fileAt {
		ownerAt, ok := emitted[f.OwnerDirectoryID]
		if !ok {
			t.Errorf("file %d references unknown directory %d", f.ID, f.OwnerDirectoryID)
			continue
		}
		if ownerAt >= at {
			t.Errorf("file %d emitted before its owner directory %d", f.ID, f.OwnerDirectoryID)
		}
	}

	if stats.DistinctDirectories != int64(len(sink.dirs)) {
		t.Errorf("summary directories %d != emissions %d",
			stats.DistinctDirectories, len(sink.dirs))
	}
	if stats.DistinctFiles != int64(len(sink.files)) {
		t.Errorf("summary files %d != emissions %d", stats.DistinctFiles, len(sink.files))
	}
}

func TestRunRootsDoNotInterleave(t *testing.T) {
	makeRoot := func(name string) string {
		root := filepath.Join(t.TempDir(), name)
		os.MkdirAll(filepath.Join(root, "sub"), 0755)
		return root
	}
	r1 := makeRoot("first")
	r2 := makeRoot("second")

	sink := &recordingSink{}
	_, err := newTestEngine(t, sink, nil).Run([]string{r1, r2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sink.dirs) != 4 {
		t.Fatalf("emitted %d directories, want 4", len(sink.dirs))
	}
	// First root's entire subtree comes before the second root starts.
	want := []string{r1, filepath.Join(r1, "sub"), r2, filepath.Join(r2, "sub")}
	for i, d := range sink.dirs {
		if d.Path != want[i] {
			t.Errorf("emission %d = %q, want %q", i, d.Path, want[i])
		}
	}
	// Each root restarts at depth 0 with parent 0.
	if sink.dirs[2].Depth != 0 || sink.dirs[2].ParentID != 0 {
		t.Errorf("second root = depth %d parent %d, want 0/0",
			sink.dirs[2].Depth, sink.dirs[2].ParentID)
	}
}

func TestRunThroughputUsesClock(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "f"), []byte("12345678"), 0644)

	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	clock := &fakeClock{times: []time.Time{start, start.Add(4 * time.Second)}}

	sink := &recordingSink{}
	engine, _ := NewEngine(lister.New(), fingerprint.New(fingerprint.MD5), pathkey.New(),
		sink, clock, nil, nil)

	stats, _ := engine.Run([]string{root})

	if stats.Elapsed != 4*time.Second {
		t.Errorf("elapsed = %v, want 4s", stats.Elapsed)
	}
	if stats.BytesPerSecond != 2 {
		t.Errorf("throughput = %v, want 2 bytes/s", stats.BytesPerSecond)
	}
}
