package crawler

import "testing"

func TestWorklistFIFO(t *testing.T) {
	w := newWorklist()

	if !w.IsEmpty() {
		t.Error("new worklist not empty")
	}

	w.Push(workItem{path: "/a", depth: 0, parentID: 0})
	w.Push(workItem{path: "/a/b", depth: 1, parentID: 1})
	w.Push(workItem{path: "/a/c", depth: 1, parentID: 1})

	if w.Len() != 3 {
		t.Errorf("Len = %d, want 3", w.Len())
	}

	want := []string{"/a", "/a/b", "/a/c"}
	for i, path := range want {
		item, ok := w.Pop()
		if !ok {
			t.Fatalf("Pop %d failed", i)
		}
		if item.path != path {
			t.Errorf("Pop %d = %q, want %q", i, item.path, path)
		}
	}

	if _, ok := w.Pop(); ok {
		t.Error("Pop on empty worklist reported ok")
	}
}

func TestWorklistAppendsDuringConsumption(t *testing.T) {
	// Children appended while consuming come out after everything queued
	// before them, giving the breadth-ordered unfolding of a subtree.
	w := newWorklist()
	w.Push(workItem{path: "/r"})

	first, _ := w.Pop()
	if first.path != "/r" {
		t.Fatalf("first = %q", first.path)
	}
	w.Push(workItem{path: "/r/a", depth: 1, parentID: 1})
	w.Push(workItem{path: "/r/b", depth: 1, parentID: 1})

	second, _ := w.Pop()
	w.Push(workItem{path: "/r/a/x", depth: 2, parentID: 2})
	third, _ := w.Pop()
	fourth, _ := w.Pop()

	if second.path != "/r/a" || third.path != "/r/b" || fourth.path != "/r/a/x" {
		t.Errorf("unfold order = %q, %q, %q", second.path, third.path, fourth.path)
	}
}
