package crawler

import "container/list"

// workItem is a pending directory: its path, depth, and the id of the
// parent directory that discovered it. Items exist only until processed.
type workItem struct {
	path     string
	depth    int
	parentID int64
}

// worklist is the FIFO queue of pending directories. Children are appended
// to the back while the front is consumed, so each root's subtree unfolds
// completely in discovery order before the next seeded root begins.
type worklist struct {
	queue *list.List
}

func newWorklist() *worklist {
	return &worklist{queue: list.New()}
}

// Push appends an item to the back of the queue.
func (w *worklist) Push(item workItem) {
	w.queue.PushBack(item)
}

// Pop removes and returns the item at the front of the queue.
// Returns a zero item and false if the queue is empty.
func (w *worklist) Pop() (workItem, bool) {
	if w.queue.Len() == 0 {
		return workItem{}, false
	}
	elem := w.queue.Front()
	w.queue.Remove(elem)
	return elem.Value.(workItem), true
}

// Len returns the number of pending items.
func (w *worklist) Len() int {
	return w.queue.Len()
}

// IsEmpty returns true if no items are pending.
func (w *worklist) IsEmpty() bool {
	return w.queue.Len() == 0
}
