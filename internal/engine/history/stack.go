package history

import "time"

// History keeps the undo and redo stacks of one document.
//
// History has no internal synchronization; the engine that owns it
// serializes access.
type History struct {
	// undoStack[oldest:] are the live undo records. Evicted records are
	// zeroed in place and compacted away once they make up maxDepth slots,
	// so eviction costs amortized O(1) per push.
	undoStack []Record
	oldest    int
	redoStack []Record

	// burst is true while typing may still coalesce into the top record.
	burst bool

	// Configuration
	maxDepth int
	coalesce bool
	window   time.Duration
	now      func() time.Time
}

// NewHistory creates a new history manager.
// Coalescing is on by default and the depth is DefaultMaxDepth.
func NewHistory(opts ...Option) *History {
	h := &History{
		maxDepth: DefaultMaxDepth,
		coalesce: true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Push records a new edit and clears the redo stack.
// A single-character insert that continues the open typing burst is merged
// into the top record instead of being pushed.
func (h *History) Push(rec Record) {
	if rec.Time.IsZero() {
		rec.Time = h.now()
	}
	h.redoStack = nil

	if n := len(h.undoStack); n > h.oldest && h.canCoalesce(h.undoStack[n-1], rec) {
		h.undoStack[n-1] = h.undoStack[n-1].merge(rec)
		return
	}

	h.undoStack = append(h.undoStack, rec)
	h.burst = rec.Kind == KindInsert && rec.Len() == 1 && !rec.IsLineBreak()

	if h.UndoCount() > h.maxDepth {
		h.evictOldest()
	}
}

func (h *History) evictOldest() {
	h.undoStack[h.oldest] = Record{}
	h.oldest++
	if h.oldest < h.maxDepth {
		return
	}
	n := copy(h.undoStack, h.undoStack[h.oldest:])
	clear(h.undoStack[n:])
	h.undoStack = h.undoStack[:n]
	h.oldest = 0
}

func (h *History) canCoalesce(top, rec Record) bool {
	if !h.coalesce || !h.burst || !top.mergeable(rec) {
		return false
	}
	return h.window <= 0 || rec.Time.Sub(top.Time) <= h.window
}

// BreakBurst ends the current typing burst so that the next insert starts a
// new record. The engine calls it on cursor movement.
func (h *History) BreakBurst() {
	h.burst = false
}

// Undo moves the most recent record to the redo stack and returns it.
// Returns false if there is nothing to undo.
func (h *History) Undo() (Record, bool) {
	n := len(h.undoStack)
	if n == h.oldest {
		return Record{}, false
	}
	rec := h.undoStack[n-1]
	h.undoStack = h.undoStack[:n-1]
	h.redoStack = append(h.redoStack, rec)
	h.burst = false
	return rec, true
}

// Redo moves the most recently undone record back to the undo stack and
// returns it. Returns false if there is nothing to redo.
func (h *History) Redo() (Record, bool) {
	n := len(h.redoStack)
	if n == 0 {
		return Record{}, false
	}
	rec := h.redoStack[n-1]
	h.redoStack = h.redoStack[:n-1]
	h.undoStack = append(h.undoStack, rec)
	h.burst = false
	return rec, true
}

// PeekUndo returns the record Undo would return, without moving it.
func (h *History) PeekUndo() (Record, bool) {
	if !h.CanUndo() {
		return Record{}, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}

// PeekRedo returns the record Redo would return, without moving it.
func (h *History) PeekRedo() (Record, bool) {
	if len(h.redoStack) == 0 {
		return Record{}, false
	}
	return h.redoStack[len(h.redoStack)-1], true
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > h.oldest
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo records available.
func (h *History) UndoCount() int {
	return len(h.undoStack) - h.oldest
}

// RedoCount returns the number of redo records available.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.oldest = 0
	h.redoStack = nil
	h.burst = false
}

// MaxDepth returns the maximum number of undo records.
func (h *History) MaxDepth() int {
	return h.maxDepth
}
