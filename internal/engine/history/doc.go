// Package history provides undo/redo for the editor engine.
//
// # Records
//
// A Record is an immutable description of one edit: its kind (insert or
// delete), the affected range, the text inserted or removed and the cursor
// offsets before and after. The engine reverses a record by applying the
// opposite edit.
//
// # History Stack
//
// History keeps two stacks. Push clears the redo stack; Undo and Redo move a
// record between the stacks unchanged and hand it back to the caller:
//
//	h := history.NewHistory(history.WithMaxDepth(500))
//	h.Push(history.NewInsertRecord(0, "a", 0))
//
//	if rec, ok := h.PeekUndo(); ok {
//	    // reverse rec, then commit the move
//	    h.Undo()
//	}
//
// When the undo stack exceeds its depth the oldest record is discarded.
//
// # Coalescing
//
// Consecutive single-character inserts typed at adjacent offsets merge into
// one record, so one undo removes a whole word. A burst is broken by
// deletion, by a line terminator, by undo/redo, by BreakBurst (cursor
// movement) and, when WithCoalesceWindow is set, by a pause in typing.
package history
