// Package engine provides the core editing engine for Ripple.
//
// The engine package is the facade over the text buffer, the cursor and the
// undo/redo history of one document. Every mutation goes through it so the
// three stay consistent: after any command the cursor lies within
// [0, DocumentLength()].
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - rope: immutable B+ tree rope, addressed by character offset
//   - buffer: bounds-checked text buffer with line/column conversion
//   - cursor: the single insertion point, with goal-column line movement
//   - history: undo/redo stacks of immutable records with burst coalescing
//
// # Concurrency
//
// Engine has no locks. It is driven by one goroutine at a time; a front end
// that does background work funnels it through the same event loop.
//
// # Basic Usage
//
//	e := engine.New()
//
//	e.InsertChar('H')
//	e.InsertChar('i')  // "Hi", cursor 2
//	e.DeleteBackward() // "H", cursor 1
//
//	e.Undo() // "Hi", cursor 2
//	e.Undo() // "", cursor 0 ("Hi" was typed as one burst)
//
// Commands can also be dispatched as values:
//
//	e.Apply(engine.MoveCommand(engine.DirLeft))
//	e.Apply(engine.Command{Kind: engine.CmdUndo})
//
// # Loading
//
//	e := engine.New(engine.WithContent("initial content"))
//	e.Load("replacement") // cursor to 0, history cleared
//
// # Errors
//
//   - ErrOutOfBounds: an offset or range outside the document
//   - ErrReadOnly: a mutation on a read-only engine
//   - ErrUnknownCommand: a Command with an unknown kind
//
// Empty history and cursor movement at a bound are not errors; they report
// false.
package engine
