package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/dshills/ripple/internal/engine/buffer"
	"github.com/dshills/ripple/internal/engine/cursor"
	"github.com/dshills/ripple/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// Offset is a character position in the document.
	Offset = buffer.Offset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a character range in the document.
	Range = buffer.Range

	// Record is one entry of the edit history.
	Record = history.Record

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// Engine owns the text, the cursor and the edit history of one document.
// Every mutation goes through it so that the three stay consistent.
//
// Engine is not safe for concurrent use. Callers serialize access, for
// example by driving it from a single event loop.
type Engine struct {
	// Core components
	buf  *buffer.Buffer
	cur  *cursor.Cursor
	hist *history.History

	// savedRevision is the buffer revision last written to disk.
	savedRevision buffer.RevisionID

	// Configuration
	tabWidth       int
	maxUndoEntries int
	coalesce       bool
	coalesceWindow time.Duration
	clock          func() time.Time
	readOnly       bool

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		tabWidth:       DefaultTabWidth,
		maxUndoEntries: DefaultMaxUndoEntries,
		coalesce:       true,
	}
	for _, opt := range opts {
		opt(e)
	}

	bufOpts := []buffer.Option{buffer.WithTabWidth(e.tabWidth)}
	if e.initContent != "" {
		e.buf = buffer.NewBufferFromString(e.initContent, bufOpts...)
	} else {
		e.buf = buffer.NewBuffer(bufOpts...)
	}
	e.initContent = ""

	e.cur = cursor.New()
	e.hist = history.NewHistory(
		history.WithMaxDepth(e.maxUndoEntries),
		history.WithCoalescing(e.coalesce),
		history.WithCoalesceWindow(e.coalesceWindow),
		history.WithClock(e.clock),
	)
	e.savedRevision = e.buf.RevisionID()

	return e
}

// NewFromReader creates an Engine whose content is read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := New(opts...)
	if err := e.LoadFrom(r); err != nil {
		return nil, err
	}
	return e, nil
}

// Loading

// Load replaces the document content, moves the cursor to offset 0 and
// clears the history. Loading is not an undoable edit.
func (e *Engine) Load(text string) {
	e.buf.Reset(text)
	e.reset()
}

func (e *Engine) reset() {
	e.cur = cursor.New()
	e.hist.Clear()
	e.savedRevision = e.buf.RevisionID()
}

// LoadFrom streams r into the document with the same effect as Load. On a
// read error the document is left unchanged.
func (e *Engine) LoadFrom(r io.Reader) error {
	if err := e.buf.ResetFrom(r); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	e.reset()
	return nil
}

// Editing Commands

// InsertChar inserts r at the cursor and moves the cursor past it.
// A "\n" is handled as InsertNewline.
func (e *Engine) InsertChar(r rune) error {
	if r == '\n' {
		return e.InsertNewline()
	}
	return e.insert(string(r))
}

// InsertNewline inserts a line terminator at the cursor.
func (e *Engine) InsertNewline() error {
	return e.insert("\n")
}

// InsertText inserts text at the cursor as a single undo entry that never
// merges with typing around it.
func (e *Engine) InsertText(text string) error {
	if text == "" {
		return nil
	}
	e.hist.BreakBurst()
	if err := e.insert(text); err != nil {
		return err
	}
	e.hist.BreakBurst()
	return nil
}

func (e *Engine) insert(text string) error {
	if e.readOnly {
		return ErrReadOnly
	}

	offset := e.cur.Offset()
	end, err := e.buf.Insert(offset, text)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	// Record what the buffer actually holds after line ending and UTF-8
	// normalization.
	inserted, err := e.buf.Slice(buffer.NewRange(offset, end))
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	e.hist.Push(history.NewInsertRecord(offset, inserted, offset))

	e.setCursor(end)
	return nil
}

// DeleteBackward removes the character before the cursor.
// Returns false when the cursor is at the start of the document.
func (e *Engine) DeleteBackward() (bool, error) {
	if e.readOnly {
		return false, ErrReadOnly
	}
	offset := e.cur.Offset()
	if offset == 0 {
		return false, nil
	}
	return true, e.delete(buffer.NewRange(offset-1, offset))
}

// DeleteForward removes the character after the cursor.
// Returns false when the cursor is at the end of the document.
func (e *Engine) DeleteForward() (bool, error) {
	if e.readOnly {
		return false, ErrReadOnly
	}
	offset := e.cur.Offset()
	if offset >= e.buf.Len() {
		return false, nil
	}
	return true, e.delete(buffer.NewRange(offset, offset+1))
}

func (e *Engine) delete(r Range) error {
	before := e.cur.Offset()
	removed, err := e.buf.Delete(r)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	e.hist.Push(history.NewDeleteRecord(r, removed, before))
	e.setCursor(r.Start)
	return nil
}

// Undo reverses the most recent edit and restores the cursor to where it
// was before that edit. Returns false when there is nothing to undo.
func (e *Engine) Undo() (bool, error) {
	if e.readOnly {
		return false, ErrReadOnly
	}
	rec, ok := e.hist.PeekUndo()
	if !ok {
		return false, nil
	}

	// Apply first; the record only moves to the redo stack on success.
	var err error
	switch rec.Kind {
	case history.KindInsert:
		_, err = e.buf.Delete(rec.Range)
	case history.KindDelete:
		_, err = e.buf.Insert(rec.Range.Start, rec.Text)
	}
	if err != nil {
		return false, fmt.Errorf("undo %s: %w", rec.Description(), err)
	}

	e.hist.Undo()
	e.setCursor(rec.CursorBefore)
	return true, nil
}

// Redo reapplies the most recently undone edit and moves the cursor to
// where that edit left it. Returns false when there is nothing to redo.
func (e *Engine) Redo() (bool, error) {
	if e.readOnly {
		return false, ErrReadOnly
	}
	rec, ok := e.hist.PeekRedo()
	if !ok {
		return false, nil
	}

	var err error
	switch rec.Kind {
	case history.KindInsert:
		_, err = e.buf.Insert(rec.Range.Start, rec.Text)
	case history.KindDelete:
		_, err = e.buf.Delete(rec.Range)
	}
	if err != nil {
		return false, fmt.Errorf("redo %s: %w", rec.Description(), err)
	}

	e.hist.Redo()
	e.setCursor(rec.CursorAfter)
	return true, nil
}

// setCursor moves the cursor to offset, clamped to the document.
func (e *Engine) setCursor(offset Offset) {
	e.cur.Set(offset, e.buf.Len())
}

// Cursor Movement

// Move moves the cursor in direction d. Returns false when the cursor was
// already at the corresponding bound. Any movement ends the typing burst.
func (e *Engine) Move(d Direction) bool {
	e.hist.BreakBurst()

	switch d {
	case DirLeft:
		return e.cur.MoveLeft()
	case DirRight:
		return e.cur.MoveRight(e.buf.Len())
	case DirUp:
		return e.cur.MoveUp(e.buf)
	case DirDown:
		return e.cur.MoveDown(e.buf)
	case DirLineStart:
		return e.cur.LineStart(e.buf)
	case DirLineEnd:
		return e.cur.LineEnd(e.buf)
	case DirDocStart:
		return e.cur.DocStart()
	case DirDocEnd:
		return e.cur.DocEnd(e.buf.Len())
	}
	return false
}

// MoveTo places the cursor at offset.
func (e *Engine) MoveTo(offset Offset) error {
	e.hist.BreakBurst()
	return e.cur.MoveTo(offset, e.buf.Len())
}

// Read Accessors

// ContentSlice returns the text in [start, end).
func (e *Engine) ContentSlice(start, end Offset) (string, error) {
	return e.buf.Slice(buffer.NewRange(start, end))
}

// FullText returns the whole document.
func (e *Engine) FullText() string {
	return e.buf.Text()
}

// WriteTo writes the document to w using its original line endings.
func (e *Engine) WriteTo(w io.Writer) (int64, error) {
	return e.buf.WriteTo(w)
}

// DocumentLength returns the number of characters in the document.
func (e *Engine) DocumentLength() int {
	return e.buf.Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.buf.LineCount()
}

// LineText returns a line without its terminator.
func (e *Engine) LineText(line int) string {
	return e.buf.LineText(line)
}

// LineLen returns a line's length in characters.
func (e *Engine) LineLen(line int) int {
	return e.buf.LineLen(line)
}

// CursorOffset returns the cursor's character offset.
func (e *Engine) CursorOffset() Offset {
	return e.cur.Offset()
}

// CursorLineCol returns the cursor's line and column.
func (e *Engine) CursorLineCol() Point {
	return e.cur.LineCol(e.buf)
}

// OffsetToPoint converts an offset to a line/column position.
func (e *Engine) OffsetToPoint(offset Offset) (Point, error) {
	return e.buf.OffsetToPoint(offset)
}

// PointToOffset converts a line/column position to an offset.
func (e *Engine) PointToOffset(p Point) (Offset, error) {
	return e.buf.PointToOffset(p)
}

// State

// Modified reports whether the document changed since it was loaded or
// last marked saved.
func (e *Engine) Modified() bool {
	return e.buf.RevisionID() != e.savedRevision
}

// MarkSaved records the current content as saved.
func (e *Engine) MarkSaved() {
	e.savedRevision = e.buf.RevisionID()
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.hist.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.hist.CanRedo()
}

// UndoCount returns the number of undo entries.
func (e *Engine) UndoCount() int {
	return e.hist.UndoCount()
}

// RedoCount returns the number of redo entries.
func (e *Engine) RedoCount() int {
	return e.hist.RedoCount()
}

// ReadOnly returns true if the engine rejects mutations.
func (e *Engine) ReadOnly() bool {
	return e.readOnly
}

// SetReadOnly changes the read-only mode.
func (e *Engine) SetReadOnly(readOnly bool) {
	e.readOnly = readOnly
}

// TabWidth returns the configured tab width.
func (e *Engine) TabWidth() int {
	return e.buf.TabWidth()
}

// LineEnding returns the line ending used when writing the document.
func (e *Engine) LineEnding() LineEnding {
	return e.buf.LineEnding()
}
