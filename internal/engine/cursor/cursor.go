package cursor

import (
	"fmt"

	"github.com/dshills/ripple/internal/engine/buffer"
)

// Offset is an alias for buffer.Offset for convenience.
type Offset = buffer.Offset

// Point is an alias for buffer.Point for convenience.
type Point = buffer.Point

// ErrOutOfBounds is returned by MoveTo for offsets outside the document.
var ErrOutOfBounds = buffer.ErrOutOfBounds

// Layout is the read-only view of the text that line-aware movement needs.
// *buffer.Buffer implements it.
type Layout interface {
	Len() int
	LineCount() int
	LineLen(line int) int
	OffsetToPoint(offset Offset) (Point, error)
	PointToOffset(point Point) (Offset, error)
}

const noGoal = -1

// Cursor is the insertion point of a document.
// It always satisfies 0 <= Offset() <= the length it was last checked against.
type Cursor struct {
	offset Offset

	// goal is the column vertical movement tries to return to.
	goal int
}

// New creates a cursor at offset 0.
func New() *Cursor {
	return &Cursor{goal: noGoal}
}

// Offset returns the cursor's character offset.
func (c *Cursor) Offset() Offset {
	return c.offset
}

// MoveLeft moves one character left. Returns false at the start of the document.
func (c *Cursor) MoveLeft() bool {
	c.goal = noGoal
	if c.offset == 0 {
		return false
	}
	c.offset--
	return true
}

// MoveRight moves one character right. Returns false at length.
func (c *Cursor) MoveRight(length int) bool {
	c.goal = noGoal
	if c.offset >= length {
		c.offset = length
		return false
	}
	c.offset++
	return true
}

// MoveTo places the cursor at offset, which must lie in [0, length].
func (c *Cursor) MoveTo(offset Offset, length int) error {
	if offset < 0 || offset > length {
		return fmt.Errorf("move to %d (length %d): %w", offset, length, ErrOutOfBounds)
	}
	c.offset = offset
	c.goal = noGoal
	return nil
}

// Set places the cursor at offset clamped to [0, length] and clears the
// goal column. Unlike MoveTo it never fails.
func (c *Cursor) Set(offset Offset, length int) {
	c.offset = max(0, min(offset, length))
	c.goal = noGoal
}

// Reclamp pulls the cursor back inside a document of the given length.
func (c *Cursor) Reclamp(length int) {
	if c.offset > length {
		c.offset = length
	}
	if c.offset < 0 {
		c.offset = 0
	}
}

// LineCol returns the cursor's line and column in l.
func (c *Cursor) LineCol(l Layout) Point {
	p, err := l.OffsetToPoint(min(c.offset, l.Len()))
	if err != nil {
		return Point{}
	}
	return p
}

// MoveUp moves to the previous line, keeping the goal column.
// Returns false on the first line.
func (c *Cursor) MoveUp(l Layout) bool {
	p := c.LineCol(l)
	if p.Line == 0 {
		return false
	}
	return c.moveToLine(l, p, p.Line-1)
}

// MoveDown moves to the next line, keeping the goal column.
// Returns false on the last line.
func (c *Cursor) MoveDown(l Layout) bool {
	p := c.LineCol(l)
	if p.Line >= l.LineCount()-1 {
		return false
	}
	return c.moveToLine(l, p, p.Line+1)
}

func (c *Cursor) moveToLine(l Layout, from Point, line int) bool {
	goal := c.goal
	if goal == noGoal {
		goal = from.Column
	}
	offset, err := l.PointToOffset(Point{Line: line, Column: goal})
	if err != nil {
		return false
	}
	c.offset = offset
	c.goal = goal
	return true
}

// LineStart moves to the first character of the current line.
func (c *Cursor) LineStart(l Layout) bool {
	p := c.LineCol(l)
	return c.jump(c.offset - p.Column)
}

// LineEnd moves to just before the current line's terminator.
func (c *Cursor) LineEnd(l Layout) bool {
	p := c.LineCol(l)
	return c.jump(c.offset - p.Column + l.LineLen(p.Line))
}

// DocStart moves to offset 0.
func (c *Cursor) DocStart() bool {
	return c.jump(0)
}

// DocEnd moves to the end of the document.
func (c *Cursor) DocEnd(length int) bool {
	return c.jump(length)
}

func (c *Cursor) jump(offset Offset) bool {
	c.goal = noGoal
	if offset == c.offset {
		return false
	}
	c.offset = offset
	return true
}

// String returns a string representation of the cursor.
func (c *Cursor) String() string {
	return fmt.Sprintf("Cursor(%d)", c.offset)
}
