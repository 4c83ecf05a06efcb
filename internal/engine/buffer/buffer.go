package buffer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/ripple/internal/engine/rope"
)

// ErrOutOfBounds is returned when an offset, range or line lies outside the
// document. It always indicates a caller bug, never a user error.
var ErrOutOfBounds = errors.New("out of bounds")

// LineEnding specifies the line ending style used when writing the buffer.
// The buffer itself always stores "\n".
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Normalize converts CRLF and CR line endings to LF.
func Normalize(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Buffer wraps a Rope with the editor's text contract: character offsets,
// explicit bounds errors and "\n" line terminators.
//
// Buffer has no internal synchronization. It is owned by a single engine.
type Buffer struct {
	rope       rope.Rope
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		rope:       rope.New(),
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer with initial content.
// Line endings are normalized and the detected style is kept for WriteTo.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(append([]Option{WithLineEnding(DetectLineEnding(s))}, opts...)...)
	b.rope = rope.FromString(Normalize(s))
	return b
}

// Reset replaces the whole content without creating an edit.
func (b *Buffer) Reset(text string) {
	builder := rope.NewBuilder()
	builder.NormalizeLineEndings()
	builder.WriteString(text)
	b.replace(builder)
}

// ResetFrom replaces the whole content with everything read from r. The
// text is chunked and normalized as it streams in, and the dominant line
// ending becomes the one WriteTo uses. On a read error the buffer is left
// unchanged.
func (b *Buffer) ResetFrom(r io.Reader) error {
	builder := rope.NewBuilder()
	builder.NormalizeLineEndings()
	if _, err := builder.ReadFrom(r); err != nil {
		return err
	}
	b.replace(builder)
	return nil
}

func (b *Buffer) replace(builder *rope.Builder) {
	b.rope = builder.Build()
	b.lineEnding = dominantLineEnding(builder.LineEndings())
	b.revisionID = NewRevisionID()
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	return b.rope.String()
}

// Rope returns the current immutable rope.
func (b *Buffer) Rope() rope.Rope {
	return b.rope
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int {
	return b.rope.Len()
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	return b.rope.IsEmpty()
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	return b.rope.LineCount()
}

// LineText returns the text of a line without its terminator.
// Lines past the end return "".
func (b *Buffer) LineText(line int) string {
	if line < 0 || line >= b.rope.LineCount() {
		return ""
	}
	return b.rope.LineText(line)
}

// LineLen returns the length of a line in characters, excluding the terminator.
func (b *Buffer) LineLen(line int) int {
	if line < 0 || line >= b.rope.LineCount() {
		return 0
	}
	return b.rope.LineLen(line)
}

// RuneAt returns the character at offset.
func (b *Buffer) RuneAt(offset Offset) (rune, bool) {
	return b.rope.RuneAt(offset)
}

// Slice returns the text in r.
func (b *Buffer) Slice(r Range) (string, error) {
	if err := b.checkRange(r); err != nil {
		return "", fmt.Errorf("slice %s: %w", r, err)
	}
	return b.rope.Slice(r.Start, r.End), nil
}

// WriteTo writes the content using the buffer's line ending style.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if b.lineEnding == LineEndingLF {
		return b.rope.WriteTo(w)
	}

	seq := b.lineEnding.Sequence()
	var total int64
	it := b.rope.Chunks()
	for it.Next() {
		n, err := io.WriteString(w, strings.ReplaceAll(it.Chunk().String(), "\n", seq))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Coordinate Conversion

// OffsetToPoint converts a character offset to line/column.
func (b *Buffer) OffsetToPoint(offset Offset) (Point, error) {
	if offset < 0 || offset > b.rope.Len() {
		return Point{}, fmt.Errorf("offset %d (length %d): %w", offset, b.rope.Len(), ErrOutOfBounds)
	}
	p := b.rope.OffsetToPoint(offset)
	return Point{Line: p.Line, Column: p.Column}, nil
}

// PointToOffset converts line/column to a character offset.
// A column past the end of the line is clamped to the line length.
func (b *Buffer) PointToOffset(point Point) (Offset, error) {
	if err := b.checkLine(point.Line); err != nil {
		return 0, err
	}
	if point.Column < 0 {
		return 0, fmt.Errorf("column %d: %w", point.Column, ErrOutOfBounds)
	}
	return b.rope.PointToOffset(rope.Point{Line: point.Line, Column: point.Column}), nil
}

// Write Operations

// Insert inserts text at offset.
// Returns the offset just past the inserted text.
func (b *Buffer) Insert(offset Offset, text string) (Offset, error) {
	if offset < 0 || offset > b.rope.Len() {
		return 0, fmt.Errorf("insert at %d (length %d): %w", offset, b.rope.Len(), ErrOutOfBounds)
	}
	if text == "" {
		return offset, nil
	}

	before := b.rope.Len()
	b.rope = b.rope.Insert(offset, Normalize(text))
	b.revisionID = NewRevisionID()

	return offset + b.rope.Len() - before, nil
}

// Delete removes the text in r and returns it.
func (b *Buffer) Delete(r Range) (string, error) {
	if err := b.checkRange(r); err != nil {
		return "", fmt.Errorf("delete %s: %w", r, err)
	}
	if r.IsEmpty() {
		return "", nil
	}

	removed := b.rope.Slice(r.Start, r.End)
	b.rope = b.rope.Delete(r.Start, r.End)
	b.revisionID = NewRevisionID()

	return removed, nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	return b.revisionID
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	return b.lineEnding
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	return b.tabWidth
}

func (b *Buffer) checkRange(r Range) error {
	if !r.IsValid() || r.End > b.rope.Len() {
		return fmt.Errorf("length %d: %w", b.rope.Len(), ErrOutOfBounds)
	}
	return nil
}

func (b *Buffer) checkLine(line int) error {
	if line < 0 || line >= b.rope.LineCount() {
		return fmt.Errorf("line %d (lines %d): %w", line, b.rope.LineCount(), ErrOutOfBounds)
	}
	return nil
}
