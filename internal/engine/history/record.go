package history

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dshills/ripple/internal/engine/buffer"
)

// Offset is an alias for buffer.Offset for convenience.
type Offset = buffer.Offset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Kind is the kind of edit a Record describes.
type Kind uint8

const (
	// KindInsert is an insertion of Text at Range.Start.
	KindInsert Kind = iota + 1

	// KindDelete is the removal of Text from Range.
	KindDelete
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Record is an immutable, reversible description of one edit.
//
// For an insert, Range is where Text sits after the edit.
// For a delete, Range is where Text sat before the edit.
type Record struct {
	Kind         Kind
	Range        Range
	Text         string
	CursorBefore Offset
	CursorAfter  Offset
	Time         time.Time
}

// NewInsertRecord describes inserting text at offset.
// The cursor ends just past the inserted text.
func NewInsertRecord(offset Offset, text string, cursorBefore Offset) Record {
	end := offset + utf8.RuneCountInString(text)
	return Record{
		Kind:         KindInsert,
		Range:        buffer.NewRange(offset, end),
		Text:         text,
		CursorBefore: cursorBefore,
		CursorAfter:  end,
	}
}

// NewDeleteRecord describes removing text from r.
// The cursor ends at the deletion point.
func NewDeleteRecord(r Range, text string, cursorBefore Offset) Record {
	return Record{
		Kind:         KindDelete,
		Range:        r,
		Text:         text,
		CursorBefore: cursorBefore,
		CursorAfter:  r.Start,
	}
}

// Len returns the number of characters the record inserts or removes.
func (r Record) Len() int {
	return r.Range.Len()
}

// IsLineBreak reports whether the record's text contains a line terminator.
func (r Record) IsLineBreak() bool {
	return strings.ContainsRune(r.Text, '\n')
}

// Description returns a human-readable description of the record.
func (r Record) Description() string {
	text := r.Text
	if utf8.RuneCountInString(text) > 20 {
		text = string([]rune(text)[:20]) + "..."
	}
	return fmt.Sprintf("%s %q at %d", r.Kind, text, r.Range.Start)
}

// mergeable reports whether next continues the typing burst ending in r.
func (r Record) mergeable(next Record) bool {
	return r.Kind == KindInsert &&
		next.Kind == KindInsert &&
		next.Len() == 1 &&
		!r.IsLineBreak() &&
		!next.IsLineBreak() &&
		next.Range.Start == r.Range.End
}

// merge returns a record covering r followed by next.
func (r Record) merge(next Record) Record {
	return Record{
		Kind:         KindInsert,
		Range:        buffer.NewRange(r.Range.Start, next.Range.End),
		Text:         r.Text + next.Text,
		CursorBefore: r.CursorBefore,
		CursorAfter:  next.CursorAfter,
		Time:         next.Time,
	}
}
