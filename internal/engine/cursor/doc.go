// Package cursor tracks the single insertion point of a document.
//
// A Cursor is a character offset that always stays within [0, length].
// Horizontal movement is by whole characters, so multi-byte characters are
// never split. Vertical movement remembers a goal column: moving down across
// a short line and then further down returns to the column the move started
// from. Any non-vertical movement clears the goal.
//
// Line-aware operations take a Layout, which *buffer.Buffer implements.
//
//	c := cursor.New()
//	c.MoveRight(buf.Len())
//	p := c.LineCol(buf) // {Line: 0, Column: 1}
//
// Cursor is not safe for concurrent use.
package cursor
