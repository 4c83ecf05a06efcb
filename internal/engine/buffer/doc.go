// Package buffer provides the editor's text buffer, built on top of the rope
// data structure.
//
// All positions are character offsets. The buffer validates every position it
// is given and reports violations with ErrOutOfBounds; the only policy-defined
// clamping is the column of PointToOffset, which is clamped to the line length.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	end, _ := buf.Insert(7, "Beautiful ")     // "Hello, Beautiful World!"
//	removed, _ := buf.Delete(buffer.NewRange(0, 7)) // "Hello, "
//
// Line endings:
//
// The buffer stores "\n" only. Text loaded with CRLF or CR endings is
// normalized, and the detected style is restored by WriteTo so that saving a
// file does not rewrite its line endings.
//
// Thread safety:
//
// Buffer is not safe for concurrent use. For a consistent view from another
// goroutine, take Rope(); ropes are immutable.
package buffer
