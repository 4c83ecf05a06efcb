// Package rope provides an immutable rope for storing editor text.
//
// A rope is a balanced tree. Leaves hold bounded text chunks, and internal nodes
// store the aggregated metrics of their subtrees (bytes, characters, newlines).
// All public positions are character offsets: offset n sits immediately before
// the n-th Unicode scalar value of the text.
//
// Key properties:
//   - Insert and Delete copy only the nodes on the path to the edit, so their
//     cost depends on the tree height and the edit size rather than the
//     document size
//   - Offset to line/column translation descends the tree using per-child
//     newline counts instead of scanning the text
//   - Operations return new ropes; originals are never modified
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")   // "hello, world"
//	r = r.Delete(0, 7)     // "world"
//	p := r.OffsetToPoint(3) // {Line: 0, Column: 3}
package rope
