package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// This enables cheap snapshots and concurrent read access.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope from a string.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(sanitize(s)))
}

// buildFromChunks builds a rope from a slice of chunks.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var leaves []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leafChunks := make([]Chunk, end-i)
		copy(leafChunks, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(leafChunks))
	}

	// Build tree bottom-up
	nodes := leaves
	for len(nodes) > 1 {
		var parents []*Node
		for i := 0; i < len(nodes); i += MaxChildren {
			end := min(i+MaxChildren, len(nodes))
			children := make([]*Node, end-i)
			copy(children, nodes[i:end])
			parents = append(parents, newInternalNode(children))
		}
		nodes = parents
	}
	return Rope{root: nodes[0]}
}

// fromRoot wraps a node, collapsing single-child internal roots.
func fromRoot(n *Node) Rope {
	if n == nil {
		return New()
	}
	for !n.IsLeaf() && len(n.children) == 1 {
		n = n.children[0]
	}
	return Rope{root: n}
}

// Len returns the total character length.
func (r Rope) Len() Offset {
	if r.root == nil {
		return 0
	}
	return r.root.Len()
}

// ByteLen returns the UTF-8 encoded length.
func (r Rope) ByteLen() int {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Bytes
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the full text.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.root.summary.Bytes)
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the character range [start, end).
// The range is clamped to the rope.
func (r Rope) Slice(start, end Offset) string {
	start, end = r.clampRange(start, end)
	if start == end {
		return ""
	}
	var sb strings.Builder
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// RuneAt returns the rune at a character offset.
// Returns false if the offset is out of range.
func (r Rope) RuneAt(offset Offset) (rune, bool) {
	if offset < 0 || offset >= r.Len() {
		return 0, false
	}
	return r.root.runeAt(offset), true
}

// Insert inserts text at a character offset, clamped to [0, Len].
func (r Rope) Insert(offset Offset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	text = sanitize(text)
	if r.IsEmpty() {
		return FromString(text)
	}
	offset = r.clamp(offset)
	return fromRoot(buildNodeFromChildren(r.root.insert(offset, text)))
}

// Delete removes the character range [start, end).
// The range is clamped to the rope.
func (r Rope) Delete(start, end Offset) Rope {
	start, end = r.clampRange(start, end)
	if start == end {
		return r
	}
	return fromRoot(r.root.delete(start, end))
}

// Split splits the rope at a character offset.
// Returns (left, right) where left holds [0, offset) and right [offset, end).
func (r Rope) Split(offset Offset) (Rope, Rope) {
	if r.root == nil {
		return New(), New()
	}
	left, right := r.root.split(r.clamp(offset))
	return fromRoot(left), fromRoot(right)
}

// Concat joins two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.IsEmpty() {
		if other.root == nil {
			return New()
		}
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return fromRoot(concat(r.root, other.root))
}

// Summary returns the aggregated metrics of the whole rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{}
	}
	return r.root.summary
}

// LineStart returns the character offset of the first character of line.
// Lines past the end clamp to the last line.
func (r Rope) LineStart(line int) Offset {
	if r.root == nil || line <= 0 {
		return 0
	}
	line = min(line, r.LineCount()-1)
	return r.root.lineStart(line)
}

// LineEnd returns the character offset just before the line's terminator,
// or the rope length for the last line.
func (r Rope) LineEnd(line int) Offset {
	if line < 0 {
		line = 0
	}
	if line >= r.LineCount()-1 {
		return r.Len()
	}
	return r.root.lineStart(line+1) - 1
}

// LineLen returns the number of characters in line, excluding the terminator.
func (r Rope) LineLen(line int) int {
	return r.LineEnd(line) - r.LineStart(line)
}

// LineText returns the text of line without its terminator.
func (r Rope) LineText(line int) string {
	return r.Slice(r.LineStart(line), r.LineEnd(line))
}

// OffsetToPoint converts a character offset to a line/column position.
// The offset is clamped to [0, Len].
func (r Rope) OffsetToPoint(offset Offset) Point {
	if r.root == nil {
		return Point{}
	}
	offset = r.clamp(offset)
	line := r.root.linesBefore(offset)
	return Point{Line: line, Column: offset - r.root.lineStart(line)}
}

// PointToOffset converts a line/column position to a character offset.
// The line clamps to the last line and the column to the line length.
func (r Rope) PointToOffset(p Point) Offset {
	start := r.LineStart(p.Line)
	if p.Line >= r.LineCount() {
		return r.Len()
	}
	return start + max(0, min(p.Column, r.LineLen(p.Line)))
}

// WriteTo writes the rope's text to w chunk by chunk.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Chunks()
	for it.Next() {
		n, err := io.WriteString(w, it.Chunk().String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Height returns the height of the tree.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height)
}

// ChunkCount returns the number of chunks in the rope.
func (r Rope) ChunkCount() int {
	if r.root == nil {
		return 0
	}
	return countChunks(r.root)
}

func countChunks(n *Node) int {
	if n.IsLeaf() {
		return len(n.chunks)
	}
	count := 0
	for _, child := range n.children {
		count += countChunks(child)
	}
	return count
}

// Equals returns true if two ropes contain the same text.
// This compares content, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.Summary() != other.Summary() {
		return false
	}
	return r.String() == other.String()
}

func (r Rope) clamp(offset Offset) Offset {
	return max(0, min(offset, r.Len()))
}

func (r Rope) clampRange(start, end Offset) (Offset, Offset) {
	start, end = r.clamp(start), r.clamp(end)
	if start > end {
		start = end
	}
	return start, end
}
