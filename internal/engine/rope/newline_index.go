package rope

import "sort"

// MaxInlineNewlines is the number of newline positions stored inline.
const MaxInlineNewlines = 4

// NewlineIndex records the character positions of the newlines in a chunk.
// Chunks with few newlines (the common case) keep them in an inline array
// and never allocate.
//
// Positions fit in uint16 because a chunk holds at most MaxChunkSize bytes.
type NewlineIndex struct {
	inline    [MaxInlineNewlines]uint16
	count     uint16
	positions []uint16 // only allocated when count > MaxInlineNewlines
}

// ComputeNewlineIndex scans a string and builds its newline index.
func ComputeNewlineIndex(s string) NewlineIndex {
	var idx NewlineIndex

	char := 0
	for _, r := range s {
		if r == '\n' {
			idx.add(uint16(char))
		}
		char++
	}
	return idx
}

func (idx *NewlineIndex) add(pos uint16) {
	if idx.count < MaxInlineNewlines {
		idx.inline[idx.count] = pos
	} else {
		if idx.positions == nil {
			idx.positions = make([]uint16, MaxInlineNewlines, MaxInlineNewlines*4)
			copy(idx.positions, idx.inline[:])
		}
		idx.positions = append(idx.positions, pos)
	}
	idx.count++
}

// Count returns the number of newlines.
func (idx *NewlineIndex) Count() int {
	return int(idx.count)
}

// Position returns the character offset of the nth newline (0-indexed),
// or -1 if n is out of range.
func (idx *NewlineIndex) Position(n int) int {
	if n < 0 || n >= int(idx.count) {
		return -1
	}
	return int(idx.all()[n])
}

// LineStart returns the character offset at which line `line` of the chunk
// begins. Line 0 starts at 0; line n starts just after the nth newline.
// Returns -1 if the chunk has fewer than `line` newlines.
func (idx *NewlineIndex) LineStart(line int) int {
	if line == 0 {
		return 0
	}
	pos := idx.Position(line - 1)
	if pos < 0 {
		return -1
	}
	return pos + 1
}

// CountBefore returns the number of newlines at character offsets < char.
func (idx *NewlineIndex) CountBefore(char int) int {
	positions := idx.all()
	if len(positions) <= 8 {
		n := 0
		for _, p := range positions {
			if int(p) >= char {
				break
			}
			n++
		}
		return n
	}
	return sort.Search(len(positions), func(i int) bool {
		return int(positions[i]) >= char
	})
}

func (idx *NewlineIndex) all() []uint16 {
	if idx.count <= MaxInlineNewlines {
		return idx.inline[:idx.count]
	}
	return idx.positions
}
