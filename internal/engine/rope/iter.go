package rope

// chunkIterFrame represents a position in the tree traversal for chunk iteration.
type chunkIterFrame struct {
	node     *Node
	childIdx int // next child index to visit (internal nodes)
	chunkIdx int // next chunk index to visit (leaf nodes)
}

// ChunkIterator iterates over chunks in a rope.
type ChunkIterator struct {
	root       *Node
	stack      []chunkIterFrame
	started    bool
	chunk      Chunk
	chunkStart Offset
	next       Offset
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	return &ChunkIterator{
		root:  r.root,
		stack: make([]chunkIterFrame, 0, 16),
	}
}

// Next advances to the next chunk.
// Returns true if there is a chunk, false if iteration is complete.
func (it *ChunkIterator) Next() bool {
	if !it.started {
		it.started = true
		if it.root == nil {
			return false
		}
		it.stack = append(it.stack, chunkIterFrame{node: it.root})
	}

	for len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		node := frame.node

		if node.IsLeaf() {
			if frame.chunkIdx < len(node.chunks) {
				it.chunk = node.chunks[frame.chunkIdx]
				frame.chunkIdx++
				it.chunkStart = it.next
				it.next += it.chunk.Len()
				return true
			}
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		if frame.childIdx < len(node.children) {
			child := node.children[frame.childIdx]
			frame.childIdx++
			it.stack = append(it.stack, chunkIterFrame{node: child})
			continue
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}

// Offset returns the character offset of the start of the current chunk.
func (it *ChunkIterator) Offset() Offset {
	return it.chunkStart
}
