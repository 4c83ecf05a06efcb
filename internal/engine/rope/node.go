package rope

import "strings"

// Tree structure constants.
const (
	// MinChildren is the minimum children an internal node is built with
	// when a group of children has to be divided.
	MinChildren = 4

	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node is a node of the rope tree.
// Leaf nodes (height == 0) contain text chunks.
// Internal nodes (height > 0) contain child nodes.
type Node struct {
	height  uint8
	summary TextSummary

	// Internal node fields.
	children       []*Node
	childSummaries []TextSummary

	// Leaf node fields.
	chunks []Chunk
}

func newLeafNode() *Node {
	return &Node{chunks: make([]Chunk, 0, MaxChunksPerLeaf)}
}

func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	n.recomputeSummary()
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	summaries := make([]TextSummary, len(children))
	var total TextSummary
	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}

	return &Node{
		height:         children[0].height + 1,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0 && n.children == nil
}

// Len returns the character length of the subtree.
func (n *Node) Len() int {
	return n.summary.Chars
}

func (n *Node) recomputeSummary() {
	var total TextSummary
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			total = total.Add(chunk.summary)
		}
	} else {
		n.childSummaries = make([]TextSummary, len(n.children))
		for i, child := range n.children {
			n.childSummaries[i] = child.summary
			total = total.Add(child.summary)
		}
	}
	n.summary = total
}

func (n *Node) clone() *Node {
	if n.IsLeaf() {
		chunks := make([]Chunk, len(n.chunks))
		copy(chunks, n.chunks)
		return &Node{summary: n.summary, chunks: chunks}
	}

	children := make([]*Node, len(n.children))
	copy(children, n.children)
	summaries := make([]TextSummary, len(n.childSummaries))
	copy(summaries, n.childSummaries)

	return &Node{
		height:         n.height,
		summary:        n.summary,
		children:       children,
		childSummaries: summaries,
	}
}

// appendTo appends all text in this subtree to the builder.
func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			sb.WriteString(chunk.data)
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends the text in the character range [start, end).
func (n *Node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}

	if n.IsLeaf() {
		offset := 0
		for _, chunk := range n.chunks {
			chunkEnd := offset + chunk.Len()
			if chunkEnd <= start {
				offset = chunkEnd
				continue
			}
			if offset >= end {
				break
			}
			sb.WriteString(chunk.Slice(max(start-offset, 0), min(end, chunkEnd)-offset))
			offset = chunkEnd
		}
		return
	}

	offset := 0
	for i, child := range n.children {
		childEnd := offset + n.childSummaries[i].Chars
		if childEnd <= start {
			offset = childEnd
			continue
		}
		if offset >= end {
			break
		}
		child.appendRange(sb, max(start-offset, 0), min(end, childEnd)-offset)
		offset = childEnd
	}
}

// runeAt returns the rune at a character offset, which must be < n.Len().
func (n *Node) runeAt(offset int) rune {
	for !n.IsLeaf() {
		idx, local := n.findChildByOffset(offset)
		n, offset = n.children[idx], local
	}
	for _, chunk := range n.chunks {
		if offset < chunk.Len() {
			return chunk.RuneAt(offset)
		}
		offset -= chunk.Len()
	}
	return 0
}

// findChildByOffset finds the child containing the character at offset.
// Offsets at or past the end resolve to the last child.
func (n *Node) findChildByOffset(offset int) (int, int) {
	current := 0
	for i, summary := range n.childSummaries {
		if current+summary.Chars > offset {
			return i, offset - current
		}
		current += summary.Chars
	}
	last := len(n.children) - 1
	return last, offset - (n.summary.Chars - n.childSummaries[last].Chars)
}

// insert inserts text at a character offset and returns the node(s) that
// replace n. More than one node is returned when n overflowed.
func (n *Node) insert(offset int, text string) []*Node {
	if n.IsLeaf() {
		return n.insertLeaf(offset, text)
	}

	// Prefer the child that ends at offset so appends extend existing chunks.
	last := len(n.children) - 1
	idx, local := last, n.childSummaries[last].Chars
	current := 0
	for i, summary := range n.childSummaries {
		if offset <= current+summary.Chars {
			idx, local = i, offset-current
			break
		}
		current += summary.Chars
	}

	replaced := n.children[idx].insert(local, text)

	children := make([]*Node, 0, len(n.children)+len(replaced)-1)
	children = append(children, n.children[:idx]...)
	children = append(children, replaced...)
	children = append(children, n.children[idx+1:]...)
	return groupChildren(children)
}

func (n *Node) insertLeaf(offset int, text string) []*Node {
	chunks := make([]Chunk, 0, len(n.chunks)+2)
	pos := 0
	inserted := false
	for _, c := range n.chunks {
		l := c.Len()
		if !inserted && offset <= pos+l {
			b := byteIndex(c.data, offset-pos)
			chunks = append(chunks, splitIntoChunks(c.data[:b]+text+c.data[b:])...)
			inserted = true
		} else {
			chunks = append(chunks, c)
		}
		pos += l
	}
	if !inserted {
		chunks = append(chunks, splitIntoChunks(text)...)
	}
	return leavesFromChunks(chunks)
}

// delete removes the character range [start, end) from the subtree.
// Returns nil when nothing remains.
func (n *Node) delete(start, end int) *Node {
	if start <= 0 && end >= n.Len() {
		return nil
	}

	if n.IsLeaf() {
		chunks := make([]Chunk, 0, len(n.chunks))
		pos := 0
		for _, c := range n.chunks {
			l := c.Len()
			if end <= pos || start >= pos+l {
				chunks = append(chunks, c)
			} else {
				keep := c.Slice(0, max(start-pos, 0)) + c.Slice(min(end-pos, l), l)
				if keep != "" {
					chunks = append(chunks, NewChunk(keep))
				}
			}
			pos += l
		}
		chunks = normalizeChunks(chunks)
		if len(chunks) == 0 {
			return nil
		}
		return newLeafNodeWithChunks(chunks)
	}

	children := make([]*Node, 0, len(n.children))
	pos := 0
	for i, child := range n.children {
		l := n.childSummaries[i].Chars
		switch {
		case end <= pos || start >= pos+l:
			children = append(children, child)
		default:
			if rest := child.delete(start-pos, end-pos); rest != nil {
				children = append(children, rest)
			}
		}
		pos += l
	}
	if len(children) == 0 {
		return nil
	}
	return newInternalNode(children)
}

// lineStart returns the character offset at which the given line of the
// subtree starts. line must be in [0, n.summary.Lines].
func (n *Node) lineStart(line int) int {
	if line <= 0 {
		return 0
	}

	offset := 0
	if n.IsLeaf() {
		for i := range n.chunks {
			c := &n.chunks[i]
			if line <= c.summary.Lines {
				return offset + c.newlines.LineStart(line)
			}
			line -= c.summary.Lines
			offset += c.Len()
		}
		return offset
	}

	for i, summary := range n.childSummaries {
		if line <= summary.Lines {
			return offset + n.children[i].lineStart(line)
		}
		line -= summary.Lines
		offset += summary.Chars
	}
	return offset
}

// linesBefore returns the number of newlines in the character range [0, offset).
func (n *Node) linesBefore(offset int) int {
	lines := 0
	pos := 0
	if n.IsLeaf() {
		for i := range n.chunks {
			c := &n.chunks[i]
			if offset >= pos+c.Len() {
				lines += c.summary.Lines
				pos += c.Len()
				continue
			}
			return lines + c.newlines.CountBefore(offset-pos)
		}
		return lines
	}

	for i, summary := range n.childSummaries {
		if offset >= pos+summary.Chars {
			lines += summary.Lines
			pos += summary.Chars
			continue
		}
		return lines + n.children[i].linesBefore(offset-pos)
	}
	return lines
}

// split splits the node at a character offset.
// The left node holds [0, offset), the right node [offset, end).
func (n *Node) split(offset int) (*Node, *Node) {
	if offset <= 0 {
		return newLeafNode(), n.clone()
	}
	if offset >= n.Len() {
		return n.clone(), newLeafNode()
	}
	if n.IsLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

func (n *Node) splitLeaf(offset int) (*Node, *Node) {
	var leftChunks, rightChunks []Chunk
	current := 0

	for _, chunk := range n.chunks {
		l := chunk.Len()
		switch {
		case current+l <= offset:
			leftChunks = append(leftChunks, chunk)
		case current >= offset:
			rightChunks = append(rightChunks, chunk)
		default:
			left, right := chunk.Split(offset - current)
			if !left.IsEmpty() {
				leftChunks = append(leftChunks, left)
			}
			if !right.IsEmpty() {
				rightChunks = append(rightChunks, right)
			}
		}
		current += l
	}

	return newLeafNodeWithChunks(leftChunks), newLeafNodeWithChunks(rightChunks)
}

func (n *Node) splitInternal(offset int) (*Node, *Node) {
	var leftChildren, rightChildren []*Node
	current := 0

	for i, child := range n.children {
		l := n.childSummaries[i].Chars
		switch {
		case current+l <= offset:
			leftChildren = append(leftChildren, child)
		case current >= offset:
			rightChildren = append(rightChildren, child)
		default:
			leftChild, rightChild := child.split(offset - current)
			if leftChild.Len() > 0 {
				leftChildren = append(leftChildren, leftChild)
			}
			if rightChild.Len() > 0 {
				rightChildren = append(rightChildren, rightChild)
			}
		}
		current += l
	}

	return buildNodeFromChildren(leftChildren), buildNodeFromChildren(rightChildren)
}

// leavesFromChunks packs chunks into leaves of at most MaxChunksPerLeaf.
func leavesFromChunks(chunks []Chunk) []*Node {
	if len(chunks) <= MaxChunksPerLeaf {
		return []*Node{newLeafNodeWithChunks(chunks)}
	}
	groups := splitEvenly(len(chunks), MaxChunksPerLeaf)
	leaves := make([]*Node, 0, len(groups))
	start := 0
	for _, size := range groups {
		leafChunks := make([]Chunk, size)
		copy(leafChunks, chunks[start:start+size])
		leaves = append(leaves, newLeafNodeWithChunks(leafChunks))
		start += size
	}
	return leaves
}

// groupChildren packs children into internal nodes of at most MaxChildren.
func groupChildren(children []*Node) []*Node {
	if len(children) <= MaxChildren {
		return []*Node{newInternalNode(children)}
	}
	groups := splitEvenly(len(children), MaxChildren)
	nodes := make([]*Node, 0, len(groups))
	start := 0
	for _, size := range groups {
		group := make([]*Node, size)
		copy(group, children[start:start+size])
		nodes = append(nodes, newInternalNode(group))
		start += size
	}
	return nodes
}

// splitEvenly divides n items into the fewest groups of at most limit
// items, keeping group sizes within one of each other.
func splitEvenly(n, limit int) []int {
	count := (n + limit - 1) / limit
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = n / count
		if i < n%count {
			sizes[i]++
		}
	}
	return sizes
}

// buildNodeFromChildren creates a balanced tree from a list of nodes.
func buildNodeFromChildren(children []*Node) *Node {
	switch len(children) {
	case 0:
		return newLeafNode()
	case 1:
		return children[0]
	}
	return buildNodeFromChildren(groupChildren(children))
}

// concat concatenates two nodes.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	if left.IsLeaf() && right.IsLeaf() {
		return concatLeaves(left, right)
	}

	// Bring both sides to the same height by wrapping the shorter one.
	for left.height < right.height {
		left = newInternalNode([]*Node{left})
	}
	for right.height < left.height {
		right = newInternalNode([]*Node{right})
	}

	return mergeNodes(left, right)
}

// concatLeaves concatenates two leaf nodes, merging the chunks that meet
// at the seam when they fit together.
func concatLeaves(left, right *Node) *Node {
	chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
	chunks = append(chunks, left.chunks...)
	chunks = append(chunks, right.chunks...)
	chunks = normalizeChunks(chunks)

	if len(chunks) <= MaxChunksPerLeaf {
		return newLeafNodeWithChunks(chunks)
	}
	return buildNodeFromChildren(leavesFromChunks(chunks))
}

// mergeNodes merges two nodes of the same height.
func mergeNodes(left, right *Node) *Node {
	if left.IsLeaf() {
		return concatLeaves(left, right)
	}

	all := make([]*Node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)
	return buildNodeFromChildren(all)
}
