package rope

// Chunk size constants control the granularity of text storage.
const (
	// MinChunkSize is the minimum bytes per chunk produced by splitting.
	MinChunkSize = 128

	// MaxChunkSize is the maximum bytes per chunk before splitting.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk is a bounded run of text stored in a leaf node.
// Chunks are immutable once created.
type Chunk struct {
	data     string
	summary  TextSummary
	newlines NewlineIndex
}

// NewChunk creates a chunk from a string, computing its metrics eagerly.
func NewChunk(s string) Chunk {
	return Chunk{
		data:     s,
		summary:  ComputeSummary(s),
		newlines: ComputeNewlineIndex(s),
	}
}

// String returns the chunk's text.
func (c Chunk) String() string {
	return c.data
}

// Summary returns the chunk's precomputed metrics.
func (c Chunk) Summary() TextSummary {
	return c.summary
}

// Newlines returns the chunk's newline index.
func (c *Chunk) Newlines() *NewlineIndex {
	return &c.newlines
}

// Len returns the character length of the chunk.
func (c Chunk) Len() int {
	return c.summary.Chars
}

// IsEmpty returns true if the chunk contains no text.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// Split splits a chunk at a character offset.
func (c Chunk) Split(char int) (Chunk, Chunk) {
	if char <= 0 {
		return Chunk{}, c
	}
	if char >= c.Len() {
		return c, Chunk{}
	}
	b := byteIndex(c.data, char)
	return NewChunk(c.data[:b]), NewChunk(c.data[b:])
}

// Slice returns the text in the character range [start, end) of the chunk.
func (c Chunk) Slice(start, end int) string {
	if c.summary.Bytes == c.summary.Chars {
		return c.data[start:end]
	}
	bs := byteIndex(c.data, start)
	be := bs + byteIndex(c.data[bs:], end-start)
	return c.data[bs:be]
}

// RuneAt returns the rune at a character offset within the chunk.
func (c Chunk) RuneAt(char int) rune {
	if c.summary.Bytes == c.summary.Chars {
		return rune(c.data[char])
	}
	n := 0
	for _, r := range c.data {
		if n == char {
			return r
		}
		n++
	}
	return 0
}

// Append concatenates another chunk to this one, returning more than one
// chunk if the result exceeds MaxChunkSize.
func (c Chunk) Append(other Chunk) []Chunk {
	if c.IsEmpty() {
		if other.IsEmpty() {
			return nil
		}
		return []Chunk{other}
	}
	if other.IsEmpty() {
		return []Chunk{c}
	}
	return splitIntoChunks(c.data + other.data)
}

// splitIntoChunks splits a string into chunks of appropriate size.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= MaxChunkSize {
		return []Chunk{NewChunk(s)}
	}

	chunks := make([]Chunk, 0, len(s)/TargetChunkSize+1)
	remaining := s
	for len(remaining) > 0 {
		if len(remaining) <= MaxChunkSize {
			chunks = append(chunks, NewChunk(remaining))
			break
		}
		splitPoint := findUTF8Boundary(remaining, TargetChunkSize)
		chunks = append(chunks, NewChunk(remaining[:splitPoint]))
		remaining = remaining[splitPoint:]
	}
	return chunks
}

// findUTF8Boundary finds a valid UTF-8 boundary near the target position,
// preferring to split just after a newline.
func findUTF8Boundary(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}
	if target <= 0 {
		return 0
	}

	searchStart := max(target-MinChunkSize/4, 1)
	searchEnd := min(target+MinChunkSize/4, len(s))

	for i := target; i < searchEnd; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= searchStart; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	pos := target
	for pos > 0 && !isUTF8Start(s[pos]) {
		pos--
	}
	return pos
}

// isUTF8Start returns true if the byte starts a UTF-8 sequence.
func isUTF8Start(b byte) bool {
	return b&0xC0 != 0x80
}

// normalizeChunks merges neighbouring chunks whose combined size fits in
// one chunk and drops empty ones.
func normalizeChunks(chunks []Chunk) []Chunk {
	out := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.IsEmpty() {
			continue
		}
		if n := len(out); n > 0 && len(out[n-1].data)+len(c.data) <= MaxChunkSize {
			out[n-1] = NewChunk(out[n-1].data + c.data)
			continue
		}
		out = append(out, c)
	}
	return out
}
