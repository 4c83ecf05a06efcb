package rope

import (
	"io"
	"strings"
	"unicode/utf8"
)

// readSize is the buffer size used by Builder.ReadFrom.
const readSize = 64 * 1024

// LineEndings counts the line terminators a normalizing Builder has seen.
type LineEndings struct {
	LF   int
	CRLF int
	CR   int
}

// Builder builds a rope from streamed text without holding the whole input
// as one string. Text is cut into chunks as it arrives.
//
// With NormalizeLineEndings set, "\r\n" and lone "\r" become "\n" and the
// original terminators are counted. A "\r" at the end of a write is held
// back until the next write shows whether a "\n" follows, in the same way a
// partial UTF-8 sequence is held back.
type Builder struct {
	chunks  []Chunk
	pending strings.Builder

	normalize bool
	endings   LineEndings
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{chunks: make([]Chunk, 0, 64)}
}

// NormalizeLineEndings makes the builder convert CRLF and CR to LF.
func (b *Builder) NormalizeLineEndings() {
	b.normalize = true
}

// LineEndings returns the terminators seen so far. Only a normalizing
// builder counts them, and a terminator still pending is counted by Build.
func (b *Builder) LineEndings() LineEndings {
	return b.endings
}

// WriteString appends s.
func (b *Builder) WriteString(s string) {
	if s == "" {
		return
	}
	b.pending.WriteString(s)
	if b.pending.Len() >= MaxChunkSize*2 {
		b.flush(false)
	}
}

// ReadFrom appends everything read from r. It implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, readSize)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.WriteString(string(buf[:n]))
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// flush moves pending text into chunks. Unless final is set, a trailing
// partial rune or "\r" stays pending.
func (b *Builder) flush(final bool) {
	if b.pending.Len() == 0 {
		return
	}
	s := b.pending.String()
	b.pending.Reset()

	cut := len(s)
	if !final {
		cut = heldBack(s, b.normalize)
	}
	text, tail := s[:cut], s[cut:]

	if b.normalize {
		text = b.normalizeEndings(text)
	}
	b.chunks = append(b.chunks, splitIntoChunks(sanitize(text))...)
	b.pending.WriteString(tail)
}

// heldBack returns where the complete prefix of s ends.
func heldBack(s string, holdCR bool) int {
	for i := len(s) - 1; i >= 0 && i >= len(s)-utf8.UTFMax; i-- {
		if isUTF8Start(s[i]) {
			if !utf8.FullRuneInString(s[i:]) {
				return i
			}
			break
		}
	}
	if holdCR && s[len(s)-1] == '\r' {
		return len(s) - 1
	}
	return len(s)
}

func (b *Builder) normalizeEndings(s string) string {
	if strings.IndexByte(s, '\r') < 0 {
		b.endings.LF += strings.Count(s, "\n")
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\r' && i+1 < len(s) && s[i+1] == '\n':
			b.endings.CRLF++
			sb.WriteByte('\n')
			i++
		case c == '\r':
			b.endings.CR++
			sb.WriteByte('\n')
		case c == '\n':
			b.endings.LF++
			sb.WriteByte('\n')
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Build returns the rope and clears the builder's text. LineEndings keeps
// reporting the counts for the built text.
func (b *Builder) Build() Rope {
	b.flush(true)
	chunks := make([]Chunk, len(b.chunks))
	copy(chunks, b.chunks)
	b.chunks = b.chunks[:0]
	return buildFromChunks(chunks)
}
