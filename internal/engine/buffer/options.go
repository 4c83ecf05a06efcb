package buffer

import "github.com/dshills/ripple/internal/engine/rope"

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending used when the buffer is written out.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithTabWidth sets the buffer's tab width.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// DetectLineEnding returns the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var counts rope.LineEndings
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			counts.CRLF++
			i++
		case text[i] == '\r':
			counts.CR++
		case text[i] == '\n':
			counts.LF++
		}
	}
	return dominantLineEnding(counts)
}

func dominantLineEnding(c rope.LineEndings) LineEnding {
	if c.CRLF > 0 && c.CRLF >= c.LF && c.CRLF >= c.CR {
		return LineEndingCRLF
	}
	if c.CR > 0 && c.CR >= c.LF && c.CR >= c.CRLF {
		return LineEndingCR
	}
	return LineEndingLF
}
