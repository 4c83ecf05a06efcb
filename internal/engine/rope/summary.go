package rope

import (
	"strings"
	"unicode/utf8"
)

// Offset is a character (rune) position in a rope.
type Offset = int

// Point is a 0-indexed line/column position. Column counts characters.
type Point struct {
	Line   int
	Column int
}

// TextSummary holds aggregated metrics for a span of text.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the number of Unicode scalar values.
	Chars int

	// Lines is the number of newline characters.
	Lines int
}

// Add combines two summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
	}
}

// IsZero returns true if the summary describes empty text.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	return TextSummary{
		Bytes: len(s),
		Chars: utf8.RuneCountInString(s),
		Lines: strings.Count(s, "\n"),
	}
}

// sanitize replaces invalid UTF-8 so that rune counts stay stable when
// chunks are split and merged.
func sanitize(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// byteIndex returns the byte index of the char-th rune in s.
// Offsets past the end return len(s).
func byteIndex(s string, char int) int {
	if char <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == char {
			return i
		}
		n++
	}
	return len(s)
}

// charCount returns the number of runes in s.
func charCount(s string) int {
	return utf8.RuneCountInString(s)
}
