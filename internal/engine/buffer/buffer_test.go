package buffer

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"testing/quick"
	"unicode/utf8"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
}

func TestNewBufferFromString(t *testing.T) {
	text := "Hello, 世界!"
	b := NewBufferFromString(text)

	if b.Text() != text {
		t.Errorf("expected %q, got %q", text, b.Text())
	}
	if b.Len() != 10 {
		t.Errorf("expected length 10, got %d", b.Len())
	}
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	b := NewBufferFromString("line1\nline2\nline3")

	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.LineText(i); got != want {
			t.Errorf("LineText(%d) = %q, want %q", i, got, want)
		}
	}
	if got := b.LineText(3); got != "" {
		t.Errorf("LineText past end = %q, want empty", got)
	}
}

func TestBufferInsert(t *testing.T) {
	b := NewBufferFromString("Hello World")

	end, err := b.Insert(5, ",")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if end != 6 {
		t.Errorf("expected end position 6, got %d", end)
	}
	if b.Text() != "Hello, World" {
		t.Errorf("expected 'Hello, World', got %q", b.Text())
	}
}

func TestBufferInsertMultibyte(t *testing.T) {
	b := NewBufferFromString("ab")

	end, err := b.Insert(1, "世🌍")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if end != 3 {
		t.Errorf("expected end position 3, got %d", end)
	}
	if b.Text() != "a世🌍b" {
		t.Errorf("got %q", b.Text())
	}
}

func TestBufferInsertNormalizesLineEndings(t *testing.T) {
	b := NewBuffer()

	end, err := b.Insert(0, "a\r\nb\rc")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if b.Text() != "a\nb\nc" {
		t.Errorf("got %q", b.Text())
	}
	if end != 5 {
		t.Errorf("expected end 5, got %d", end)
	}
}

func TestBufferInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	for _, off := range []Offset{-1, 6, 100} {
		_, err := b.Insert(off, "x")
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Insert(%d) error = %v, want ErrOutOfBounds", off, err)
		}
	}
	if b.Text() != "Hello" {
		t.Errorf("failed insert modified buffer: %q", b.Text())
	}
}

func TestBufferDelete(t *testing.T) {
	b := NewBufferFromString("Hello, 世界")

	removed, err := b.Delete(NewRange(5, 7))
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed != ", " {
		t.Errorf("removed = %q, want %q", removed, ", ")
	}
	if b.Text() != "Hello世界" {
		t.Errorf("got %q", b.Text())
	}

	removed, err = b.Delete(NewRange(5, 7))
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed != "世界" {
		t.Errorf("removed = %q, want %q", removed, "世界")
	}
}

func TestBufferDeleteInvalidRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	tests := []struct {
		name string
		r    Range
	}{
		{"inverted", NewRange(3, 1)},
		{"past end", NewRange(2, 6)},
		{"negative", NewRange(-1, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Delete(tt.r)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("error = %v, want ErrOutOfBounds", err)
			}
		})
	}
	if b.Text() != "Hello" {
		t.Errorf("failed delete modified buffer: %q", b.Text())
	}
}

func TestBufferSlice(t *testing.T) {
	b := NewBufferFromString("a世b\nc")

	got, err := b.Slice(NewRange(1, 4))
	if err != nil {
		t.Fatalf("slice failed: %v", err)
	}
	if got != "世b\n" {
		t.Errorf("Slice = %q", got)
	}
	if _, err := b.Slice(NewRange(0, 6)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestBufferLineLen(t *testing.T) {
	b := NewBufferFromString("ab\n\ncde")

	tests := []struct {
		line int
		want int
	}{
		{0, 2},
		{1, 0},
		{2, 3},
		{3, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := b.LineLen(tt.line); got != tt.want {
			t.Errorf("LineLen(%d) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestBufferOffsetToPoint(t *testing.T) {
	b := NewBufferFromString("Hello\n世界\nEnd")

	tests := []struct {
		offset   Offset
		expected Point
	}{
		{0, Point{0, 0}},
		{5, Point{0, 5}},
		{6, Point{1, 0}},
		{8, Point{1, 2}},
		{9, Point{2, 0}},
		{12, Point{2, 3}},
	}
	for _, tt := range tests {
		got, err := b.OffsetToPoint(tt.offset)
		if err != nil {
			t.Errorf("OffsetToPoint(%d) error: %v", tt.offset, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.expected)
		}
	}

	if _, err := b.OffsetToPoint(13); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := b.OffsetToPoint(-1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestBufferPointToOffset(t *testing.T) {
	b := NewBufferFromString("Hello\n世界\nEnd")

	tests := []struct {
		point    Point
		expected Offset
	}{
		{Point{0, 0}, 0},
		{Point{0, 3}, 3},
		{Point{1, 1}, 7},
		{Point{1, 10}, 8}, // column clamped
		{Point{2, 3}, 12},
	}
	for _, tt := range tests {
		got, err := b.PointToOffset(tt.point)
		if err != nil {
			t.Errorf("PointToOffset(%v) error: %v", tt.point, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("PointToOffset(%v) = %d, want %d", tt.point, got, tt.expected)
		}
	}

	for _, p := range []Point{{3, 0}, {-1, 0}, {0, -1}} {
		if _, err := b.PointToOffset(p); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("PointToOffset(%v) error = %v, want ErrOutOfBounds", p, err)
		}
	}
}

func TestBufferEmptyNewlineScenario(t *testing.T) {
	b := NewBuffer()
	if _, err := b.Insert(0, "\n"); err != nil {
		t.Fatal(err)
	}
	if b.LineCount() != 2 || b.LineText(0) != "" || b.LineText(1) != "" {
		t.Errorf("expected two empty lines, got %d lines", b.LineCount())
	}
	p, err := b.OffsetToPoint(1)
	if err != nil || p != (Point{1, 0}) {
		t.Errorf("OffsetToPoint(1) = %v, %v; want (1:0)", p, err)
	}
}

func TestBufferRevisionID(t *testing.T) {
	b := NewBufferFromString("abc")
	rev := b.RevisionID()

	if _, err := b.Insert(1, "x"); err != nil {
		t.Fatal(err)
	}
	if b.RevisionID() == rev {
		t.Error("insert should change the revision")
	}

	rev = b.RevisionID()
	if _, err := b.Insert(1, ""); err != nil {
		t.Fatal(err)
	}
	if b.RevisionID() != rev {
		t.Error("empty insert should not change the revision")
	}
}

func TestBufferReset(t *testing.T) {
	b := NewBufferFromString("old")
	b.Reset("new\r\ncontent")

	if b.Text() != "new\ncontent" {
		t.Errorf("got %q", b.Text())
	}
	if b.LineEnding() != LineEndingCRLF {
		t.Errorf("line ending = %v, want CRLF", b.LineEnding())
	}
}

func TestBufferWriteToPreservesLineEnding(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"lf", "a\nb\nc"},
		{"crlf", "a\r\nb\r\nc"},
		{"cr", "a\rb\rc"},
		{"long crlf", strings.Repeat("some text\r\n", 200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.input)
			var buf bytes.Buffer
			n, err := b.WriteTo(&buf)
			if err != nil {
				t.Fatalf("WriteTo: %v", err)
			}
			if buf.String() != tt.input {
				t.Errorf("WriteTo = %q, want %q", buf.String(), tt.input)
			}
			if n != int64(len(tt.input)) {
				t.Errorf("n = %d, want %d", n, len(tt.input))
			}
		})
	}
}

func TestBufferResetFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		text  string
		le    LineEnding
	}{
		{"lf", "x\ny", "x\ny", LineEndingLF},
		{"crlf", "x\r\ny\r\n", "x\ny\n", LineEndingCRLF},
		{"cr", "x\ry", "x\ny", LineEndingCR},
		{"mostly crlf", "a\r\nb\r\nc\n", "a\nb\nc\n", LineEndingCRLF},
		{"empty", "", "", LineEndingLF},
		{"large crlf", strings.Repeat("row 世界\r\n", 2000), strings.Repeat("row 世界\n", 2000), LineEndingCRLF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString("old")
			rev := b.RevisionID()
			if err := b.ResetFrom(iotest.HalfReader(strings.NewReader(tt.input))); err != nil {
				t.Fatal(err)
			}
			if b.Text() != tt.text {
				t.Errorf("Text() = %q, want %q", b.Text(), tt.text)
			}
			if b.LineEnding() != tt.le {
				t.Errorf("LineEnding() = %v, want %v", b.LineEnding(), tt.le)
			}
			if b.RevisionID() == rev {
				t.Error("ResetFrom should start a new revision")
			}

			var out bytes.Buffer
			if _, err := b.WriteTo(&out); err != nil {
				t.Fatal(err)
			}
			if tt.name != "mostly crlf" && out.String() != tt.input {
				t.Errorf("WriteTo = %q, want the input back", out.String())
			}
		})
	}
}

func TestBufferResetFromError(t *testing.T) {
	b := NewBufferFromString("keep")
	boom := errors.New("boom")
	if err := b.ResetFrom(iotest.ErrReader(boom)); !errors.Is(err, boom) {
		t.Fatalf("ResetFrom() error = %v, want boom", err)
	}
	if b.Text() != "keep" {
		t.Errorf("failed ResetFrom changed the text to %q", b.Text())
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		input    string
		expected LineEnding
	}{
		{"", LineEndingLF},
		{"no endings", LineEndingLF},
		{"a\nb\n", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
		{"a\r\nb\nc\r\n", LineEndingCRLF},
	}
	for _, tt := range tests {
		if got := DetectLineEnding(tt.input); got != tt.expected {
			t.Errorf("DetectLineEnding(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestPointOperations(t *testing.T) {
	p1 := Point{Line: 1, Column: 5}
	p2 := Point{Line: 1, Column: 10}
	p3 := Point{Line: 2, Column: 0}

	if !p1.Before(p2) || !p2.Before(p3) || p3.Before(p1) {
		t.Error("point ordering is wrong")
	}
	if p1.Compare(p1) != 0 {
		t.Error("point should compare equal to itself")
	}
	if p1.String() != "(1:5)" {
		t.Errorf("String() = %q", p1.String())
	}
}

func TestRangeOperations(t *testing.T) {
	r := NewRange(5, 10)

	if r.Len() != 5 {
		t.Errorf("Len() = %d", r.Len())
	}
	if !r.Contains(5) || r.Contains(10) {
		t.Error("Contains should be half-open")
	}
	if r.Shift(3) != NewRange(8, 13) {
		t.Errorf("Shift(3) = %v", r.Shift(3))
	}
	if NewRange(4, 2).IsValid() {
		t.Error("inverted range should be invalid")
	}
	if !NewRange(3, 3).IsEmpty() {
		t.Error("zero-length range should be empty")
	}
}

// TestDeleteInsertRoundTrip checks that re-inserting removed text restores
// the original content.
func TestDeleteInsertRoundTrip(t *testing.T) {
	f := func(s string, a, z uint16) bool {
		if !utf8.ValidString(s) || strings.ContainsRune(s, '\r') {
			return true
		}
		b := NewBufferFromString(s)
		n := b.Len()
		start, end := int(a)%(n+1), int(z)%(n+1)
		if start > end {
			start, end = end, start
		}
		removed, err := b.Delete(NewRange(start, end))
		if err != nil {
			return false
		}
		if _, err := b.Insert(start, removed); err != nil {
			return false
		}
		return b.Text() == s
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// TestPointOffsetIdentity checks that PointToOffset inverts OffsetToPoint.
func TestPointOffsetIdentity(t *testing.T) {
	f := func(s string) bool {
		if !utf8.ValidString(s) {
			return true
		}
		b := NewBufferFromString(s + "\nline two\n\n世界")
		for off := 0; off <= b.Len(); off++ {
			p, err := b.OffsetToPoint(off)
			if err != nil {
				return false
			}
			back, err := b.PointToOffset(p)
			if err != nil || back != off {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
