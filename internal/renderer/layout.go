package renderer

import "github.com/mattn/go-runewidth"

// Glyph is one rune placed on a display line.
type Glyph struct {
	Rune   rune
	Column int
	Width  int
}

// LayoutLine places the runes of line at display columns. Tabs advance to
// the next multiple of tabWidth and are emitted as spaces. Control
// characters are shown as '?'.
func LayoutLine(line string, tabWidth int) []Glyph {
	if tabWidth < 1 {
		tabWidth = 1
	}
	glyphs := make([]Glyph, 0, len(line))
	col := 0
	for _, r := range line {
		if r == '\t' {
			next := (col/tabWidth + 1) * tabWidth
			for ; col < next; col++ {
				glyphs = append(glyphs, Glyph{Rune: ' ', Column: col, Width: 1})
			}
			continue
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			if r < ' ' || r == 0x7f {
				r, w = '?', 1
			} else {
				w = 1 // every character gets a cell
			}
		}
		glyphs = append(glyphs, Glyph{Rune: r, Column: col, Width: w})
		col += w
	}
	return glyphs
}

// DisplayColumn returns the display column of character column charCol in
// line.
func DisplayColumn(line string, charCol, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	col := 0
	i := 0
	for _, r := range line {
		if i == charCol {
			break
		}
		if r == '\t' {
			col = (col/tabWidth + 1) * tabWidth
		} else {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				w = 1
			}
			col += w
		}
		i++
	}
	return col
}
