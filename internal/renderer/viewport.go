package renderer

// Viewport is the window of text currently on screen, in lines and display
// columns.
type Viewport struct {
	TopLine    int
	LeftColumn int
	Width      int
	Height     int
}

// ScrollTo adjusts the viewport minimally so that (line, col) is visible.
// col is a display column.
func (v *Viewport) ScrollTo(line, col int) {
	if v.Height > 0 {
		if line < v.TopLine {
			v.TopLine = line
		} else if line >= v.TopLine+v.Height {
			v.TopLine = line - v.Height + 1
		}
	}
	if v.Width > 0 {
		if col < v.LeftColumn {
			v.LeftColumn = col
		} else if col >= v.LeftColumn+v.Width {
			v.LeftColumn = col - v.Width + 1
		}
	}
	v.TopLine = max(v.TopLine, 0)
	v.LeftColumn = max(v.LeftColumn, 0)
}

// Contains reports whether (line, col) is on screen.
func (v Viewport) Contains(line, col int) bool {
	return line >= v.TopLine && line < v.TopLine+v.Height &&
		col >= v.LeftColumn && col < v.LeftColumn+v.Width
}
