package renderer

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/ripple/internal/engine"
	"github.com/dshills/ripple/internal/renderer/backend"
)

// Source is the document view the renderer reads. *engine.Engine
// satisfies it.
type Source interface {
	LineCount() int
	LineText(line int) string
	CursorLineCol() engine.Point
	TabWidth() int
}

// Status is the information shown in the status bar.
type Status struct {
	FileName string
	Modified bool
	ReadOnly bool
	Message  string

	// Prompt, when set, replaces the status bar with a line of input and
	// moves the caret to its end.
	Prompt string
}

// Styles holds the styles the renderer draws with.
type Styles struct {
	Text      backend.Style
	Filler    backend.Style
	StatusBar backend.Style
	Help      backend.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Text:      backend.DefaultStyle(),
		Filler:    backend.DefaultStyle().Dim(),
		StatusBar: backend.DefaultStyle().Reverse(),
		Help:      backend.DefaultStyle().Reverse().Bold(),
	}
}

// Renderer draws a Source and a Status onto a backend.
type Renderer struct {
	backend backend.Backend
	styles  Styles
	view    Viewport

	help     []string
	showHelp bool
}

// New creates a renderer drawing on b.
func New(b backend.Backend) *Renderer {
	return &Renderer{
		backend: b,
		styles:  DefaultStyles(),
	}
}

// SetStyles replaces the styles.
func (r *Renderer) SetStyles(s Styles) {
	r.styles = s
}

// SetHelp sets the lines of the help overlay.
func (r *Renderer) SetHelp(lines []string) {
	r.help = append([]string(nil), lines...)
}

// ToggleHelp shows or hides the help overlay.
func (r *Renderer) ToggleHelp() {
	r.showHelp = !r.showHelp
}

// SetHelpVisible shows or hides the help overlay.
func (r *Renderer) SetHelpVisible(visible bool) {
	r.showHelp = visible
}

// HelpVisible reports whether the help overlay is shown.
func (r *Renderer) HelpVisible() bool {
	return r.showHelp
}

// Viewport returns the viewport of the last frame.
func (r *Renderer) Viewport() Viewport {
	return r.view
}

// Render draws one frame.
func (r *Renderer) Render(src Source, st Status) {
	width, height := r.backend.Size()
	if width <= 0 || height <= 0 {
		return
	}

	pos := src.CursorLineCol()
	tabWidth := src.TabWidth()
	caretCol := DisplayColumn(src.LineText(pos.Line), pos.Column, tabWidth)

	r.view.Width = width
	r.view.Height = height - 1
	r.view.ScrollTo(pos.Line, caretCol)

	r.backend.Clear()

	lineCount := src.LineCount()
	for row := 0; row < r.view.Height; row++ {
		line := r.view.TopLine + row
		if line >= lineCount {
			r.backend.SetCell(0, row, backend.NewStyledCell('~', r.styles.Filler))
			continue
		}
		r.drawLine(row, src.LineText(line), tabWidth)
	}

	if st.Prompt == "" {
		r.drawStatus(height-1, width, StatusLine(st, pos))
	}

	if r.showHelp {
		r.drawHelp(width, r.view.Height)
	}

	if st.Prompt != "" {
		r.backend.ShowCursor(r.drawPrompt(height-1, width, st.Prompt), height-1)
	} else if r.view.Height > 0 && r.view.Contains(pos.Line, caretCol) {
		r.backend.ShowCursor(caretCol-r.view.LeftColumn, pos.Line-r.view.TopLine)
	} else {
		r.backend.HideCursor()
	}

	r.backend.Show()
}

// drawLine draws the visible part of one text line.
func (r *Renderer) drawLine(row int, text string, tabWidth int) {
	left := r.view.LeftColumn
	right := left + r.view.Width

	for _, g := range LayoutLine(text, tabWidth) {
		if g.Column < left {
			continue
		}
		if g.Column+g.Width > right {
			break
		}
		x := g.Column - left
		r.backend.SetCell(x, row, backend.Cell{Rune: g.Rune, Width: g.Width, Style: r.styles.Text})
		if g.Width == 2 {
			r.backend.SetCell(x+1, row, backend.ContinuationCell(r.styles.Text))
		}
	}
}

// drawStatus draws text on row, padded to width with the status style.
func (r *Renderer) drawStatus(row, width int, text string) {
	text = runewidth.Truncate(text, width, "")
	x := r.drawString(0, row, text, r.styles.StatusBar)
	for ; x < width; x++ {
		r.backend.SetCell(x, row, backend.NewStyledCell(' ', r.styles.StatusBar))
	}
}

// drawPrompt draws a prompt on row and returns the caret column. A prompt
// wider than the row keeps its end visible.
func (r *Renderer) drawPrompt(row, width int, prompt string) int {
	room := width - 1
	if w := runewidth.StringWidth(prompt); w > room {
		prompt = runewidth.TruncateLeft(prompt, w-room+1, "<")
	}
	r.drawStatus(row, width, prompt)
	return min(runewidth.StringWidth(prompt), room)
}

// drawString draws s starting at x and returns the column after it.
func (r *Renderer) drawString(x, y int, s string, style backend.Style) int {
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		r.backend.SetCell(x, y, backend.Cell{Rune: ch, Width: w, Style: style})
		if w == 2 {
			r.backend.SetCell(x+1, y, backend.ContinuationCell(style))
		}
		x += w
	}
	return x
}

// drawHelp draws the help box centered over the text area.
func (r *Renderer) drawHelp(width, height int) {
	if len(r.help) == 0 {
		return
	}

	boxWidth := 0
	for _, line := range r.help {
		boxWidth = max(boxWidth, runewidth.StringWidth(line))
	}
	boxWidth = min(boxWidth+4, width)
	boxHeight := min(len(r.help)+2, height)
	if boxWidth <= 0 || boxHeight <= 0 {
		return
	}

	left := (width - boxWidth) / 2
	top := (height - boxHeight) / 2

	for y := top; y < top+boxHeight; y++ {
		for x := left; x < left+boxWidth; x++ {
			r.backend.SetCell(x, y, backend.NewStyledCell(' ', r.styles.Help))
		}
	}
	for i, line := range r.help {
		y := top + 1 + i
		if y >= top+boxHeight-1 {
			break
		}
		r.drawString(left+2, y, runewidth.Truncate(line, boxWidth-4, ""), r.styles.Help)
	}
}

// StatusLine formats the status bar text. Line and column are shown
// one-based.
func StatusLine(st Status, pos engine.Point) string {
	name := st.FileName
	if name == "" {
		name = "Untitled"
	}

	parts := []string{
		"File: " + name,
		fmt.Sprintf("Ln %d, Col %d", pos.Line+1, pos.Column+1),
	}
	if st.Modified {
		parts = append(parts, "[Modified]")
	}
	if st.ReadOnly {
		parts = append(parts, "[Read-only]")
	}
	if st.Message != "" {
		parts = append(parts, st.Message)
	}
	return strings.Join(parts, " | ")
}
