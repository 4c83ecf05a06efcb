// Package renderer draws one document onto a backend.Backend.
//
// Each frame the renderer scrolls its viewport so the caret stays visible,
// asks the Source for the visible lines only, expands tabs, and places the
// terminal cursor at the caret's display column. Wide runes take two
// columns (go-runewidth). The last row is the status bar:
//
//	File: notes.txt | Ln 3, Col 7 | [Modified] | File saved successfully!
//
// With the help overlay enabled, a box listing the key bindings is drawn
// over the text area.
package renderer
