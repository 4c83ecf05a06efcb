package app

import (
	"strings"
	"unicode"

	"github.com/dshills/ripple/internal/renderer/backend"
)

// prompt is a line of input read on the status bar. While a prompt is open
// it receives every key event.
type prompt struct {
	label  string
	input  []rune
	submit func(text string)
}

func (p *prompt) String() string {
	return p.label + string(p.input)
}

// promptResult tells the caller what a key did to the prompt.
type promptResult int

const (
	promptEditing promptResult = iota
	promptSubmitted
	promptCancelled
)

// handleKey edits the input. Enter submits and Escape cancels; other
// non-printable keys are ignored.
func (p *prompt) handleKey(ev backend.Event) promptResult {
	switch ev.Key {
	case backend.KeyEnter:
		return promptSubmitted
	case backend.KeyEscape, backend.KeyCtrlG:
		return promptCancelled
	case backend.KeyBackspace:
		if n := len(p.input); n > 0 {
			p.input = p.input[:n-1]
		}
	case backend.KeyRune:
		if ev.Mod.Has(backend.ModCtrl) || ev.Mod.Has(backend.ModAlt) || !unicode.IsPrint(ev.Rune) {
			break
		}
		r := ev.Rune
		if ev.Mod.Has(backend.ModShift) {
			r = unicode.ToUpper(r)
		}
		p.input = append(p.input, r)
	}
	return promptEditing
}

// paste appends the first line of text.
func (p *prompt) paste(text string) {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	for _, r := range text {
		if unicode.IsPrint(r) {
			p.input = append(p.input, r)
		}
	}
}

// openPrompt starts reading input. submit runs with the trimmed text; an
// empty answer cancels.
func (app *Application) openPrompt(label, initial string, submit func(string)) {
	app.prompt = &prompt{label: label, input: []rune(initial), submit: submit}
}

func (app *Application) handlePromptKey(ev backend.Event) {
	p := app.prompt
	switch p.handleKey(ev) {
	case promptSubmitted:
		app.prompt = nil
		text := strings.TrimSpace(string(p.input))
		if text == "" {
			app.setMessage(MsgCancelled)
			return
		}
		p.submit(text)
	case promptCancelled:
		app.prompt = nil
		app.setMessage(MsgCancelled)
	}
}
