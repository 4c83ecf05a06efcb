// Package keymap translates key events into editor actions.
//
// A Keymap is a lookup table from canonical chords ("ctrl+z", "enter",
// "ctrl+home") to action names. Edit and motion actions resolve to
// engine.Command values; the remaining actions (save, save-as, reload,
// quit, help) are handled by the application. A printable key with no
// binding inserts its character.
package keymap

import (
	"errors"
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/ripple/internal/engine"
	"github.com/dshills/ripple/internal/renderer/backend"
)

// Action names an editor action.
type Action string

// Actions.
const (
	ActionNone       Action = ""
	ActionInsertChar Action = "insert-char"
	ActionNewline    Action = "newline"
	ActionTab        Action = "tab"
	ActionBackspace  Action = "backspace"
	ActionDelete     Action = "delete"
	ActionLeft       Action = "left"
	ActionRight      Action = "right"
	ActionUp         Action = "up"
	ActionDown       Action = "down"
	ActionLineStart  Action = "line-start"
	ActionLineEnd    Action = "line-end"
	ActionDocStart   Action = "doc-start"
	ActionDocEnd     Action = "doc-end"
	ActionUndo       Action = "undo"
	ActionRedo       Action = "redo"
	ActionSave       Action = "save"
	ActionSaveAs     Action = "save-as"
	ActionReload     Action = "reload"
	ActionQuit       Action = "quit"
	ActionHelp       Action = "help"
	ActionUnbind     Action = "none"
)

var actionDescriptions = map[Action]string{
	ActionNewline:   "Insert line break",
	ActionTab:       "Insert tab",
	ActionBackspace: "Delete previous character",
	ActionDelete:    "Delete next character",
	ActionLeft:      "Move left",
	ActionRight:     "Move right",
	ActionUp:        "Move up",
	ActionDown:      "Move down",
	ActionLineStart: "Start of line",
	ActionLineEnd:   "End of line",
	ActionDocStart:  "Start of document",
	ActionDocEnd:    "End of document",
	ActionUndo:      "Undo",
	ActionRedo:      "Redo",
	ActionSave:      "Save",
	ActionSaveAs:    "Save under a new name",
	ActionReload:    "Reload from disk",
	ActionQuit:      "Quit",
	ActionHelp:      "Toggle help",
}

// ErrUnknownAction indicates a binding to an action that does not exist.
var ErrUnknownAction = errors.New("unknown action")

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	a := Action(name)
	if a == ActionUnbind {
		return a, nil
	}
	if _, ok := actionDescriptions[a]; !ok {
		return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return a, nil
}

// Description returns a short human-readable description.
func (a Action) Description() string {
	if d, ok := actionDescriptions[a]; ok {
		return d
	}
	return string(a)
}

// Keymap maps chords to actions.
type Keymap struct {
	bindings map[string]Action
}

// New creates an empty keymap.
func New() *Keymap {
	return &Keymap{bindings: make(map[string]Action)}
}

// Default returns the built-in key bindings.
func Default() *Keymap {
	k := New()
	for chord, action := range map[string]Action{
		"ctrl+z":    ActionUndo,
		"ctrl+y":    ActionRedo,
		"ctrl+s":    ActionSave,
		"ctrl+x":    ActionSaveAs,
		"ctrl+r":    ActionReload,
		"ctrl+q":    ActionQuit,
		"ctrl+a":    ActionQuit,
		"f1":        ActionHelp,
		"ctrl+g":    ActionHelp,
		"enter":     ActionNewline,
		"tab":       ActionTab,
		"backspace": ActionBackspace,
		"delete":    ActionDelete,
		"left":      ActionLeft,
		"right":     ActionRight,
		"up":        ActionUp,
		"down":      ActionDown,
		"home":      ActionLineStart,
		"end":       ActionLineEnd,
		"ctrl+home": ActionDocStart,
		"ctrl+end":  ActionDocEnd,
	} {
		k.bindings[chord] = action
	}
	return k
}

// Bind binds chord to action, replacing any previous binding.
func (k *Keymap) Bind(chord string, action Action) error {
	c, err := Parse(chord)
	if err != nil {
		return err
	}
	if action == ActionUnbind {
		delete(k.bindings, c.String())
		return nil
	}
	k.bindings[c.String()] = action
	return nil
}

// Override applies a user binding from configuration. The action "none"
// removes the chord's binding.
func (k *Keymap) Override(chord, action string) error {
	a, err := ParseAction(action)
	if err != nil {
		return err
	}
	return k.Bind(chord, a)
}

// OverrideAll applies overrides in sorted chord order and returns the
// first error.
func (k *Keymap) OverrideAll(overrides map[string]string) error {
	chords := make([]string, 0, len(overrides))
	for c := range overrides {
		chords = append(chords, c)
	}
	sort.Strings(chords)

	for _, c := range chords {
		if err := k.Override(c, overrides[c]); err != nil {
			return fmt.Errorf("keymap %q: %w", c, err)
		}
	}
	return nil
}

// Lookup returns the action bound to chord.
func (k *Keymap) Lookup(chord string) (Action, bool) {
	c, err := Parse(chord)
	if err != nil {
		return ActionNone, false
	}
	a, ok := k.bindings[c.String()]
	return a, ok
}

// ChordsFor returns the chords bound to a, sorted.
func (k *Keymap) ChordsFor(a Action) []string {
	var chords []string
	for c, bound := range k.bindings {
		if bound == a {
			chords = append(chords, c)
		}
	}
	sort.Strings(chords)
	return chords
}

// Match is the result of translating a key event.
type Match struct {
	Action Action
	// Rune is the character for ActionInsertChar.
	Rune rune
}

// Match translates a key event. Bound chords win; otherwise a printable
// character without Ctrl or Alt becomes ActionInsertChar. Control
// characters are never inserted.
func (k *Keymap) Match(ev backend.Event) (Match, bool) {
	c, ok := EventChord(ev)
	if !ok {
		return Match{}, false
	}
	if a, ok := k.bindings[c.String()]; ok {
		return Match{Action: a}, true
	}

	if c.Mod.Has(backend.ModCtrl) || c.Mod.Has(backend.ModAlt) || c.Mod.Has(backend.ModMeta) {
		return Match{}, false
	}
	r, size := utf8.DecodeRuneInString(c.Key)
	if size != len(c.Key) || !unicode.IsPrint(r) {
		return Match{}, false
	}
	return Match{Action: ActionInsertChar, Rune: r}, true
}

// Command returns the engine command for m.
func (m Match) Command() (engine.Command, bool) {
	if m.Action == ActionInsertChar {
		return engine.CharCommand(m.Rune), true
	}
	return Resolve(m.Action)
}

// Resolve maps an edit or motion action to its engine command. Actions the
// engine does not handle report false.
func Resolve(a Action) (engine.Command, bool) {
	switch a {
	case ActionNewline:
		return engine.Command{Kind: engine.CmdInsertNewline}, true
	case ActionTab:
		return engine.CharCommand('\t'), true
	case ActionBackspace:
		return engine.Command{Kind: engine.CmdDeleteBackward}, true
	case ActionDelete:
		return engine.Command{Kind: engine.CmdDeleteForward}, true
	case ActionLeft:
		return engine.MoveCommand(engine.DirLeft), true
	case ActionRight:
		return engine.MoveCommand(engine.DirRight), true
	case ActionUp:
		return engine.MoveCommand(engine.DirUp), true
	case ActionDown:
		return engine.MoveCommand(engine.DirDown), true
	case ActionLineStart:
		return engine.MoveCommand(engine.DirLineStart), true
	case ActionLineEnd:
		return engine.MoveCommand(engine.DirLineEnd), true
	case ActionDocStart:
		return engine.MoveCommand(engine.DirDocStart), true
	case ActionDocEnd:
		return engine.MoveCommand(engine.DirDocEnd), true
	case ActionUndo:
		return engine.Command{Kind: engine.CmdUndo}, true
	case ActionRedo:
		return engine.Command{Kind: engine.CmdRedo}, true
	}
	return engine.Command{}, false
}

// Binding is one chord and its action.
type Binding struct {
	Chord  string
	Action Action
}

// Bindings returns all bindings sorted by action, then chord.
func (k *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(k.bindings))
	for c, a := range k.bindings {
		out = append(out, Binding{Chord: c, Action: a})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Action != out[j].Action {
			return out[i].Action < out[j].Action
		}
		return out[i].Chord < out[j].Chord
	})
	return out
}

// HelpLines returns one line per action listing its chords, for the help
// overlay.
func (k *Keymap) HelpLines() []string {
	chords := make(map[Action][]string)
	var actions []Action
	for _, b := range k.Bindings() {
		if _, seen := chords[b.Action]; !seen {
			actions = append(actions, b.Action)
		}
		chords[b.Action] = append(chords[b.Action], b.Chord)
	}

	lines := make([]string, 0, len(actions))
	for _, a := range actions {
		keys := chords[a][0]
		for _, c := range chords[a][1:] {
			keys += ", " + c
		}
		lines = append(lines, fmt.Sprintf("%-18s %s", keys, a.Description()))
	}
	return lines
}
