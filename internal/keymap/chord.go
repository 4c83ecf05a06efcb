package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/ripple/internal/renderer/backend"
)

// ErrInvalidChord indicates a chord string that cannot be parsed.
var ErrInvalidChord = errors.New("invalid chord")

// Chord is a key together with its modifiers.
type Chord struct {
	Mod backend.ModMask
	// Key is a key name such as "enter" or "f1", or a single character.
	Key string
}

// keyNames maps backend keys to chord key names.
var keyNames = map[backend.Key]string{
	backend.KeyEscape:    "esc",
	backend.KeyEnter:     "enter",
	backend.KeyTab:       "tab",
	backend.KeyBackspace: "backspace",
	backend.KeyDelete:    "delete",
	backend.KeyInsert:    "insert",
	backend.KeyHome:      "home",
	backend.KeyEnd:       "end",
	backend.KeyPageUp:    "pgup",
	backend.KeyPageDown:  "pgdn",
	backend.KeyUp:        "up",
	backend.KeyDown:      "down",
	backend.KeyLeft:      "left",
	backend.KeyRight:     "right",
	backend.KeyF1:        "f1",
	backend.KeyF2:        "f2",
	backend.KeyF3:        "f3",
	backend.KeyF4:        "f4",
	backend.KeyF5:        "f5",
	backend.KeyF6:        "f6",
	backend.KeyF7:        "f7",
	backend.KeyF8:        "f8",
	backend.KeyF9:        "f9",
	backend.KeyF10:       "f10",
	backend.KeyF11:       "f11",
	backend.KeyF12:       "f12",
}

// keyAliases maps alternative spellings to canonical key names.
var keyAliases = map[string]string{
	"escape":    "esc",
	"return":    "enter",
	"bs":        "backspace",
	"del":       "delete",
	"ins":       "insert",
	"pageup":    "pgup",
	"pagedown":  "pgdn",
	"space":     " ",
	"arrowup":   "up",
	"arrowdown": "down",
}

var canonicalKeys = func() map[string]bool {
	m := make(map[string]bool, len(keyNames))
	for _, name := range keyNames {
		m[name] = true
	}
	return m
}()

// Parse parses a chord such as "ctrl+z", "Ctrl+Home" or "shift+tab".
// Modifiers may appear in any order.
func Parse(s string) (Chord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Chord{}, fmt.Errorf("%w: empty", ErrInvalidChord)
	}

	var c Chord
	rest := s
	for {
		i := strings.IndexByte(rest, '+')
		// A trailing "+" is the plus key itself.
		if i <= 0 || i == len(rest)-1 {
			break
		}
		switch strings.ToLower(rest[:i]) {
		case "ctrl", "control":
			c.Mod |= backend.ModCtrl
		case "alt", "opt", "option":
			c.Mod |= backend.ModAlt
		case "shift":
			c.Mod |= backend.ModShift
		case "meta", "cmd", "super":
			c.Mod |= backend.ModMeta
		default:
			return Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidChord, rest[:i], s)
		}
		rest = rest[i+1:]
	}

	key, err := parseKey(rest)
	if err != nil {
		return Chord{}, fmt.Errorf("%w: %q", err, s)
	}
	c.Key = key

	if utf8.RuneCountInString(c.Key) == 1 {
		if c.Mod.Has(backend.ModCtrl) || c.Mod.Has(backend.ModAlt) {
			// Ctrl and Alt chords are case-insensitive on letters.
			c.Key = strings.ToLower(c.Key)
		} else if c.Mod.Has(backend.ModShift) {
			c.Key = strings.ToUpper(c.Key)
			c.Mod &^= backend.ModShift
		}
	}
	return c, nil
}

func parseKey(s string) (string, error) {
	if utf8.RuneCountInString(s) == 1 {
		return s, nil
	}
	name := strings.ToLower(s)
	if alias, ok := keyAliases[name]; ok {
		return alias, nil
	}
	if canonicalKeys[name] {
		return name, nil
	}
	return "", fmt.Errorf("%w: unknown key %q", ErrInvalidChord, s)
}

// Normalize returns the canonical spelling of a chord string.
func Normalize(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// String returns the canonical form: modifiers in the order
// ctrl, alt, shift, meta, then the key.
func (c Chord) String() string {
	var b strings.Builder
	if c.Mod.Has(backend.ModCtrl) {
		b.WriteString("ctrl+")
	}
	if c.Mod.Has(backend.ModAlt) {
		b.WriteString("alt+")
	}
	if c.Mod.Has(backend.ModShift) {
		b.WriteString("shift+")
	}
	if c.Mod.Has(backend.ModMeta) {
		b.WriteString("meta+")
	}
	if c.Key == " " {
		b.WriteString("space")
	} else {
		b.WriteString(c.Key)
	}
	return b.String()
}

// EventChord converts a key event to a chord. Shift is folded into the
// rune for character keys, so Shift+a is the chord "A".
func EventChord(ev backend.Event) (Chord, bool) {
	if ev.Type != backend.EventKey {
		return Chord{}, false
	}

	mod := ev.Mod

	switch {
	case ev.Key >= backend.KeyCtrlA && ev.Key <= backend.KeyCtrlZ:
		return Chord{Mod: mod | backend.ModCtrl, Key: string(rune('a' + int(ev.Key-backend.KeyCtrlA)))}, true

	case ev.Key == backend.KeyRune:
		r := ev.Rune
		if mod.Has(backend.ModCtrl) || mod.Has(backend.ModAlt) {
			return Chord{Mod: mod, Key: string(unicode.ToLower(r))}, true
		}
		if mod.Has(backend.ModShift) {
			r = unicode.ToUpper(r)
		}
		return Chord{Mod: mod &^ backend.ModShift, Key: string(r)}, true
	}

	if name, ok := keyNames[ev.Key]; ok {
		return Chord{Mod: mod, Key: name}, true
	}
	return Chord{}, false
}
