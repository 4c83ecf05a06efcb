package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	// paste collects the keys between bracketed paste markers. Only the
	// PollEvent goroutine touches it.
	paste    strings.Builder
	inPaste  bool
	shutdown bool
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newTerminalWithScreen(screen), nil
}

func newTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}

	// Pasted text arrives as one EventPaste rather than a key per rune.
	t.screen.EnablePaste()
	t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)

	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.shutdown {
		return
	}
	t.shutdown = true
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell Cell) {
	if cell.IsContinuation() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// PollEvent blocks for the next event. Keys received inside a bracketed
// paste are gathered into a single EventPaste.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventClosed}
		}

		if p, ok := ev.(*tcell.EventPaste); ok {
			if p.Start() {
				t.inPaste = true
				t.paste.Reset()
				continue
			}
			t.inPaste = false
			text := t.paste.String()
			t.paste.Reset()
			return Event{Type: EventPaste, PasteText: text}
		}

		if t.inPaste {
			if k, ok := ev.(*tcell.EventKey); ok {
				appendPasteKey(&t.paste, k)
				continue
			}
		}

		converted := convertEvent(ev)
		if converted.Type != EventNone {
			return converted
		}
	}
}

func appendPasteKey(b *strings.Builder, k *tcell.EventKey) {
	switch k.Key() {
	case tcell.KeyRune:
		b.WriteRune(k.Rune())
	case tcell.KeyEnter, tcell.KeyLF:
		b.WriteByte('\n')
	case tcell.KeyTab:
		b.WriteByte('\t')
	}
}

func (t *Terminal) PostEvent(event Event) {
	var ev tcell.Event
	switch event.Type {
	case EventKey:
		ev = tcell.NewEventKey(convertToTcellKey(event.Key), event.Rune, convertToTcellMod(event.Mod))
	case EventInterrupt:
		ev = tcell.NewEventInterrupt(nil)
	default:
		return
	}
	_ = t.screen.PostEvent(ev) // best-effort; event queue may be full
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort; terminal may not support beep
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		style = style.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(convertColor(s.Background))
	}

	if s.Attributes.Has(AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(AttrReverse) {
		style = style.Reverse(true)
	}

	return style
}

func convertColor(c Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{
			Type:   EventResize,
			Width:  w,
			Height: h,
		}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}

	default:
		return Event{Type: EventNone}
	}
}

// namedKeys maps tcell keys without a Ctrl-letter alias.
var namedKeys = map[tcell.Key]Key{
	tcell.KeyRune:   KeyRune,
	tcell.KeyDelete: KeyDelete,
	tcell.KeyInsert: KeyInsert,
	tcell.KeyHome:   KeyHome,
	tcell.KeyEnd:    KeyEnd,
	tcell.KeyPgUp:   KeyPageUp,
	tcell.KeyPgDn:   KeyPageDown,
	tcell.KeyUp:     KeyUp,
	tcell.KeyDown:   KeyDown,
	tcell.KeyLeft:   KeyLeft,
	tcell.KeyRight:  KeyRight,
	tcell.KeyF1:     KeyF1,
	tcell.KeyF2:     KeyF2,
	tcell.KeyF3:     KeyF3,
	tcell.KeyF4:     KeyF4,
	tcell.KeyF5:     KeyF5,
	tcell.KeyF6:     KeyF6,
	tcell.KeyF7:     KeyF7,
	tcell.KeyF8:     KeyF8,
	tcell.KeyF9:     KeyF9,
	tcell.KeyF10:    KeyF10,
	tcell.KeyF11:    KeyF11,
	tcell.KeyF12:    KeyF12,
}

// convertKey converts tcell key to our Key type. Enter, Tab, Backspace and
// Escape share codes with Ctrl+M, Ctrl+I, Ctrl+H and Ctrl+[ and are
// reported as the named key.
func convertKey(k tcell.Key) Key {
	switch {
	case k == tcell.KeyEnter:
		return KeyEnter
	case k == tcell.KeyTab:
		return KeyTab
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		return KeyBackspace
	case k == tcell.KeyEscape:
		return KeyEscape
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return KeyCtrlA + Key(k-tcell.KeyCtrlA)
	}
	if key, ok := namedKeys[k]; ok {
		return key
	}
	return KeyNone
}

// convertToTcellKey converts our Key to tcell.Key.
func convertToTcellKey(k Key) tcell.Key {
	switch k {
	case KeyEnter:
		return tcell.KeyEnter
	case KeyTab:
		return tcell.KeyTab
	case KeyBackspace:
		return tcell.KeyBackspace2
	case KeyEscape:
		return tcell.KeyEscape
	}
	if k >= KeyCtrlA && k <= KeyCtrlZ {
		return tcell.KeyCtrlA + tcell.Key(k-KeyCtrlA)
	}
	for tk, key := range namedKeys {
		if key == k {
			return tk
		}
	}
	return tcell.KeyRune
}

// convertMod converts tcell modifier mask to our ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}

// convertToTcellMod converts our ModMask to tcell.ModMask.
func convertToTcellMod(m ModMask) tcell.ModMask {
	var result tcell.ModMask
	if m&ModShift != 0 {
		result |= tcell.ModShift
	}
	if m&ModCtrl != 0 {
		result |= tcell.ModCtrl
	}
	if m&ModAlt != 0 {
		result |= tcell.ModAlt
	}
	if m&ModMeta != 0 {
		result |= tcell.ModMeta
	}
	return result
}

var _ Backend = (*Terminal)(nil)
