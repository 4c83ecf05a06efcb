package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestNullBackend_Cells(t *testing.T) {
	b := NewNullBackend(10, 3)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}

	b.SetCell(0, 0, NewStyledCell('h', DefaultStyle()))
	b.SetCell(1, 0, NewStyledCell('i', DefaultStyle()))
	b.SetCell(99, 99, NewStyledCell('x', DefaultStyle())) // ignored

	if got := b.Row(0); got != "hi        " {
		t.Errorf("Row(0) = %q", got)
	}
	if b.GetCell(99, 99).Rune != ' ' {
		t.Error("out of range GetCell should return an empty cell")
	}

	b.Clear()
	if got := b.Row(0); got != "          " {
		t.Errorf("Row(0) after Clear = %q", got)
	}
}

func TestNullBackend_WideRuneRow(t *testing.T) {
	b := NewNullBackend(4, 1)
	_ = b.Init()

	b.SetCell(0, 0, NewStyledCell('世', DefaultStyle()))
	b.SetCell(1, 0, ContinuationCell(DefaultStyle()))
	b.SetCell(2, 0, NewStyledCell('a', DefaultStyle()))

	if got := b.Row(0); got != "世a " {
		t.Errorf("Row(0) = %q, want %q", got, "世a ")
	}
}

func TestNullBackend_Cursor(t *testing.T) {
	b := NewNullBackend(10, 3)
	_ = b.Init()

	b.ShowCursor(3, 1)
	x, y, visible := b.CursorPosition()
	if x != 3 || y != 1 || !visible {
		t.Errorf("CursorPosition() = %d, %d, %v", x, y, visible)
	}
	b.HideCursor()
	if _, _, visible := b.CursorPosition(); visible {
		t.Error("cursor should be hidden")
	}
}

func TestNullBackend_Events(t *testing.T) {
	b := NewNullBackend(10, 3)
	_ = b.Init()

	b.PostEvent(RuneEvent('a'))
	ev := b.PollEvent()
	if ev.Type != EventKey || ev.Key != KeyRune || ev.Rune != 'a' {
		t.Errorf("PollEvent() = %+v", ev)
	}

	b.Resize(20, 5)
	ev = b.PollEvent()
	if ev.Type != EventResize || ev.Width != 20 || ev.Height != 5 {
		t.Errorf("resize event = %+v", ev)
	}
	if w, h := b.Size(); w != 20 || h != 5 {
		t.Errorf("Size() = %d, %d", w, h)
	}
}

func TestNullBackend_ShutdownUnblocksPoll(t *testing.T) {
	b := NewNullBackend(10, 3)
	_ = b.Init()

	got := make(chan Event, 1)
	go func() { got <- b.PollEvent() }()

	b.Shutdown()
	b.Shutdown() // idempotent

	select {
	case ev := <-got:
		if ev.Type != EventClosed {
			t.Errorf("PollEvent() after Shutdown = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("PollEvent did not return after Shutdown")
	}
}

func TestModMask(t *testing.T) {
	m := ModCtrl | ModShift
	if !m.Has(ModCtrl) || !m.Has(ModShift) || m.Has(ModAlt) {
		t.Errorf("ModMask.Has failed for %v", m)
	}
}

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{'世', 2},
		{'é', 1},
	}
	for _, tt := range tests {
		if got := RuneWidth(tt.r); got != tt.want {
			t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want Key
	}{
		{tcell.KeyEnter, KeyEnter},
		{tcell.KeyTab, KeyTab},
		{tcell.KeyBackspace, KeyBackspace},
		{tcell.KeyBackspace2, KeyBackspace},
		{tcell.KeyCtrlZ, KeyCtrlZ},
		{tcell.KeyCtrlA, KeyCtrlA},
		{tcell.KeyHome, KeyHome},
		{tcell.KeyF1, KeyF1},
		{tcell.KeyRune, KeyRune},
	}
	for _, tt := range tests {
		if got := convertKey(tt.in); got != tt.want {
			t.Errorf("convertKey(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvertKeyRoundTrip(t *testing.T) {
	for k := KeyRune; k <= KeyCtrlZ; k++ {
		if k == KeyCtrlH || k == KeyCtrlI || k == KeyCtrlM {
			continue // aliases of Backspace, Tab and Enter
		}
		if got := convertKey(convertToTcellKey(k)); got != k {
			t.Errorf("round trip of %v = %v", k, got)
		}
	}
}

func TestConvertStyle(t *testing.T) {
	s := DefaultStyle().Reverse().Bold()
	fg, bg, attrs := convertStyle(s).Decompose()
	if fg != tcell.ColorDefault || bg != tcell.ColorDefault {
		t.Errorf("default colors not preserved: %v %v", fg, bg)
	}
	if attrs&tcell.AttrReverse == 0 || attrs&tcell.AttrBold == 0 {
		t.Errorf("attributes = %v", attrs)
	}

	s = Style{Foreground: ColorFromIndex(3), Background: ColorFromRGB(1, 2, 3)}
	fg, bg, _ = convertStyle(s).Decompose()
	if fg != tcell.PaletteColor(3) {
		t.Errorf("fg = %v", fg)
	}
	if bg != tcell.NewRGBColor(1, 2, 3) {
		t.Errorf("bg = %v", bg)
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := newTerminalWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(term.Shutdown)
	return term, sim
}

// pollInput returns the next event that is not a resize.
func pollInput(term *Terminal) Event {
	for {
		ev := term.PollEvent()
		if ev.Type != EventResize {
			return ev
		}
	}
}

func TestTerminal_KeyEvents(t *testing.T) {
	term, sim := newSimTerminal(t)

	_ = sim.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	_ = sim.PostEvent(tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl))

	ev := pollInput(term)
	if ev.Type != EventKey || ev.Key != KeyRune || ev.Rune != 'x' {
		t.Errorf("first event = %+v", ev)
	}
	ev = pollInput(term)
	if ev.Type != EventKey || ev.Key != KeyCtrlZ {
		t.Errorf("second event = %+v", ev)
	}
}

func TestTerminal_Paste(t *testing.T) {
	term, sim := newSimTerminal(t)

	_ = sim.PostEvent(tcell.NewEventPaste(true))
	_ = sim.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	_ = sim.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	_ = sim.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone))
	_ = sim.PostEvent(tcell.NewEventPaste(false))

	ev := pollInput(term)
	if ev.Type != EventPaste || ev.PasteText != "a\nb" {
		t.Errorf("PollEvent() = %+v, want paste of %q", ev, "a\nb")
	}
}

func TestTerminal_SetCell(t *testing.T) {
	term, sim := newSimTerminal(t)

	term.SetCell(2, 1, NewStyledCell('Q', DefaultStyle()))
	term.Show()

	r, _, _, _ := sim.GetContent(2, 1) //nolint:staticcheck // GetContent is the correct API
	if r != 'Q' {
		t.Errorf("cell at (2,1) = %q, want 'Q'", r)
	}
}
