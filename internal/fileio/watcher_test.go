package fileio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newTestWatcher(t *testing.T, delay time.Duration) (*Watcher, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watched.txt")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(path, delay)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w, path
}

func waitEvent(t *testing.T, w *Watcher, timeout time.Duration) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-w.Events():
		return ev, ok
	case <-time.After(timeout):
		return Event{}, false
	}
}

func TestWatcherDetectsWrite(t *testing.T) {
	w, path := newTestWatcher(t, 20*time.Millisecond)

	if err := os.WriteFile(path, []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev, ok := waitEvent(t, w, 2*time.Second)
	if !ok {
		t.Fatal("no event for external write")
	}
	if ev.Path != w.Path() {
		t.Errorf("Path = %q, want %q", ev.Path, w.Path())
	}
	if !ev.Op.Has(OpWrite) && !ev.Op.Has(OpCreate) {
		t.Errorf("Op = %v, want a write or create", ev.Op)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	w, path := newTestWatcher(t, 20*time.Millisecond)

	other := filepath.Join(filepath.Dir(path), "other.txt")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if ev, ok := waitEvent(t, w, 300*time.Millisecond); ok {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestWatcherDebounce(t *testing.T) {
	w, _ := newTestWatcher(t, 50*time.Millisecond)

	// Feed events directly so the burst is deterministic.
	w.handleFSEvent(fsnotify.Event{Name: w.Path(), Op: fsnotify.Write})
	w.handleFSEvent(fsnotify.Event{Name: w.Path(), Op: fsnotify.Remove})
	w.handleFSEvent(fsnotify.Event{Name: w.Path(), Op: fsnotify.Create})

	ev, ok := waitEvent(t, w, time.Second)
	if !ok {
		t.Fatal("no debounced event")
	}
	for _, op := range []Op{OpWrite, OpRemove, OpCreate} {
		if !ev.Op.Has(op) {
			t.Errorf("merged Op %b is missing %v", ev.Op, op)
		}
	}
	if ev, ok := waitEvent(t, w, 150*time.Millisecond); ok {
		t.Errorf("burst produced a second event %+v", ev)
	}
}

func TestWatcherIgnoreFor(t *testing.T) {
	w, _ := newTestWatcher(t, 20*time.Millisecond)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w.mu.Lock()
	w.now = func() time.Time { return now }
	w.mu.Unlock()

	w.IgnoreFor(time.Second)
	w.handleFSEvent(fsnotify.Event{Name: w.Path(), Op: fsnotify.Write})
	if ev, ok := waitEvent(t, w, 100*time.Millisecond); ok {
		t.Fatalf("event during ignore window: %+v", ev)
	}

	w.mu.Lock()
	now = now.Add(2 * time.Second)
	w.mu.Unlock()
	w.handleFSEvent(fsnotify.Event{Name: w.Path(), Op: fsnotify.Write})
	if _, ok := waitEvent(t, w, time.Second); !ok {
		t.Error("event after the ignore window was dropped")
	}
}

func TestWatcherIgnoreForCancelsPending(t *testing.T) {
	w, _ := newTestWatcher(t, 100*time.Millisecond)

	w.handleFSEvent(fsnotify.Event{Name: w.Path(), Op: fsnotify.Write})
	w.IgnoreFor(time.Minute)

	if ev, ok := waitEvent(t, w, 300*time.Millisecond); ok {
		t.Errorf("pending event survived IgnoreFor: %+v", ev)
	}
}

func TestWatcherChmodOnly(t *testing.T) {
	w, _ := newTestWatcher(t, 20*time.Millisecond)

	w.handleFSEvent(fsnotify.Event{Name: w.Path(), Op: fsnotify.Chmod})
	if ev, ok := waitEvent(t, w, 100*time.Millisecond); ok {
		t.Errorf("chmod produced an event %+v", ev)
	}
}

func TestWatcherClose(t *testing.T) {
	w, _ := newTestWatcher(t, 20*time.Millisecond)

	w.handleFSEvent(fsnotify.Event{Name: w.Path(), Op: fsnotify.Write})
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	// Events is closed and the pending event was discarded.
	if ev, ok := <-w.Events(); ok {
		t.Errorf("event after Close: %+v", ev)
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "file.txt"), 0); err == nil {
		t.Error("NewWatcher() in a missing directory should fail")
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpWrite | OpCreate, "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}
