package fileio

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by operations on a closed Watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// DefaultDebounce is the debounce delay used when none is given.
const DefaultDebounce = 100 * time.Millisecond

// Op represents the kind of file system change.
type Op uint32

const (
	// OpCreate indicates the file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates the file was written to.
	OpWrite
	// OpRemove indicates the file was removed.
	OpRemove
	// OpRename indicates the file was renamed away.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event is a debounced change to the watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string

	// Op combines every operation seen within the debounce window.
	Op Op

	// Timestamp is when the last operation was seen.
	Timestamp time.Time
}

// Watcher reports changes to a single file. It watches the file's
// directory so that replacing the file by rename is seen too.
type Watcher struct {
	mu sync.Mutex

	fsw   *fsnotify.Watcher
	path  string
	delay time.Duration

	events chan Event
	errors chan error

	// pending is the event waiting for its debounce timer.
	pending *pendingEvent

	// Events seen before ignoreUntil are dropped.
	ignoreUntil time.Time
	now         func() time.Time

	// Lifecycle
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// NewWatcher starts watching path. Changes within delay of each other are
// merged into one event; a non-positive delay uses DefaultDebounce.
func NewWatcher(path string, delay time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		path:    absPath,
		delay:   delay,
		events:  make(chan Event, 16),
		errors:  make(chan error, 16),
		now:     time.Now,
		closeCh: make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns the debounced event channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IgnoreFor drops every change seen during the next d, including one
// already waiting to be delivered. Call it right before saving the file.
func (w *Watcher) IgnoreFor(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ignoreUntil = w.now().Add(d)
	if w.pending != nil {
		w.pending.timer.Stop()
		w.pending = nil
	}
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.pending != nil {
		w.pending.timer.Stop()
		w.pending = nil
	}
	w.mu.Unlock()

	w.closedWg.Wait()

	w.mu.Lock()
	close(w.events)
	close(w.errors)
	w.mu.Unlock()

	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handleFSEvent(fsEvent fsnotify.Event) {
	if filepath.Clean(fsEvent.Name) != w.path {
		return
	}
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if w.closed || now.Before(w.ignoreUntil) {
		return
	}

	if p := w.pending; p != nil {
		p.event.Op |= op
		p.event.Timestamp = now
		p.timer.Reset(w.delay)
		return
	}

	p := &pendingEvent{event: Event{Path: w.path, Op: op, Timestamp: now}}
	p.timer = time.AfterFunc(w.delay, func() { w.fire(p) })
	w.pending = p
}

// fire delivers p unless it was superseded or cancelled.
func (w *Watcher) fire(p *pendingEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.pending != p {
		return
	}
	w.pending = nil

	select {
	case w.events <- p.event:
	default:
		// Channel full, drop event
	}
}

// convertOp maps fsnotify operations. Chmod alone is not a content change.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
