package script

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/ripple/internal/keymap"
	"github.com/dshills/ripple/internal/logging"
)

// Errors returned by the runtime.
var (
	ErrClosed       = errors.New("script runtime is closed")
	ErrUnknownEvent = errors.New("unknown script event")
)

// DefaultTimeout bounds a single script call.
const DefaultTimeout = time.Second

// Event names a point where script handlers run.
type Event string

// Events.
const (
	EventSave       Event = "save"
	EventDiskChange Event = "disk_change"
)

var knownEvents = map[Event]bool{
	EventSave:       true,
	EventDiskChange: true,
}

// Error is a failure inside a script.
type Error struct {
	// Source is the script path or chunk name.
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Runtime is a sandboxed Lua state bound to a keymap.
type Runtime struct {
	L *lua.LState

	keymap  *keymap.Keymap
	log     *logging.Logger
	timeout time.Duration

	handlers map[Event][]*lua.LFunction
	status   string
	closed   bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger that ripple.log and print write to.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.log = l
		}
	}
}

// WithTimeout bounds every script call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// New creates a runtime whose ripple.bind calls modify km.
func New(km *keymap.Keymap, opts ...Option) *Runtime {
	r := &Runtime{
		keymap:   km,
		log:      logging.NullLogger,
		timeout:  DefaultTimeout,
		handlers: make(map[Event][]*lua.LFunction),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	r.installAPI()
	return r
}

// openSafeLibraries opens only the libraries without file or process
// access, then removes the loaders that read code from disk.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (r *Runtime) installAPI() {
	L := r.L
	mod := L.NewTable()
	L.SetField(mod, "bind", L.NewFunction(r.bind))
	L.SetField(mod, "unbind", L.NewFunction(r.unbind))
	L.SetField(mod, "on", L.NewFunction(r.on))
	L.SetField(mod, "status", L.NewFunction(r.setStatus))
	L.SetField(mod, "log", L.NewFunction(r.logMessage))
	L.SetGlobal("ripple", mod)

	// print goes to the log; the terminal belongs to the editor.
	L.SetGlobal("print", L.NewFunction(r.print))
}

// bind(chord, action)
func (r *Runtime) bind(L *lua.LState) int {
	chord := L.CheckString(1)
	action := L.CheckString(2)
	if err := r.keymap.Override(chord, action); err != nil {
		L.RaiseError("bind %s: %v", chord, err)
	}
	return 0
}

// unbind(chord)
func (r *Runtime) unbind(L *lua.LState) int {
	chord := L.CheckString(1)
	if err := r.keymap.Override(chord, string(keymap.ActionUnbind)); err != nil {
		L.RaiseError("unbind %s: %v", chord, err)
	}
	return 0
}

// on(event, fn)
func (r *Runtime) on(L *lua.LState) int {
	ev := Event(L.CheckString(1))
	fn := L.CheckFunction(2)
	if !knownEvents[ev] {
		L.ArgError(1, fmt.Sprintf("%v %q", ErrUnknownEvent, ev))
		return 0
	}
	r.handlers[ev] = append(r.handlers[ev], fn)
	return 0
}

// status(msg)
func (r *Runtime) setStatus(L *lua.LState) int {
	r.status = L.CheckString(1)
	return 0
}

// log(msg)
func (r *Runtime) logMessage(L *lua.LState) int {
	r.log.Info("%s", L.CheckString(1))
	return 0
}

func (r *Runtime) print(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	r.log.Info("%s", strings.Join(parts, "\t"))
	return 0
}

// DoFile runs the script at path.
func (r *Runtime) DoFile(path string) error {
	if r.closed {
		return ErrClosed
	}
	if err := r.call(func() error { return r.L.DoFile(path) }); err != nil {
		return &Error{Source: path, Err: err}
	}
	r.log.Debug("ran %s", path)
	return nil
}

// DoString runs code; name identifies it in errors.
func (r *Runtime) DoString(name, code string) error {
	if r.closed {
		return ErrClosed
	}
	if err := r.call(func() error { return r.L.DoString(code) }); err != nil {
		return &Error{Source: name, Err: err}
	}
	return nil
}

// Fire runs the handlers registered for ev with arg, in registration
// order. Every handler runs; the first error is returned.
func (r *Runtime) Fire(ev Event, arg string) error {
	if r.closed {
		return ErrClosed
	}
	var first error
	for i, fn := range r.handlers[ev] {
		err := r.call(func() error {
			return r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LString(arg))
		})
		if err != nil {
			r.log.Warn("%s handler %d: %v", ev, i+1, err)
			if first == nil {
				first = &Error{Source: string(ev) + " handler", Err: err}
			}
		}
	}
	return first
}

// HandlerCount returns the number of handlers registered for ev.
func (r *Runtime) HandlerCount(ev Event) int {
	return len(r.handlers[ev])
}

// Events returns the events that have handlers, sorted.
func (r *Runtime) Events() []Event {
	out := make([]Event, 0, len(r.handlers))
	for ev := range r.handlers {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TakeStatus returns the message set by ripple.status since the last call.
func (r *Runtime) TakeStatus() (string, bool) {
	msg := r.status
	r.status = ""
	return msg, msg != ""
}

// Close releases the Lua state.
func (r *Runtime) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

func (r *Runtime) call(fn func() error) error {
	if r.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.L.SetContext(ctx)
		defer r.L.RemoveContext()
	}
	return fn()
}
