// Package app provides the main application structure and coordination
// for the Ripple editor. It wires the engine, keymap, renderer and file
// watcher together and runs the event loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/ripple/internal/config"
	"github.com/dshills/ripple/internal/engine"
	"github.com/dshills/ripple/internal/fileio"
	"github.com/dshills/ripple/internal/keymap"
	"github.com/dshills/ripple/internal/logging"
	"github.com/dshills/ripple/internal/renderer"
	"github.com/dshills/ripple/internal/renderer/backend"
	"github.com/dshills/ripple/internal/script"
)

// Status messages.
const (
	MsgLoaded        = "File loaded successfully!"
	MsgNewFile       = "New file"
	MsgSaved         = "File saved successfully!"
	MsgSaveFailed    = "Save failed: "
	MsgUndo          = "Undo performed"
	MsgNothingUndo   = "Nothing to undo"
	MsgRedo          = "Redo performed"
	MsgNothingRedo   = "Nothing to redo"
	MsgChangedOnDisk = "File changed on disk"
	MsgReadOnly      = "Document is read-only"
	MsgConfirmQuit   = "Unsaved changes! Quit again to discard them"
	MsgConfirmReload = "Unsaved changes! Reload again to discard them"
	MsgReloaded      = "File reloaded"
	MsgReloadFailed  = "Reload failed: "
	MsgCancelled     = "Cancelled"
	MsgScriptError   = "Script error: "
)

// PromptSaveAs labels the file name prompt.
const PromptSaveAs = "Save as: "

// saveGrace is added to the debounce delay when ignoring the watcher
// events caused by our own save.
const saveGrace = 500 * time.Millisecond

// Application is the central coordinator for one editing session.
type Application struct {
	mu sync.Mutex

	settings config.Settings
	log      *logging.Logger

	doc      *Document
	keymap   *keymap.Keymap
	backend  backend.Backend
	renderer *renderer.Renderer
	watcher  *fileio.Watcher
	script   *script.Runtime

	message string
	prompt  *prompt

	// armed is the discarding action (quit, reload) that a repeat of the
	// same key confirms.
	armed keymap.Action

	// State
	running  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// Path is the file to open. Empty starts an untitled document.
	Path string

	// ReadOnly opens the document in read-only mode.
	ReadOnly bool

	// Config supplies settings. Nil uses the defaults.
	Config *config.Config

	// Logger receives diagnostics. Nil discards them.
	Logger *logging.Logger
}

// New creates an Application and opens its document.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		stop: make(chan struct{}),
	}

	if opts.Config != nil {
		app.settings = opts.Config.Settings()
	} else {
		app.settings = config.Default()
	}
	if opts.ReadOnly {
		app.settings.Editor.ReadOnly = true
	}

	log := opts.Logger
	if log == nil {
		log = logging.NullLogger
	}

	app.keymap = keymap.Default()
	if err := app.keymap.OverrideAll(app.settings.Keymap); err != nil {
		return nil, &InitError{Component: "keymap", Err: err}
	}

	if initPath := app.settings.Script.Init; initPath != "" {
		rt := script.New(app.keymap,
			script.WithLogger(log.WithComponent("script")),
			script.WithTimeout(app.settings.Script.Timeout.Std()),
		)
		if err := rt.DoFile(initPath); err != nil {
			rt.Close()
			return nil, &InitError{Component: "script", Err: err}
		}
		app.script = rt
	}

	engOpts := EngineOptions(app.settings.Editor)
	if opts.Path == "" {
		app.doc = NewDocument(engOpts...)
	} else {
		doc, err := OpenDocument(opts.Path, engOpts...)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.doc = doc
		if doc.IsNew() {
			app.message = MsgNewFile
		} else {
			app.message = MsgLoaded
		}
	}

	app.takeScriptStatus()

	app.log = log.WithComponent("app").WithField("doc", app.doc.ID.String())
	app.log.Info("opened %q: %d lines, read-only=%t",
		app.doc.Name, app.doc.Engine.LineCount(), app.doc.Engine.ReadOnly())

	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Document returns the document being edited.
func (app *Application) Document() *Document {
	return app.doc
}

// Keymap returns the active key bindings.
func (app *Application) Keymap() *keymap.Keymap {
	return app.keymap
}

// Message returns the current status message.
func (app *Application) Message() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.message
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Close releases the script runtime. Call it once Run has returned.
func (app *Application) Close() {
	if app.script != nil {
		app.script.Close()
		app.script = nil
	}
}

// Shutdown asks a running event loop to return. It is safe to call more
// than once and from any goroutine.
func (app *Application) Shutdown() {
	app.stopOnce.Do(func() { close(app.stop) })
}

// Run initializes the backend and runs the event loop until the user quits,
// Shutdown is called or ctx is done. Only the loop goroutine touches the
// engine.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	app.renderer = renderer.New(b)
	app.renderer.SetHelp(app.keymap.HelpLines())

	app.startWatcher()
	defer app.stopWatcher()

	done := make(chan struct{})
	defer close(done)
	input := app.pollInput(b, done)

	return app.eventLoop(ctx, input)
}

// pollInput reads backend events on their own goroutine, since PollEvent
// blocks.
func (app *Application) pollInput(b backend.Backend, done <-chan struct{}) <-chan backend.Event {
	events := make(chan backend.Event)
	go func() {
		for {
			ev := b.PollEvent()
			select {
			case events <- ev:
			case <-done:
				return
			}
			if ev.Type == backend.EventClosed {
				return
			}
		}
	}()
	return events
}

func (app *Application) eventLoop(ctx context.Context, input <-chan backend.Event) error {
	app.render()

	for {
		// A save can start the watcher, so the channels are fetched anew.
		var (
			fileEvents <-chan fileio.Event
			fileErrors <-chan error
		)
		if app.watcher != nil {
			fileEvents = app.watcher.Events()
			fileErrors = app.watcher.Errors()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-app.stop:
			return nil

		case ev := <-input:
			if err := app.handleBackendEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					app.log.Info("quit: %s", app)
					return nil
				}
				return err
			}

		case ev, ok := <-fileEvents:
			if ok {
				app.handleFileEvent(ev)
			}

		case err, ok := <-fileErrors:
			if ok {
				app.log.Warn("watcher: %v", err)
			}
			continue
		}

		app.render()
	}
}

func (app *Application) render() {
	if app.renderer == nil {
		return
	}
	app.renderer.Render(app.doc.Engine, renderer.Status{
		FileName: app.doc.Name,
		Modified: app.doc.Modified(),
		ReadOnly: app.doc.Engine.ReadOnly(),
		Message:  app.Message(),
		Prompt:   app.promptText(),
	})
}

func (app *Application) promptText() string {
	if app.prompt == nil {
		return ""
	}
	return app.prompt.String()
}

func (app *Application) setMessage(msg string) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.message = msg
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventPaste:
		app.armed = keymap.ActionNone
		switch {
		case app.prompt != nil:
			app.prompt.paste(ev.PasteText)
		case ev.PasteText != "":
			app.apply(engine.TextCommand(ev.PasteText))
		}
	case backend.EventClosed:
		return ErrQuit
	}
	// Resize and interrupt events only trigger a redraw.
	return nil
}

func (app *Application) handleKeyEvent(ev backend.Event) error {
	if app.prompt != nil {
		app.handlePromptKey(ev)
		return nil
	}

	m, ok := app.keymap.Match(ev)
	if !ok {
		app.log.Debug("unbound key %v rune=%q mod=%v", ev.Key, ev.Rune, ev.Mod)
		return nil
	}

	armed := app.armed
	app.armed = keymap.ActionNone

	switch m.Action {
	case keymap.ActionQuit:
		if app.confirm(armed, m.Action, MsgConfirmQuit) {
			return ErrQuit
		}
	case keymap.ActionReload:
		if app.confirm(armed, m.Action, MsgConfirmReload) {
			app.reload()
		}
	case keymap.ActionSave:
		app.save()
	case keymap.ActionSaveAs:
		app.openPrompt(PromptSaveAs, app.doc.Path, app.saveAs)
	case keymap.ActionHelp:
		if app.renderer != nil {
			app.renderer.ToggleHelp()
		}
	default:
		cmd, ok := m.Command()
		if !ok {
			app.log.Warn("action %q has no command", m.Action)
			return nil
		}
		app.apply(cmd)
	}
	return nil
}

// confirm reports whether action a may go ahead. With unsaved changes the
// first request only arms it and shows warning; an immediate repeat
// confirms.
func (app *Application) confirm(armed, a keymap.Action, warning string) bool {
	if !app.doc.Modified() || armed == a {
		return true
	}
	app.armed = a
	app.setMessage(warning)
	return false
}

// apply runs cmd against the engine. Engine errors never stop the loop:
// read-only rejections are reported, contract violations are logged.
func (app *Application) apply(cmd engine.Command) {
	changed, err := app.doc.Engine.Apply(cmd)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrReadOnly):
			app.setMessage(MsgReadOnly)
			if app.backend != nil {
				app.backend.Beep()
			}
		case errors.Is(err, engine.ErrOutOfBounds):
			app.log.Warn("%s: %v", cmd, err)
		default:
			app.log.Error("%s: %v", cmd, err)
		}
		return
	}

	switch cmd.Kind {
	case engine.CmdUndo:
		app.setMessage(pick(changed, MsgUndo, MsgNothingUndo))
	case engine.CmdRedo:
		app.setMessage(pick(changed, MsgRedo, MsgNothingRedo))
	case engine.CmdMove, engine.CmdMoveTo:
	default:
		if changed {
			app.setMessage("")
		}
	}
}

func pick(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func (app *Application) save() {
	if app.watcher != nil {
		app.watcher.IgnoreFor(app.settings.Watch.Debounce.Std() + saveGrace)
	}

	app.saved(app.doc.Save())
}

// saveAs writes the document under a new path. The watcher follows the
// document to its new path, or stays on the old one if the save fails.
func (app *Application) saveAs(path string) {
	app.stopWatcher()
	app.saved(app.doc.SaveAs(path))
	app.startWatcher()
}

func (app *Application) saved(err error) {
	if err != nil {
		app.log.Error("%v", err)
		app.setMessage(MsgSaveFailed + failure(err))
		return
	}
	app.log.Info("saved %s", app.doc.Path)
	app.setMessage(MsgSaved)
	app.fire(script.EventSave, app.doc.Path)

	// A new file's directory may only now be watchable.
	app.startWatcher()
}

func (app *Application) reload() {
	if err := app.doc.Reload(); err != nil {
		app.log.Error("%v", err)
		app.setMessage(MsgReloadFailed + failure(err))
		return
	}
	app.log.Info("reloaded %s: %d lines", app.doc.Path, app.doc.Engine.LineCount())
	app.setMessage(MsgReloaded)
}

// failure returns the cause of a file operation error for the status bar.
func failure(err error) string {
	var opErr *OperationError
	if errors.As(err, &opErr) && opErr.Err != nil {
		return opErr.Err.Error()
	}
	return err.Error()
}

func (app *Application) handleFileEvent(ev fileio.Event) {
	app.log.Info("file changed on disk: %s %b", ev.Path, ev.Op)
	app.setMessage(app.changedOnDisk())
	app.fire(script.EventDiskChange, ev.Path)
}

// changedOnDisk returns MsgChangedOnDisk with a hint naming the reload key.
func (app *Application) changedOnDisk() string {
	chords := app.keymap.ChordsFor(keymap.ActionReload)
	if len(chords) == 0 {
		return MsgChangedOnDisk
	}
	return fmt.Sprintf("%s (%s to reload)", MsgChangedOnDisk, chords[0])
}

// fire runs the script handlers for ev. A message set by a handler, or the
// handler's error, replaces the status message.
func (app *Application) fire(ev script.Event, path string) {
	if app.script == nil {
		return
	}
	if err := app.script.Fire(ev, path); err != nil {
		app.setMessage(MsgScriptError + err.Error())
		return
	}
	app.takeScriptStatus()
}

func (app *Application) takeScriptStatus() {
	if app.script == nil {
		return
	}
	if msg, ok := app.script.TakeStatus(); ok {
		app.setMessage(msg)
	}
}

func (app *Application) startWatcher() {
	if app.watcher != nil || !app.settings.Watch.Enabled || app.doc.IsUntitled() || !app.running.Load() {
		return
	}
	w, err := fileio.NewWatcher(app.doc.Path, app.settings.Watch.Debounce.Std())
	if err != nil {
		app.log.Warn("watch %s: %v", app.doc.Path, err)
		return
	}
	app.watcher = w
}

func (app *Application) stopWatcher() {
	if app.watcher == nil {
		return
	}
	if err := app.watcher.Close(); err != nil {
		app.log.Warn("close watcher: %v", err)
	}
	app.watcher = nil
}

// String describes the application state for logs.
func (app *Application) String() string {
	p := app.doc.Engine.CursorLineCol()
	return fmt.Sprintf("%s %d:%d modified=%t", app.doc.Name, p.Line+1, p.Column+1, app.doc.Modified())
}
