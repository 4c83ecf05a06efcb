package engine

import (
	"time"

	"github.com/dshills/ripple/internal/engine/history"
)

// Default configuration values.
const (
	DefaultTabWidth       = 4
	DefaultMaxUndoEntries = history.DefaultMaxDepth
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithTabWidth sets the tab width for the engine.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.tabWidth = width
		}
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithCoalescing enables or disables merging typed characters into one
// undo entry. Enabled by default.
func WithCoalescing(enabled bool) Option {
	return func(e *Engine) {
		e.coalesce = enabled
	}
}

// WithCoalesceWindow sets the longest pause between keystrokes that still
// coalesces. Zero disables the limit.
func WithCoalesceWindow(d time.Duration) Option {
	return func(e *Engine) {
		e.coalesceWindow = d
	}
}

// WithClock sets the time source for history records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.clock = now
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
