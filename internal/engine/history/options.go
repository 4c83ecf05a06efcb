package history

import "time"

// DefaultMaxDepth is the undo depth used when none is configured.
const DefaultMaxDepth = 1000

// Option configures a History.
type Option func(*History)

// WithMaxDepth sets the maximum number of undo records.
// Values <= 0 select DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(h *History) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		h.maxDepth = n
	}
}

// WithCoalescing enables or disables merging of typing bursts.
func WithCoalescing(enabled bool) Option {
	return func(h *History) {
		h.coalesce = enabled
	}
}

// WithCoalesceWindow limits coalescing to keystrokes no further apart
// than d. Zero means no time limit.
func WithCoalesceWindow(d time.Duration) Option {
	return func(h *History) {
		h.window = d
	}
}

// WithClock sets the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(h *History) {
		if now != nil {
			h.now = now
		}
	}
}
