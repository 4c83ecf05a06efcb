// Package logging provides the structured, leveled logger used across Ripple.
//
// Log lines have the form
//
//	2024-01-01T10:00:00.000 [WARN] ripple: delete out of bounds {component=app, doc=…}
//
// Fields are rendered in sorted key order so output is stable. While the
// editor owns the terminal, logs go to a file opened with Open; a Logger
// without a file is NullLogger.
package logging
