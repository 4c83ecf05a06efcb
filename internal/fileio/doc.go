// Package fileio loads and saves documents and watches them for external
// changes.
//
// Save is atomic: the text is written to a temporary file in the target's
// directory, synced, and renamed over the target. The Watcher reports
// changes made by other programs; IgnoreFor hides the events caused by our
// own saves.
package fileio
