// Package loader reads Ripple configuration sources.
//
// TOMLLoader decodes a TOML file strictly onto a settings struct: unknown
// keys are errors that carry their line and column. EnvLoader collects
// RIPPLE_* environment variables into a nested map keyed the same way as
// the TOML file, so both sources decode through the same path.
package loader

import (
	"io/fs"
	"os"
)

// FileSystem is an abstraction for file system operations.
// Tests substitute an in-memory implementation.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}
