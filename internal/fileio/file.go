package fileio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Common errors returned by file operations.
var (
	ErrNotExist = errors.New("file does not exist")
	ErrIsDir    = errors.New("path is a directory")
)

// DefaultPerm is the mode of newly created files.
const DefaultPerm fs.FileMode = 0o644

// Open opens the file at path for reading. A missing file reports
// ErrNotExist and a directory reports ErrIsDir.
func Open(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDir, path)
	}
	return os.Open(path)
}

// Save atomically replaces the file at path with the output of src.
// An existing file keeps its mode; a new file gets DefaultPerm.
func Save(path string, src io.WriterTo) (err error) {
	perm := DefaultPerm
	if info, statErr := os.Stat(path); statErr == nil {
		if info.IsDir() {
			return fmt.Errorf("%w: %s", ErrIsDir, path)
		}
		perm = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = src.WriteTo(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
