package app

import (
	"errors"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/ripple/internal/config"
	"github.com/dshills/ripple/internal/engine"
	"github.com/dshills/ripple/internal/fileio"
)

// Document represents an open file with its associated editor state.
type Document struct {
	// ID identifies the document for the lifetime of the process.
	ID uuid.UUID

	// Path is the absolute file path (empty for untitled documents).
	Path string

	// Name is the display name (file name, or empty when untitled).
	Name string

	// Engine is the text buffer and editing engine.
	Engine *engine.Engine

	// isNew is set for a path that did not exist when opened.
	isNew bool
}

// NewDocument creates an untitled, empty document.
func NewDocument(opts ...engine.Option) *Document {
	return &Document{
		ID:     uuid.New(),
		Engine: engine.New(opts...),
	}
}

// OpenDocument loads the file at path. A path that does not exist yet
// opens as an empty document that is created on first save.
func OpenDocument(path string, opts ...engine.Option) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}

	doc := &Document{
		ID:   uuid.New(),
		Path: absPath,
		Name: filepath.Base(absPath),
	}

	f, err := fileio.Open(absPath)
	switch {
	case errors.Is(err, fileio.ErrNotExist):
		doc.Engine = engine.New(opts...)
		doc.isNew = true
		return doc, nil
	case err != nil:
		return nil, NewOperationError("open", absPath, err)
	}
	defer f.Close()

	if doc.Engine, err = engine.NewFromReader(f, opts...); err != nil {
		return nil, NewOperationError("open", absPath, err)
	}
	return doc, nil
}

// IsUntitled returns true if the document has no path.
func (d *Document) IsUntitled() bool {
	return d.Path == ""
}

// IsNew returns true if the document's file has not been written yet.
func (d *Document) IsNew() bool {
	return d.isNew
}

// Modified returns true if the document has unsaved changes.
func (d *Document) Modified() bool {
	return d.Engine.Modified()
}

// Save writes the document to its path using its original line endings.
func (d *Document) Save() error {
	if d.IsUntitled() {
		return NewOperationError("save", "", ErrNoFilename)
	}
	if err := fileio.Save(d.Path, d.Engine); err != nil {
		return NewOperationError("save", d.Path, err)
	}
	d.Engine.MarkSaved()
	d.isNew = false
	return nil
}

// SaveAs sets the document's path and saves it there.
func (d *Document) SaveAs(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return NewOperationError("save", path, err)
	}
	oldPath, oldName, oldNew := d.Path, d.Name, d.isNew
	d.Path = absPath
	d.Name = filepath.Base(absPath)
	d.isNew = true

	if err := d.Save(); err != nil {
		d.Path, d.Name, d.isNew = oldPath, oldName, oldNew
		return err
	}
	return nil
}

// Reload replaces the content with the file on disk. The cursor returns to
// the start and the history is cleared. On failure the content is kept.
func (d *Document) Reload() error {
	if d.IsUntitled() {
		return NewOperationError("reload", "", ErrNoFilename)
	}
	f, err := fileio.Open(d.Path)
	if err != nil {
		return NewOperationError("reload", d.Path, err)
	}
	defer f.Close()

	if err := d.Engine.LoadFrom(f); err != nil {
		return NewOperationError("reload", d.Path, err)
	}
	d.isNew = false
	return nil
}

// EngineOptions converts editor settings into engine options.
func EngineOptions(cfg config.EditorConfig) []engine.Option {
	opts := []engine.Option{
		engine.WithTabWidth(cfg.TabWidth),
		engine.WithMaxUndoEntries(cfg.MaxUndo),
		engine.WithCoalescing(cfg.Coalesce),
		engine.WithCoalesceWindow(cfg.CoalesceWindow.Std()),
	}
	if cfg.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	return opts
}
