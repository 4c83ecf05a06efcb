package config

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"time"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func noEnv(string) (string, bool) { return "", false }

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if s.Editor.MaxUndo != 1000 || !s.Editor.Coalesce || s.Editor.TabWidth != 4 {
		t.Errorf("unexpected editor defaults: %+v", s.Editor)
	}
	if !s.Watch.Enabled || s.Watch.Debounce.Std() != 100*time.Millisecond {
		t.Errorf("unexpected watch defaults: %+v", s.Watch)
	}
}

func TestLoadFile(t *testing.T) {
	fsys := memFS{"/cfg.toml": `
[editor]
max_undo = 50
coalesce_window = "750ms"

[log]
level = "debug"

[keymap]
"ctrl+u" = "undo"
`}
	c := New(WithPath("/cfg.toml"), WithFileSystem(fsys), WithEnvLookup(noEnv))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	editor := c.Editor()
	if editor.MaxUndo != 50 {
		t.Errorf("MaxUndo = %d, want 50", editor.MaxUndo)
	}
	if editor.CoalesceWindow.Std() != 750*time.Millisecond {
		t.Errorf("CoalesceWindow = %v, want 750ms", editor.CoalesceWindow)
	}
	if editor.TabWidth != 4 {
		t.Errorf("TabWidth = %d, absent keys should keep defaults", editor.TabWidth)
	}
	if c.Log().Level != "debug" {
		t.Errorf("Log().Level = %q", c.Log().Level)
	}
	if c.Keymap()["ctrl+u"] != "undo" {
		t.Errorf("Keymap() = %v", c.Keymap())
	}
	if c.LoadedFrom() != "/cfg.toml" {
		t.Errorf("LoadedFrom() = %q", c.LoadedFrom())
	}
}

func TestLoadMissingFile(t *testing.T) {
	// The default location may be absent.
	c := New(WithFileSystem(memFS{}), WithEnvLookup(noEnv))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() with no file = %v", err)
	}
	if c.LoadedFrom() != "" {
		t.Errorf("LoadedFrom() = %q, want empty", c.LoadedFrom())
	}

	// An explicit path must exist.
	c = New(WithPath("/missing.toml"), WithFileSystem(memFS{}), WithEnvLookup(noEnv))
	if err := c.Load(context.Background()); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Load() error = %v, want ErrFileNotFound", err)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	fsys := memFS{"/cfg.toml": "[editor]\nundo_depth = 3\n"}
	c := New(WithPath("/cfg.toml"), WithFileSystem(fsys), WithEnvLookup(noEnv))

	err := c.Load(context.Background())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load() error = %v, want ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
}

func TestLoadBadDuration(t *testing.T) {
	fsys := memFS{"/cfg.toml": "[watch]\ndebounce = \"soon\"\n"}
	c := New(WithPath("/cfg.toml"), WithFileSystem(fsys), WithEnvLookup(noEnv))
	if err := c.Load(context.Background()); err == nil {
		t.Error("Load() should reject an unparsable duration")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	fsys := memFS{"/cfg.toml": "[editor]\ntab_width = 8\nmax_undo = 20\n"}
	env := envOf(map[string]string{
		"RIPPLE_TAB_WIDTH":      "2",
		"RIPPLE_LOG_FILE":       "/tmp/r.log",
		"RIPPLE_COALESCE":       "false",
		"RIPPLE_WATCH_DEBOUNCE": "1s",
	})
	c := New(WithPath("/cfg.toml"), WithFileSystem(fsys), WithEnvLookup(env))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	editor := c.Editor()
	if editor.TabWidth != 2 {
		t.Errorf("TabWidth = %d, env should win over file", editor.TabWidth)
	}
	if editor.MaxUndo != 20 {
		t.Errorf("MaxUndo = %d, file value should survive", editor.MaxUndo)
	}
	if editor.Coalesce {
		t.Error("Coalesce should be false from env")
	}
	if c.Log().File != "/tmp/r.log" {
		t.Errorf("Log().File = %q", c.Log().File)
	}
	if c.Watch().Debounce.Std() != time.Second {
		t.Errorf("Debounce = %v", c.Watch().Debounce)
	}
}

func TestEnvTypeError(t *testing.T) {
	env := envOf(map[string]string{"RIPPLE_MAX_UNDO": "lots"})
	c := New(WithFileSystem(memFS{}), WithEnvLookup(env))
	if err := c.Load(context.Background()); err == nil {
		t.Error("Load() should reject a non-numeric max_undo")
	}
	if c.Editor().MaxUndo != 1000 {
		t.Error("failed Load should keep previous settings")
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(WithFileSystem(memFS{}), WithEnvLookup(noEnv))
	if err := c.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		path   string
	}{
		{"zero max undo", func(s *Settings) { s.Editor.MaxUndo = 0 }, "editor.max_undo"},
		{"negative window", func(s *Settings) { s.Editor.CoalesceWindow = -1 }, "editor.coalesce_window"},
		{"zero tab width", func(s *Settings) { s.Editor.TabWidth = 0 }, "editor.tab_width"},
		{"huge tab width", func(s *Settings) { s.Editor.TabWidth = 40 }, "editor.tab_width"},
		{"negative debounce", func(s *Settings) { s.Watch.Debounce = -5 }, "watch.debounce"},
		{"negative script timeout", func(s *Settings) { s.Script.Timeout = -1 }, "script.timeout"},
		{"bad level", func(s *Settings) { s.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if ve.Path != tt.path {
				t.Errorf("Path = %q, want %q", ve.Path, tt.path)
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Error("ValidationError should match ErrValidationFailed")
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	c := New(WithFileSystem(memFS{}), WithEnvLookup(noEnv))

	if err := c.Update(func(s *Settings) { s.Editor.ReadOnly = true }); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !c.Editor().ReadOnly {
		t.Error("Update should apply the change")
	}

	if err := c.Update(func(s *Settings) { s.Editor.TabWidth = -1 }); err == nil {
		t.Fatal("Update() should reject invalid settings")
	}
	if c.Editor().TabWidth != 4 {
		t.Error("rejected Update should not change settings")
	}
}

func TestSettingsSnapshot(t *testing.T) {
	fsys := memFS{"/cfg.toml": "[keymap]\n\"f2\" = \"save\"\n"}
	c := New(WithPath("/cfg.toml"), WithFileSystem(fsys), WithEnvLookup(noEnv))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	km := c.Keymap()
	km["f2"] = "quit"
	if c.Keymap()["f2"] != "save" {
		t.Error("mutating a snapshot should not change the config")
	}
}

func TestDuration(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatal(err)
	}
	if d.Std() != 90*time.Second {
		t.Errorf("Std() = %v", d.Std())
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText() = %q", text)
	}
	if err := d.UnmarshalText([]byte("fast")); err == nil {
		t.Error("UnmarshalText should reject garbage")
	}
}

func TestLogLevel(t *testing.T) {
	if (LogConfig{Level: "warn"}).LogLevel().String() != "WARN" {
		t.Error("LogLevel() should parse the configured level")
	}
}
