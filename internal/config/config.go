package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/ripple/internal/config/loader"
	"github.com/dshills/ripple/internal/logging"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "RIPPLE_"

// Config loads and holds the Ripple settings.
type Config struct {
	mu sync.RWMutex

	settings Settings

	// Sources
	path     string
	explicit bool
	fs       loader.FileSystem
	env      *loader.EnvLoader

	// loadedFrom is the file that was read, empty if none was.
	loadedFrom string
}

// Option configures a Config instance.
type Option func(*Config)

// WithPath sets the config file. A file set this way must exist.
func WithPath(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.path = path
			c.explicit = true
		}
	}
}

// WithFileSystem sets the file system the config file is read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnvLookup replaces the process environment, for tests.
func WithEnvLookup(lookup func(string) (string, bool)) Option {
	return func(c *Config) {
		c.env = loader.NewEnvLoaderWithLookup(EnvPrefix, lookup)
	}
}

// New creates a Config holding the defaults. Call Load to read the file
// and the environment.
func New(opts ...Option) *Config {
	c := &Config{
		settings: Default(),
		path:     DefaultPath(),
		fs:       loader.DefaultFS(),
		env:      loader.NewEnvLoader(EnvPrefix),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultPath returns the user config file location, or "" when the user
// config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ripple", "config.toml")
}

// Load applies the config file and then the environment over the defaults,
// and validates the result. On error the previous settings are kept.
func (c *Config) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Default()
	loadedFrom := ""

	if c.path != "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		found, err := loader.NewTOMLLoaderWithFS(c.fs, c.path).LoadInto(&s)
		if err != nil {
			return err
		}
		if found {
			loadedFrom = c.path
		} else if c.explicit {
			return fmt.Errorf("%w: %s", ErrFileNotFound, c.path)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.applyEnv(&s); err != nil {
		return err
	}

	if err := s.Validate(); err != nil {
		return err
	}

	c.settings = s
	c.loadedFrom = loadedFrom
	return nil
}

// applyEnv decodes the environment layer onto s. The variables are
// re-encoded as TOML so they go through the same strict decoder as the
// file.
func (c *Config) applyEnv(s *Settings) error {
	values, err := c.env.Load()
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := loader.Encode(&buf, values); err != nil {
		return fmt.Errorf("encoding environment: %w", err)
	}
	return loader.Decode("environment", &buf, s)
}

// Update applies fn to a copy of the settings and keeps the result if it
// validates. Command-line flags are applied this way.
func (c *Config) Update(fn func(*Settings)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.settings.clone()
	fn(&s)
	if err := s.Validate(); err != nil {
		return err
	}
	c.settings = s
	return nil
}

// Settings returns a snapshot of all settings.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.clone()
}

// Editor returns the editor section.
func (c *Config) Editor() EditorConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Editor
}

// Log returns the log section.
func (c *Config) Log() LogConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Log
}

// Watch returns the watch section.
func (c *Config) Watch() WatchConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Watch
}

// Script returns the scripting settings.
func (c *Config) Script() ScriptConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Script
}

// Keymap returns a copy of the configured key overrides.
func (c *Config) Keymap() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.clone().Keymap
}

// LoadedFrom returns the config file that was read, or "" if none was.
func (c *Config) LoadedFrom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedFrom
}

// Validate checks every setting and returns the first ValidationError.
func (s Settings) Validate() error {
	switch {
	case s.Editor.MaxUndo <= 0:
		return &ValidationError{Path: "editor.max_undo", Value: s.Editor.MaxUndo, Message: "must be positive"}
	case s.Editor.CoalesceWindow < 0:
		return &ValidationError{Path: "editor.coalesce_window", Value: s.Editor.CoalesceWindow, Message: "must not be negative"}
	case s.Editor.TabWidth < 1 || s.Editor.TabWidth > 16:
		return &ValidationError{Path: "editor.tab_width", Value: s.Editor.TabWidth, Message: "must be between 1 and 16"}
	case s.Watch.Debounce < 0:
		return &ValidationError{Path: "watch.debounce", Value: s.Watch.Debounce, Message: "must not be negative"}
	case s.Script.Timeout < 0:
		return &ValidationError{Path: "script.timeout", Value: s.Script.Timeout, Message: "must not be negative"}
	}
	if _, ok := logging.ParseLevel(s.Log.Level); !ok {
		return &ValidationError{Path: "log.level", Value: s.Log.Level, Message: "must be debug, info, warn or error"}
	}
	return nil
}

// LogLevel returns the parsed log level.
func (s LogConfig) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(s.Level)
	return level
}
