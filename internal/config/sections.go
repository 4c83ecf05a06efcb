package config

import "time"

// Settings is the complete configuration.
type Settings struct {
	Editor EditorConfig      `toml:"editor"`
	Log    LogConfig         `toml:"log"`
	Watch  WatchConfig       `toml:"watch"`
	Script ScriptConfig      `toml:"script"`
	Keymap map[string]string `toml:"keymap,omitempty"`
}

// EditorConfig holds editing engine settings.
type EditorConfig struct {
	// MaxUndo is the number of undo entries kept.
	MaxUndo int `toml:"max_undo"`

	// Coalesce merges consecutive typed characters into one undo entry.
	Coalesce bool `toml:"coalesce"`

	// CoalesceWindow is the longest pause that still coalesces. Zero
	// means no limit.
	CoalesceWindow Duration `toml:"coalesce_window"`

	// TabWidth is the display width of a tab.
	TabWidth int `toml:"tab_width"`

	// ReadOnly opens documents read-only.
	ReadOnly bool `toml:"read_only"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// File receives log output. Empty disables logging.
	File string `toml:"file"`
}

// WatchConfig controls detection of external file changes.
type WatchConfig struct {
	Enabled  bool     `toml:"enabled"`
	Debounce Duration `toml:"debounce"`
}

// ScriptConfig controls the Lua init script.
type ScriptConfig struct {
	// Init is the script run at startup. Empty disables scripting.
	Init string `toml:"init"`

	// Timeout bounds every script call. Zero means no limit.
	Timeout Duration `toml:"timeout"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Editor: EditorConfig{
			MaxUndo:  1000,
			Coalesce: true,
			TabWidth: 4,
		},
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: Duration(100 * time.Millisecond),
		},
		Script: ScriptConfig{
			Timeout: Duration(time.Second),
		},
	}
}

// clone returns a copy of s that shares no maps with it.
func (s Settings) clone() Settings {
	if s.Keymap != nil {
		km := make(map[string]string, len(s.Keymap))
		for k, v := range s.Keymap {
			km[k] = v
		}
		s.Keymap = km
	}
	return s
}
