// Package config provides the Ripple configuration system.
//
// Settings come from four layers, lowest priority first:
//
//  1. Built-in defaults (Default)
//  2. The TOML config file (DefaultPath or -config)
//  3. RIPPLE_* environment variables
//  4. Command-line flags, applied by the caller through Update
//
// An example file:
//
//	[editor]
//	max_undo = 500
//	coalesce = true
//	coalesce_window = "1s"
//	tab_width = 4
//
//	[log]
//	level = "debug"
//	file = "/tmp/ripple.log"
//
//	[watch]
//	enabled = true
//	debounce = "100ms"
//
//	[keymap]
//	"ctrl+u" = "undo"
//
// Unknown keys are rejected with their position so typos do not go unnoticed.
package config
