package main

import (
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options
	}{
		{"empty", nil, options{}},
		{"file", []string{"notes.txt"}, options{Path: "notes.txt"}},
		{"readonly short", []string{"-R", "a.txt"}, options{ReadOnly: true, Path: "a.txt"}},
		{"config short", []string{"-c", "x.toml"}, options{ConfigPath: "x.toml"}},
		{"logging", []string{"-log-level", "DEBUG", "-log-file", "/tmp/r.log"}, options{LogLevel: "DEBUG", LogFile: "/tmp/r.log"}},
		{"version", []string{"-v"}, options{showVersion: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("parseFlags() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseFlags() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad level", []string{"-log-level", "loud"}, "invalid log level"},
		{"two files", []string{"a", "b"}, "at most one file"},
		{"unknown flag", []string{"-x"}, "not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args, &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("parseFlags() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParseFlagsHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := parseFlags([]string{"-h"}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("parseFlags(-h) error = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(out.String(), "Usage: ripple") {
		t.Errorf("usage not printed: %q", out.String())
	}
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	t.Setenv("RIPPLE_LOG_LEVEL", "error")

	cfg, err := loadConfig(options{
		ConfigPath: "",
		LogLevel:   "debug",
		ReadOnly:   true,
	})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Log().Level != "debug" {
		t.Errorf("log level = %q, flags should win over the environment", cfg.Log().Level)
	}
	if !cfg.Editor().ReadOnly {
		t.Error("-R should set read-only")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := loadConfig(options{ConfigPath: "/nonexistent/ripple.toml"}); err == nil {
		t.Error("an explicit missing config file should fail")
	}
}
