// Package main is the entry point for the Ripple editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/ripple/internal/app"
	"github.com/dshills/ripple/internal/config"
	"github.com/dshills/ripple/internal/logging"
	"github.com/dshills/ripple/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
	ReadOnly   bool
	Path       string

	showVersion bool
	showHelp    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if opts.showVersion {
		fmt.Printf("Ripple %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: ripple must be run in a terminal")
		return 1
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logCfg := cfg.Log()
	logger, err := logging.Open(logCfg.File, logCfg.LogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Close()
	if from := cfg.LoadedFrom(); from != "" {
		logger.Info("config loaded from %s", from)
	}

	application, err := app.New(app.Options{
		Path:   opts.Path,
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	screen, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(screen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig layers the command line over the configuration file and the
// environment.
func loadConfig(opts options) (*config.Config, error) {
	var cfgOpts []config.Option
	if opts.ConfigPath != "" {
		cfgOpts = append(cfgOpts, config.WithPath(opts.ConfigPath))
	}
	cfg := config.New(cfgOpts...)
	if err := cfg.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	err := cfg.Update(func(s *config.Settings) {
		if opts.LogLevel != "" {
			s.Log.Level = opts.LogLevel
		}
		if opts.LogFile != "" {
			s.Log.File = opts.LogFile
		}
		if opts.ReadOnly {
			s.Editor.ReadOnly = true
		}
	})
	if err != nil {
		return nil, fmt.Errorf("command line: %w", err)
	}
	return cfg, nil
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("ripple", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&opts.ReadOnly, "readonly", false, "Open the file in read-only mode")
	fs.BoolVar(&opts.ReadOnly, "R", false, "Open the file in read-only mode (shorthand)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&opts.showHelp, "help", false, "Show help message")
	fs.BoolVar(&opts.showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(output, "Ripple - a small terminal text editor\n\n")
		fmt.Fprintf(output, "Usage: ripple [options] [file]\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  ripple                 Open an empty document\n")
		fmt.Fprintf(output, "  ripple notes.txt       Open or create a file\n")
		fmt.Fprintf(output, "  ripple -R notes.txt    Open a file read-only\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.showHelp {
		fs.Usage()
		return opts, flag.ErrHelp
	}

	if opts.LogLevel != "" {
		if _, ok := logging.ParseLevel(opts.LogLevel); !ok {
			return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
		}
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.Path = fs.Arg(0)
	default:
		return opts, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}

	return opts, nil
}
