package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
)

// Config describes where log records go.
type Config struct {
	// Level is the minimum level written to FilePath (debug, info, warn, error).
	Level string
	// FilePath receives JSON records. Empty means no file.
	FilePath  string
	MaxSizeMB int
	MaxFiles  int

	// Console, when set, also receives text records at ConsoleLevel.
	Console      io.Writer
	ConsoleLevel string
}

// DefaultConfig logs info and above to the default log file and warnings to stderr.
func DefaultConfig() Config {
	return Config{
		Level:        "info",
		FilePath:     DefaultLogPath(),
		MaxSizeMB:    10,
		MaxFiles:     5,
		Console:      os.Stderr,
		ConsoleLevel: "warn",
	}
}

// DebugConfig is DefaultConfig with the file at debug level.
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	return cfg
}

// Setup builds a logger from cfg. The returned cleanup flushes and closes
// the log file and is safe to call when no file is configured.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	if cfg.FilePath == "" {
		console := cfg.Console
		if console == nil {
			console = os.Stderr
		}
		return slog.New(slog.NewJSONHandler(console, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})), func() {}, nil
	}

	writer, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, uerrors.New(uerrors.ErrCodeReportWrite, "open log file", err).
			WithDetail("path", cfg.FilePath)
	}

	handlers := []slog.Handler{
		slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: parseLevel(cfg.Level)}),
	}
	if cfg.Console != nil {
		handlers = append(handlers, slog.NewTextHandler(cfg.Console, &slog.HandlerOptions{Level: parseLevel(cfg.ConsoleLevel)}))
	}

	cleanup := func() {
		_ = writer.Sync()
		_ = writer.Close()
	}
	return slog.New(teeHandler(handlers)), cleanup, nil
}

// SetupDefault runs Setup and installs the logger as slog's default.
func SetupDefault(cfg Config) (func(), error) {
	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return cleanup, nil
}

// StderrLogger returns a text logger on w for runs without --debug.
func StderrLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

// LevelFromString maps a config level name to a slog.Level. Unknown names are info.
func LevelFromString(level string) slog.Level {
	return parseLevel(level)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// teeHandler sends each record to every handler enabled for its level.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
