// Package logger is the process-wide slog logger used by xdrkit. Records go
// to stderr unless configured otherwise, so stdout stays free for encoded
// output.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config selects level, format and destination. Empty fields fall back to
// INFO, text and stderr.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or file path
}

var (
	level = new(slog.LevelVar)

	mu      sync.RWMutex
	current *slog.Logger
	output  io.Writer = os.Stderr
	logFile *os.File
)

func init() {
	install(os.Stderr, "text", isTerminal(os.Stderr.Fd()))
}

// install swaps the active handler. Callers must not hold mu.
func install(w io.Writer, format string, color bool) {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = NewColorTextHandler(w, opts, color)
	}

	mu.Lock()
	current = slog.New(h)
	output = w
	mu.Unlock()
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case "":
		return "text", nil
	case "text", "json":
		return f, nil
	}
	return "", fmt.Errorf("unknown log format %q", s)
}

// Init applies cfg. A file output is opened for append and replaces any
// file opened by a previous call.
func Init(cfg Config) error {
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	format, err := parseFormat(cfg.Format)
	if err != nil {
		return err
	}

	var (
		w     io.Writer
		color bool
		file  *os.File
	)
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		w, color = os.Stderr, isTerminal(os.Stderr.Fd())
	case "stdout":
		w, color = os.Stdout, isTerminal(os.Stdout.Fd())
	default:
		file, err = os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", cfg.Output, err)
		}
		w = file
	}

	level.Set(lvl)
	install(w, format, color)
	swapFile(file)
	return nil
}

// InitWithWriter routes records to w. Invalid level or format values keep
// the current level and fall back to text.
func InitWithWriter(w io.Writer, lvl, format string, enableColor bool) {
	if l, err := parseLevel(lvl); err == nil && lvl != "" {
		level.Set(l)
	}
	f, err := parseFormat(format)
	if err != nil {
		f = "text"
	}
	install(w, f, enableColor)
	swapFile(nil)
}

func swapFile(f *os.File) {
	mu.Lock()
	prev := logFile
	logFile = f
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Debug logs at debug level. Args are slog attrs or key/value pairs.
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

// DebugCtx logs at debug level, prefixed with the LogContext fields carried
// by ctx.
func DebugCtx(ctx context.Context, msg string, args ...any) {
	l := get()
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.DebugContext(ctx, msg, contextArgs(ctx, args)...)
}

func contextArgs(ctx context.Context, args []any) []any {
	lc := FromContext(ctx)
	if lc == nil {
		return args
	}

	out := make([]any, 0, 5+len(args))
	add := func(key, val string) {
		if val != "" {
			out = append(out, slog.String(key, val))
		}
	}
	add(KeyTraceID, lc.TraceID)
	add(KeySpanID, lc.SpanID)
	add(KeyOperation, lc.Operation)
	add(KeyType, lc.TypeName)
	add(KeyFormat, lc.Format)
	return append(out, args...)
}
