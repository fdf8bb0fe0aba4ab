// Package logger wraps log/slog with process-wide defaults, context-scoped
// loggers and per-operation counters.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
)

const (
	EnvDebug     = "SITEOPS_DEBUG"
	EnvLogFormat = "SITEOPS_LOG_FORMAT"
	EnvLogLevel  = "SITEOPS_LOG_LEVEL"
)

type Logger struct {
	*slog.Logger
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
)

type Config struct {
	Level     slog.Level
	Format    string
	Output    io.Writer
	AddSource bool
}

func DefaultConfig() *Config {
	return &Config{
		Level:  slog.LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

// ConfigFromEnv starts from DefaultConfig and applies SITEOPS_LOG_LEVEL,
// SITEOPS_DEBUG and SITEOPS_LOG_FORMAT. SITEOPS_DEBUG wins over the level.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if debug, err := strconv.ParseBool(os.Getenv(EnvDebug)); err == nil && debug {
		cfg.Level = slog.LevelDebug
		cfg.AddSource = true
	}
	if format := strings.ToLower(os.Getenv(EnvLogFormat)); format == "json" || format == "text" {
		cfg.Format = format
	}
	return cfg
}

func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}
	return &Logger{slog.New(handler)}
}

// Init replaces the process logger. The CLI calls it once flags are parsed.
func Init(cfg *Config) {
	SetDefault(New(cfg))
}

func SetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

func L() *Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(DefaultConfig())
	}
	return defaultLogger
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }
