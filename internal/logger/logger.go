package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ekisa-team/qanda/internal/env"
)

// options holds logger construction options.
type options struct {
	logToFile bool
	logFile   string
	level     slog.Leveler
}

// Option configures the logger.
type Option func(*options)

// WithLogToFile enables mirroring log output to a rotated file.
func WithLogToFile(enabled bool) Option {
	return func(o *options) {
		o.logToFile = enabled
	}
}

// WithLogFile sets the log file path used when file logging is enabled.
func WithLogFile(path string) Option {
	return func(o *options) {
		o.logFile = path
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		o.level = level
	}
}

// New builds the application logger. Development gets a tinted console
// handler, production gets JSON. When file logging is enabled the output
// is mirrored to a size-rotated file.
func New(environment env.Environment, opts ...Option) *slog.Logger {
	o := &options{
		logFile: "logs/qanda.log",
		level:   slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(o)
	}

	var w io.Writer = os.Stderr
	if o.logToFile {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   o.logFile,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	var handler slog.Handler
	switch environment {
	case env.EnvironmentProduction:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: o.level})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      o.level,
			TimeFormat: time.Kitchen,
		})
	}

	return slog.New(handler)
}
