package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"go.trai.ch/jman/internal/core/ports"
	"gopkg.in/natefinch/lumberjack.v2"
)

var _ ports.Logger = (*Logger)(nil)

// FileOptions controls rotation of the persistent log file.
type FileOptions struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger implements ports.Logger using log/slog. Console output is pretty or
// JSON; an optional rotated file always receives JSON records.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
	file     io.WriteCloser
}

// New creates a Logger writing pretty output to stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

// SetOutput updates the console destination. A nil writer means stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches the console between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetFile mirrors every record as JSON into a size-rotated file. An empty
// path disables the file sink.
func (l *Logger) SetFile(path string, opts FileOptions) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
	if path != "" {
		l.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
	}
	l.rebuild()
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.rebuild()
	return err
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var console slog.Handler
	if l.jsonMode {
		console = slog.NewJSONHandler(l.output, opts)
	} else {
		console = NewConsoleHandler(l.output, opts.Level)
	}

	if l.file == nil {
		l.logger = slog.New(console)
		return
	}
	l.logger = slog.New(teeHandler{console, slog.NewJSONHandler(l.file, opts)})
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err. The console handler prints its full cause chain; JSON
// sinks get the message and the error text.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error(err.Error(), ErrorKey, err)
}
