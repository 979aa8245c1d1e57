// Package logging provides a leveled, optionally colored logger with an
// optional append-only file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/backmassage/datestamp/internal/config"
	"github.com/backmassage/datestamp/internal/term"
)

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	mu       sync.Mutex
	stdout   io.Writer
	stderr   io.Writer
	file     *os.File
	filePath string
	verbose  bool
}

// NewLogger configures terminal colors from cfg and optionally opens
// cfg.LogFile. Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode, os.Stdout)
	l := &Logger{stdout: os.Stdout, stderr: os.Stderr, verbose: cfg.Verbose}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.file = f
		l.filePath = cfg.LogFile
	}
	return l, nil
}

// New returns a logger writing to the given streams, without colors
// unless term has been configured.
func New(stdout, stderr io.Writer, verbose bool) *Logger {
	return &Logger{stdout: stdout, stderr: stderr, verbose: verbose}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Verbose reports whether DEBUG lines are printed.
func (l *Logger) Verbose() bool { return l.verbose }

func (l *Logger) line(level string, role term.Role, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.stdout
	if level == "ERROR" {
		out = l.stderr
	}
	_, _ = io.WriteString(out, ts+" "+term.Paint(role, "["+level+"]")+" "+text+"\n")
	if l.file != nil {
		_, _ = io.WriteString(l.file, ts+" ["+level+"] "+text+"\n")
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Info, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.Success, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Warn, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Failure, fmt.Sprintf(format, args...))
}

// Rename logs at RENAME level (magenta): one line per file moved.
func (l *Logger) Rename(format string, args ...interface{}) {
	l.line("RENAME", term.Rename, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", term.Debug, fmt.Sprintf(format, args...))
}
