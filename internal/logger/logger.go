package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes component-tagged lines. Debug and Info are only emitted when
// verbose is on. A nil *Logger discards everything.
type Logger struct {
	component string
	verbose   bool
	mu        *sync.Mutex
	writer    io.Writer
}

// Field is a key-value pair appended to a log line.
type Field struct {
	Key   string
	Value any
}

// New creates a logger writing to w. A nil writer means os.Stderr.
func New(component string, w io.Writer, verbose bool) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		component: component,
		verbose:   verbose,
		mu:        &sync.Mutex{},
		writer:    w,
	}
}

// Discard returns a logger that drops every line.
func Discard() *Logger {
	return New("", io.Discard, false)
}

// WithComponent returns a logger sharing the writer under another name.
func (l *Logger) WithComponent(component string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{
		component: component,
		verbose:   l.verbose,
		mu:        l.mu,
		writer:    l.writer,
	}
}

// IsVerbose reports whether Debug and Info lines are written.
func (l *Logger) IsVerbose() bool {
	return l != nil && l.verbose
}

func (l *Logger) Debug(msg string, args ...any) {
	if l.IsVerbose() {
		l.log("DEBUG", msg, nil, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l.IsVerbose() {
		l.log("INFO", msg, nil, args...)
	}
}

// Warn is always written.
func (l *Logger) Warn(msg string, args ...any) {
	l.log("WARN", msg, nil, args...)
}

// Error is always written.
func (l *Logger) Error(msg string, args ...any) {
	l.log("ERROR", msg, nil, args...)
}

// InfoWithFields logs msg followed by the fields when verbose is on.
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...any) {
	if l.IsVerbose() {
		l.log("INFO", msg, fields, args...)
	}
}

// WarnWithFields logs msg followed by the fields.
func (l *Logger) WarnWithFields(msg string, fields []Field, args ...any) {
	l.log("WARN", msg, fields, args...)
}

func (l *Logger) log(level, msg string, fields []Field, args ...any) {
	if l == nil {
		return
	}
	component := l.component
	if component == "" {
		component = "main"
	}

	line := fmt.Sprintf("[%s] %s [%s] %s", time.Now().Format("15:04:05.000"), level, component, fmt.Sprintf(msg, args...))
	if len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, fmt.Sprintf("%s=%v", field.Key, field.Value))
		}
		line += " [" + strings.Join(parts, " ") + "]"
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintln(l.writer, line)
}

func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
