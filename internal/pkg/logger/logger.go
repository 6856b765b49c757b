package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a level name to a Level. Unknown names fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes one key=value line per entry.
type Logger struct {
	mu     sync.Mutex
	writer io.Writer
	level  Level
}

// New creates a logger writing to stdout at info level.
func New() *Logger {
	return &Logger{
		writer: os.Stdout,
		level:  LevelInfo,
	}
}

// NewWithWriter creates a logger with a custom writer and minimum level.
func NewWithWriter(w io.Writer, level Level) *Logger {
	return &Logger{
		writer: w,
		level:  level,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return NewWithWriter(io.Discard, LevelError+1)
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, "DEBUG", msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, "INFO", msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, "WARNING", msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.log(LevelError, "ERROR", msg, fields...)
}

func (l *Logger) log(level Level, name, msg string, fields ...Field) {
	if l == nil || level < l.level {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "LEVEL=%s MESSAGE=%q", name, msg)
	for _, field := range fields {
		fmt.Fprintf(&b, " %s=%v", field.Key, field.Value)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintln(l.writer, b.String())
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

// F creates a new field (shorthand)
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Action(value string) Field   { return F("ACTION", value) }
func User(value string) Field     { return F("USER", value) }
func Resource(value string) Field { return F("RESOURCE", value) }
func Booking(value string) Field  { return F("BOOKING", value) }
func Date(value string) Field     { return F("DATE", value) }
func Slot(value string) Field     { return F("SLOT", value) }
func Count(value int) Field       { return F("COUNT", value) }
func Reason(value string) Field   { return F("REASON", value) }
func Error(value error) Field     { return F("ERROR", value) }
