package utils

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// LogLevel represents an enumeration of log levels
type LogLevel int

const (
	Critical LogLevel = 50
	Error    LogLevel = 40
	Warning  LogLevel = 30
	Info     LogLevel = 20
	Debug    LogLevel = 10
	NotSet   LogLevel = 0
)

// Logger provides leveled key-value logging with a component prefix.
type Logger struct {
	mu     sync.Mutex
	logger *log.Logger
	level  LogLevel
}

// NewLogger creates a new logger with a given component prefix. The default
// level is Info; pass an explicit level to override.
func NewLogger(prefix string, level ...LogLevel) *Logger {
	lvl := Info
	if len(level) > 0 {
		lvl = level[0]
	}
	return &Logger{
		logger: log.New(os.Stdout, fmt.Sprintf("[%s] ", prefix), log.LstdFlags),
		level:  lvl,
	}
}

// SetLogLevel sets the logging level.
func (l *Logger) SetLogLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...interface{}) { l.log(Debug, "DEBUG", msg, keyvals...) }

// Info logs an informational message.
func (l *Logger) Info(msg string, keyvals ...interface{}) { l.log(Info, "INFO", msg, keyvals...) }

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keyvals ...interface{}) { l.log(Warning, "WARN", msg, keyvals...) }

// Error logs an error message.
func (l *Logger) Error(msg string, keyvals ...interface{}) { l.log(Error, "ERROR", msg, keyvals...) }

func (l *Logger) log(level LogLevel, tag, msg string, keyvals ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level > level {
		return
	}
	formatted := fmt.Sprintf("[%s] %s", tag, msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		formatted += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	l.logger.Println(formatted)
}
