package util

import (
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelError LogLevel = "error"
)

// Logger writes leveled lines through standard loggers
type Logger struct {
	level       LogLevel
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
}

// NewLogger logs info and debug lines to stdout and errors to stderr
func NewLogger(level string) *Logger {
	return NewLoggerTo(level, os.Stdout, os.Stderr)
}

// NewLoggerTo writes info/debug lines to out and errors to errOut
func NewLoggerTo(level string, out, errOut io.Writer) *Logger {
	flags := log.Ldate | log.Ltime | log.Lmsgprefix
	return &Logger{
		level:       ParseLogLevel(level),
		infoLogger:  log.New(out, "INFO: ", flags),
		errorLogger: log.New(errOut, "ERROR: ", flags),
		debugLogger: log.New(out, "DEBUG: ", flags),
	}
}

func NewDiscardLogger() *Logger {
	return &Logger{
		level:       LevelInfo,
		infoLogger:  log.New(io.Discard, "", 0),
		errorLogger: log.New(io.Discard, "", 0),
		debugLogger: log.New(io.Discard, "", 0),
	}
}

// ParseLogLevel maps a config value to a level, defaulting to info
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Level returns the active level
func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) Info(format string, v ...any) {
	if l.level == LevelError {
		return
	}
	l.infoLogger.Printf(format, v...)
}

func (l *Logger) Error(format string, v ...any) {
	l.errorLogger.Printf(format, v...)
}

func (l *Logger) Debug(format string, v ...any) {
	if l.level != LevelDebug {
		return
	}
	l.debugLogger.Printf(format, v...)
}
