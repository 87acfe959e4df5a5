// Package logging provides the leveled, component-tagged logging used
// across the signing core's ambient stack: the CLI and the metrics
// collector log through a Logger scoped to their own name rather than
// writing to the package-level functions directly.
package logging

import (
	"log"
	"strings"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var currentLevel = LevelInfo

// SetLevel sets the global logging level from a string
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		currentLevel = LevelDebug
	case "info":
		currentLevel = LevelInfo
	case "warn", "warning":
		currentLevel = LevelWarn
	case "error":
		currentLevel = LevelError
	default:
		currentLevel = LevelInfo
	}
	log.Printf("Log level set to: %s", strings.ToLower(level))
}

// Debug logs a message at DEBUG level
func Debug(format string, v ...interface{}) {
	if currentLevel <= LevelDebug {
		log.Printf(format, v...)
	}
}

// Info logs a message at INFO level
func Info(format string, v ...interface{}) {
	if currentLevel <= LevelInfo {
		log.Printf(format, v...)
	}
}

// Warn logs a message at WARN level
func Warn(format string, v ...interface{}) {
	if currentLevel <= LevelWarn {
		log.Printf(format, v...)
	}
}

// Error logs a message at ERROR level
func Error(format string, v ...interface{}) {
	if currentLevel <= LevelError {
		log.Printf(format, v...)
	}
}

// Logger prefixes every line with a fixed component tag, e.g.
// "[sigv4metrics] signed request failed: ...". The sigv4sign CLI and
// the metrics package use this instead of the bare package-level
// functions so multi-component log output stays attributable.
type Logger struct {
	component string
}

// Component returns a Logger tagged with name.
func Component(name string) *Logger {
	return &Logger{component: name}
}

func (l *Logger) prefix(format string) string {
	return "[" + l.component + "] " + format
}

func (l *Logger) Debug(format string, v ...interface{}) { Debug(l.prefix(format), v...) }
func (l *Logger) Info(format string, v ...interface{})  { Info(l.prefix(format), v...) }
func (l *Logger) Warn(format string, v ...interface{})  { Warn(l.prefix(format), v...) }
func (l *Logger) Error(format string, v ...interface{}) { Error(l.prefix(format), v...) }
