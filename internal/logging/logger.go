// Package logging provides structured logging via bolt and the per-round
// provenance trail written alongside session state.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"
)

var (
	mu            sync.RWMutex
	defaultLogger *bolt.Logger
)

// #region config

// Config configures the process logger.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `yaml:"level"`

	// Format is json or console.
	Format string `yaml:"format"`

	// Output defaults to stderr.
	Output io.Writer `yaml:"-"`
}

// DefaultConfig returns console logging at info level on stderr.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	}
}

func parseLevel(s string) bolt.Level {
	switch s {
	case "trace":
		return bolt.TRACE
	case "debug":
		return bolt.DEBUG
	case "info":
		return bolt.INFO
	case "warn":
		return bolt.WARN
	case "error":
		return bolt.ERROR
	default:
		return bolt.INFO
	}
}

// #endregion

// #region logger

// New builds a logger from config without touching the process default.
func New(config Config) *bolt.Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	var handler bolt.Handler
	if config.Format == "json" {
		handler = bolt.NewJSONHandler(output)
	} else {
		handler = bolt.NewConsoleHandler(output)
	}
	return bolt.New(handler).SetLevel(parseLevel(config.Level))
}

// Init replaces the process logger.
func Init(config Config) {
	l := New(config)
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// Get returns the process logger, creating a default one on first use.
func Get() *bolt.Logger {
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

// #endregion

// #region events

// LogEvent lets Field helpers be chained onto a bolt event.
type LogEvent struct {
	event *bolt.Event
}

// NewEvent wraps a bolt event.
func NewEvent(e *bolt.Event) *LogEvent {
	return &LogEvent{event: e}
}

// Add applies a field and returns the wrapper for chaining. Events below the
// logger's level are nil and skip their fields.
func (l *LogEvent) Add(f Field) *LogEvent {
	if l.event != nil {
		l.event = f(l.event)
	}
	return l
}

// Msg sends the event with a message.
func (l *LogEvent) Msg(msg string) {
	if l.event != nil {
		l.event.Msg(msg)
	}
}

func Debug() *LogEvent { return &LogEvent{event: Get().Debug()} }
func Info() *LogEvent  { return &LogEvent{event: Get().Info()} }
func Warn() *LogEvent  { return &LogEvent{event: Get().Warn()} }
func Error() *LogEvent { return &LogEvent{event: Get().Error()} }

// #endregion
