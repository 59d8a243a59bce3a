// Package logging is a thin zerolog facade shared by the CLI and the
// HTTP server. Packages either log through the package-level helpers
// or take a component-tagged child via Component.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger. Init replaces it wholesale.
var Logger zerolog.Logger

// Level aliases zerolog's level type so callers never import zerolog
// just to configure verbosity.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config controls the global logger.
type Config struct {
	Level Level
	// Output defaults to os.Stderr when nil.
	Output io.Writer
	// Pretty switches from JSON lines to console output.
	Pretty bool
	// TimeFormat defaults to RFC3339 when empty.
	TimeFormat string
}

// DefaultConfig is info-level JSON to stderr.
func DefaultConfig() Config {
	return Config{
		Level:      InfoLevel,
		Output:     os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

// Init replaces the global logger with one built from cfg.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	sink := cfg.Output
	if cfg.Pretty {
		sink = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: cfg.TimeFormat}
	}

	Logger = zerolog.New(sink).Level(cfg.Level).With().Timestamp().Logger()
}

// ParseLevel maps a level name (case-insensitive, WARNING accepted
// alongside WARN) onto a Level. Unrecognized names fall back to info.
func ParseLevel(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Debug starts a debug-level event on the global logger.
func Debug() *zerolog.Event { return Logger.Debug() }

// Info starts an info-level event.
func Info() *zerolog.Event { return Logger.Info() }

// Warn starts a warn-level event.
func Warn() *zerolog.Event { return Logger.Warn() }

// Error starts an error-level event.
func Error() *zerolog.Event { return Logger.Error() }

// Fatal starts a fatal-level event; Msg/Send exit the process.
func Fatal() *zerolog.Event { return Logger.Fatal() }

// With opens a child-logger context on the global logger.
func With() zerolog.Context { return Logger.With() }

// Component returns a child logger tagged with a component name.
// Long-lived subsystems (the watcher, the HTTP server) hold one so
// their lines are attributable without per-call fields.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

func init() {
	Init(DefaultConfig())
}
