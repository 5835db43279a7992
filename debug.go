package sway

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// logger is the package logger. It discards everything until SetLogger or
// Scene.SetDebugMode installs a real one.
var logger = zerolog.Nop()

// SetLogger replaces the package logger used by effects and the scene.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return logger
}

// NewConsoleLogger returns a human-readable logger writing to w at level.
func NewConsoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}).
		Level(level).
		With().Timestamp().Str("lib", "sway").
		Logger()
}

// ParseLevel maps a config level name to a zerolog level. Unknown names
// select info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(name) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugMode enables or disables debug mode. When enabled, effect state
// transitions are logged to stderr and operations on disposed nodes panic.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if enabled {
		SetLogger(NewConsoleLogger(os.Stderr, zerolog.DebugLevel))
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree or effect operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("sway debug: %s on disposed node %q", op, n.Name))
	}
}
