// Package curtain orders the lifecycle of transient screens so that two
// transitions never overlap on the same controller.
//
// Two controllers are provided. The queue package shows one screen at a time
// and admits requests in FIFO order, handing out typed results when a screen
// closes. The stack package keeps a navigation stack of live screens and can
// pop at any depth. Both talk to a Host, which does the actual loading,
// transition playback, and lifecycle hooks; memhost provides an in-memory one.
//
// This package holds the shared pieces: the Host and Instance contracts,
// result capabilities, the error taxonomy, logging, and configuration.
package curtain

import (
	"log/slog"

	"github.com/BrandonKowalski/curtain/pkg/curtain/constants"
	"github.com/BrandonKowalski/curtain/pkg/curtain/internal"
	"golang.org/x/text/language"
)

// Options configures process-wide curtain behaviour.
type Options struct {
	LogPath  string // Full path for log file including filename (creates parent directories)
	LogLevel string // Application log level name ("debug", "info", "warn", "error")
	Language string // BCP 47 tag for user-facing messages
	Debug    bool   // Enable debug output from the engine's internal logger
}

// Init applies options. Call it once before creating controllers; the log
// path only takes effect before the first logger is used.
func Init(options Options) {
	if options.LogPath != "" {
		internal.SetLogPath(options.LogPath)
	}

	if options.Debug || constants.IsDebugMode() {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else {
		internal.SetInternalLogLevel(slog.LevelError)
	}

	if options.LogLevel != "" {
		internal.SetRawLogLevel(options.LogLevel)
	}

	lang := options.Language
	if lang == "" {
		lang = constants.DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		internal.GetInternalLogger().Warn("Invalid language; using default", "value", lang, "error", err)
		tag = language.English
	}
	internal.SetLanguage(tag)
}

// Close flushes and closes the log file, if one was opened.
func Close() {
	internal.CloseLogger()
}

// SetLogPath sets the full path for the log file, including filename.
// Call before Init() to take effect during initialization.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
