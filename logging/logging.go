// Package logging configures the process-wide slog logger used by the UI
// server and the reference menu API.
//
// Records are written to stderr as JSON and carry the module name and build
// version. The level comes from the LOG_LEVEL setting; debug output includes
// the source location.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a textual level to slog.Level. Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewStructuredLogger returns a JSON logger writing to w.
func NewStructuredLogger(w io.Writer, module, version, level string) *slog.Logger {
	lvl := ParseLevel(level)
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(h).With("module", module, "version", version)
}

// SetDefaultStructuredLogger installs a stderr JSON logger as the slog default
// and routes the standard library log package through it.
func SetDefaultStructuredLogger(module, version, level string) *slog.Logger {
	logger := NewStructuredLogger(os.Stderr, module, version, level)
	slog.SetDefault(logger)
	return logger
}

// NewLogLogger adapts the default slog logger for APIs that want a *log.Logger,
// such as http.Server.ErrorLog.
func NewLogLogger(level slog.Level) *log.Logger {
	return slog.NewLogLogger(slog.Default().Handler(), level)
}
