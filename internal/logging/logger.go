package logging

import (
	"io"
	"log/slog"
)

// New creates the application logger writing text records to w.
// Keep w on stderr so optimized output on stdout stays clean.
// The "error" key is renamed to "err".
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// ForFlags picks the logger matching the --debug and --quiet flags.
// Debug wins over quiet.
func ForFlags(w io.Writer, debug, quiet bool) *slog.Logger {
	switch {
	case debug:
		return New(w, slog.LevelDebug)
	case quiet:
		return NewNop()
	default:
		return New(w, slog.LevelWarn)
	}
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
