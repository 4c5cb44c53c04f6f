package contract

import (
	"io"
	"log/slog"
	"os"
)

// SetupLogging configures the default slog logger based on verbosity flags.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
//
// Output is written to stderr using slog.TextHandler.
func SetupLogging(verbose, quiet bool) {
	slog.SetDefault(NewLogger(os.Stderr, verbose, quiet))
}

// NewLogger builds the text logger used by SetupLogging on any writer.
func NewLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	var level slog.Level
	switch {
	case quiet:
		level = slog.LevelWarn
	case verbose:
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}
