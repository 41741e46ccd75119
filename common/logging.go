package common

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// InitLogger installs a text slog handler as the process default.
func InitLogger(level string, out io.Writer) *slog.Logger {
	if out == nil {
		out = os.Stderr
	}
	lg := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: ParseLevel(level)}))
	slog.SetDefault(lg)
	return lg
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
