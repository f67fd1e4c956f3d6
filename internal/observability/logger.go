package observability

import (
	"log/slog"
	"os"

	"github.com/couchcryptid/exoplanet-habitability/internal/config"
)

// NewLogger builds the process logger from config. Format and level fall back
// to JSON at info when the config holds something unexpected, so a bad env var
// never leaves the service without logs.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("service", "exoplanet-habitability")
}
