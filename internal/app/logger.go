package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. The pretty text handler is the
// development default; production deployments set LOG_FORMAT=json and
// get source locations for log aggregation.
func NewLogger(cfg *Config) *slog.Logger {
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})
	}
	return slog.New(handler).With(slog.String("service", "bizbook"))
}
