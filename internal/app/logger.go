package app

import (
	"log/slog"
	"os"
)

// NewLogger returns the application logger. Production keeps the default
// info level and omits source locations; elsewhere debug records and call
// sites are included to ease local tracing.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{}
	if !cfg.IsProduction() {
		opts.AddSource = true
		opts.Level = slog.LevelDebug
	}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
