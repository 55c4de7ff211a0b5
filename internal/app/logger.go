package app

import (
	"log/slog"
	"os"

	"github.com/bissquit/userdesk/internal/config"
)

// newLogger builds the process logger. Unknown levels fall back to info,
// any format other than "text" means JSON.
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
