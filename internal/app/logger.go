package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/readrace/internal/config"
	"github.com/heartmarshall/readrace/pkg/ctxutil"
)

// NewLogger builds the process logger from cfg, writing to stderr, and
// installs it as the slog default.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

// newLogger writes JSON for format "json" and source-annotated text
// otherwise. Every record carries the build version, plus request_id and
// user_id when logged with a context that holds them.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	text := !strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level), AddSource: text}

	var base slog.Handler = slog.NewJSONHandler(w, opts)
	if text {
		base = slog.NewTextHandler(w, opts)
	}

	return slog.New(ctxutil.NewLogHandler(base)).With(slog.String("version", Version))
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func parseLevel(s string) slog.Level {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl
	}
	return slog.LevelInfo
}
