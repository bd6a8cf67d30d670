package fatdisk

import (
	"context"
	"log/slog"
)

// slogLevelTrace sits below slog.LevelDebug, for the highest-volume
// per-operation tracing (block reads/writes, chain steps).
const slogLevelTrace = slog.LevelDebug - 2

// logattrs is a no-op when no logger is attached, so tracing has zero cost
// for callers that don't care.
func (img *Image) logattrs(level slog.Level, msg string, attrs ...slog.Attr) {
	if img.log != nil {
		img.log.LogAttrs(context.Background(), level, msg, attrs...)
	}
}

func (img *Image) trace(msg string, attrs ...slog.Attr) {
	img.logattrs(slogLevelTrace, msg, attrs...)
}

func (img *Image) debug(msg string, attrs ...slog.Attr) {
	img.logattrs(slog.LevelDebug, msg, attrs...)
}

func (img *Image) logerror(msg string, attrs ...slog.Attr) {
	img.logattrs(slog.LevelError, msg, attrs...)
}

// SetLogger attaches a structured logger that receives trace-level detail
// for every operation. Passing nil silences logging again.
func (img *Image) SetLogger(log *slog.Logger) {
	img.log = log
}
