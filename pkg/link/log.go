package link

import (
	"encoding/hex"
	"log/slog"
)

// LogWriter is a dry-run sink that logs every frame instead of sending it.
type LogWriter struct {
	log *slog.Logger
}

// NewLogWriter creates a sink logging to l, or slog.Default when l is nil.
func NewLogWriter(l *slog.Logger) *LogWriter {
	if l == nil {
		l = slog.Default()
	}
	return &LogWriter{log: l}
}

// Write logs the frame as hex.
func (w *LogWriter) Write(p []byte) (int, error) {
	w.log.Info("frame", slog.String("hex", hex.EncodeToString(p)), slog.Int("len", len(p)))
	return len(p), nil
}
