// Package audit writes an append-only JSONL trail of every decision batch
// the service produces, with file rotation and compression via lumberjack.
// The trail is the record of what the assistant told operators to do; it is
// optional and a nil *Trail is a no-op.
package audit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// jsonlHandler is a slog handler that serializes records as flat JSON
// objects, one per line, with a plain timestamp and no level field.
type jsonlHandler struct {
	out io.Writer
}

// Handle implements the slog.Handler interface: serializes a record to JSON
// with the trail's time format. Each record is one JSONL line.
func (h *jsonlHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]interface{})
	attrs["time"] = r.Time.Format("2006-01-02 15:04:05")
	attrs["event"] = r.Message

	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "" && a.Value.Any() != nil {
			attrs[a.Key] = a.Value.Any()
		}
		return true
	})

	data, err := json.Marshal(attrs)
	if err != nil {
		return err
	}

	_, err = h.out.Write(append(data, '\n'))
	return err
}

// WithAttrs is not supported
func (h *jsonlHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	panic("WithAttrs is not supported by jsonlHandler")
}

// WithGroup is not supported
func (h *jsonlHandler) WithGroup(name string) slog.Handler {
	panic("WithGroup is not supported by jsonlHandler")
}

// Enabled always returns true; the trail records everything it is given.
func (h *jsonlHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Trail appends decision records to a rotating JSONL file.
type Trail struct {
	lumberjack *lumberjack.Logger
	logger     *slog.Logger
}

// NewTrail creates a trail writing to file, rotating at maxSize MB and
// keeping maxBackups rotated files (compressed).
func NewTrail(file string, maxSize, maxBackups int) *Trail {
	t := Trail{}
	t.lumberjack = &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	t.logger = slog.New(&jsonlHandler{out: t.lumberjack})
	return &t
}

// Record appends one event with the given attributes. Safe to call on a nil
// Trail (auditing disabled) and from concurrent requests.
func (t *Trail) Record(event string, attrs ...any) {
	if t == nil {
		return
	}
	t.logger.Info(event, attrs...)
}

// Close closes the underlying file. Should be called when shutting down to
// ensure write completion and rotation of the last file. No-op on nil.
func (t *Trail) Close() {
	if t == nil {
		return
	}
	t.lumberjack.Close()
}
