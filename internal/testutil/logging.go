package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// LogEntry is a captured log record.
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// RecordingHandler is a slog.Handler that keeps every record in memory.
type RecordingHandler struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewRecordingLogger returns a logger backed by a RecordingHandler.
func NewRecordingLogger() (*slog.Logger, *RecordingHandler) {
	h := &RecordingHandler{}
	return slog.New(h), h
}

// Enabled implements slog.Handler.
func (h *RecordingHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *RecordingHandler) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]any),
	}
	r.Attrs(func(a slog.Attr) bool {
		entry.Attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *RecordingHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

// WithGroup implements slog.Handler.
func (h *RecordingHandler) WithGroup(string) slog.Handler {
	return h
}

// Entries returns a copy of the captured records.
func (h *RecordingHandler) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]LogEntry(nil), h.entries...)
}

// Find returns the first record with the given message.
func (h *RecordingHandler) Find(message string) (LogEntry, bool) {
	for _, e := range h.Entries() {
		if e.Message == message {
			return e, true
		}
	}
	return LogEntry{}, false
}
