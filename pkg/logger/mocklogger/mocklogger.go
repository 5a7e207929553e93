package mocklogger

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// MockHandler is a slog.Handler that keeps every record for assertions.
type MockHandler struct {
	mu      *sync.Mutex
	records *[]slog.Record
	attrs   []slog.Attr
}

func NewMockHandler() *MockHandler {
	return &MockHandler{
		mu:      &sync.Mutex{},
		records: &[]slog.Record{},
	}
}

// Enabled implements slog.Handler.
func (h *MockHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
func (h *MockHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	r = r.Clone()
	r.AddAttrs(h.attrs...)
	*h.records = append(*h.records, r)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *MockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MockHandler{
		mu:      h.mu,
		records: h.records,
		attrs:   append(slices.Clone(h.attrs), attrs...),
	}
}

// WithGroup implements slog.Handler.
func (h *MockHandler) WithGroup(name string) slog.Handler {
	return h
}

// Messages returns the messages logged at level or above.
func (h *MockHandler) Messages(level slog.Level) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var msgs []string
	for _, r := range *h.records {
		if r.Level >= level {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

// NewMockLogger creates a new logger with the mock handler
func NewMockLogger() *slog.Logger {
	return slog.New(NewMockHandler())
}

// NewMockLoggerWithHandler also returns the handler so tests can inspect
// what was logged.
func NewMockLoggerWithHandler() (*slog.Logger, *MockHandler) {
	h := NewMockHandler()
	return slog.New(h), h
}
