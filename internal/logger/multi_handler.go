package logger

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler duplicates log records across several slog sinks, letting the
// resolver write JSON to stdout and ship the same records to Better Stack
// through a single *slog.Logger.
type MultiHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler builds a MultiHandler over the given sinks. Nil entries
// are dropped, so optional sinks (like the Better Stack handler, present
// only when a token is configured) can be passed unconditionally.
func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	kept := make([]slog.Handler, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &MultiHandler{sinks: kept}
}

// Enabled reports whether at least one sink accepts the level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range m.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle forwards the record to every sink that accepts its level. Each sink
// receives its own clone, since slog permits handlers to retain records.
// Sink errors are collected instead of short-circuiting, so a failing sink
// cannot silence the others.
func (m *MultiHandler) Handle(ctx context.Context, rec slog.Record) error {
	var errs []error
	for _, s := range m.sinks {
		if !s.Enabled(ctx, rec.Level) {
			continue
		}
		if err := s.Handle(ctx, rec.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs applies the attributes to every sink.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.sinks))
	for i, s := range m.sinks {
		next[i] = s.WithAttrs(attrs)
	}
	return &MultiHandler{sinks: next}
}

// WithGroup applies the group name to every sink.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.sinks))
	for i, s := range m.sinks {
		next[i] = s.WithGroup(name)
	}
	return &MultiHandler{sinks: next}
}
