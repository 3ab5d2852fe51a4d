// Package logging builds the slog loggers used by the godtr binaries
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel converts a configured level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// NewHandler creates a text or json handler writing to w
func NewHandler(level, format string, w io.Writer) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// New creates a logger writing to w
func New(level, format string, w io.Writer) (*slog.Logger, error) {
	h, err := NewHandler(level, format, w)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

// OrDefault returns logger, or slog.Default() when it is nil
func OrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Fanout sends each record to every handler enabled for its level
type Fanout []slog.Handler

func (handlers Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers Fanout) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (handlers Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(Fanout, len(handlers))
	for i, handler := range handlers {
		derived[i] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers Fanout) WithGroup(name string) slog.Handler {
	derived := make(Fanout, len(handlers))
	for i, handler := range handlers {
		derived[i] = handler.WithGroup(name)
	}
	return derived
}

// MessageHandler formats records as single "LEVEL message (key=value)" lines
// and passes them to a sink, such as a message panel in the viewer
type MessageHandler struct {
	level slog.Level
	sink  func(line string)
	attrs []slog.Attr
}

// NewMessageHandler creates a handler for records at level or above
func NewMessageHandler(level slog.Level, sink func(line string)) *MessageHandler {
	return &MessageHandler{level: level, sink: sink}
}

func (h *MessageHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *MessageHandler) Handle(_ context.Context, record slog.Record) error {
	var parts []string
	for _, attr := range h.attrs {
		parts = append(parts, attr.String())
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, attr.String())
		return true
	})

	line := record.Level.String() + " " + record.Message
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	h.sink(line)
	return nil
}

func (h *MessageHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *h
	derived.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &derived
}

// WithGroup is a no-op; messages are flat
func (h *MessageHandler) WithGroup(string) slog.Handler {
	return h
}
