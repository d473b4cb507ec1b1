// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package logging provides structured logging stamped with the service
// identity, OpenTelemetry trace context and the current simulation tick.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

type tickKey struct{}

// WithTick returns a context whose log records carry tick.
func WithTick(ctx context.Context, tick uint64) context.Context {
	return context.WithValue(ctx, tickKey{}, tick)
}

// TickFromContext returns the tick stored by WithTick.
func TickFromContext(ctx context.Context) (uint64, bool) {
	tick, ok := ctx.Value(tickKey{}).(uint64)
	return tick, ok
}

// simHandler wraps a slog.Handler to add service, trace and tick attributes.
type simHandler struct {
	handler slog.Handler
	service string
	version string
}

// Handle stamps r and passes it to the wrapped handler.
func (h *simHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(
		slog.String("service", h.service),
		slog.String("version", h.version),
	)

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		r.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}
	if tick, ok := TickFromContext(ctx); ok {
		r.AddAttrs(slog.Uint64("tick", tick))
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.handler.Handle(ctx, r)
}

func (h *simHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *simHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &simHandler{handler: h.handler.WithAttrs(attrs), service: h.service, version: h.version}
}

func (h *simHandler) WithGroup(name string) slog.Handler {
	return &simHandler{handler: h.handler.WithGroup(name), service: h.service, version: h.version}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup creates a configured slog.Logger.
// format is "json" or "text" (json when empty). level is parsed by
// ParseLevel. If w is nil, writes to os.Stderr.
func Setup(service, version, format, level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var base slog.Handler
	if format == "text" {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	return slog.New(&simHandler{handler: base, service: service, version: version})
}

// SetDefault sets up the default logger writing to stderr.
func SetDefault(service, version, format, level string) {
	slog.SetDefault(Setup(service, version, format, level, nil))
}
