package log

import (
	"context"
	"log/slog"
)

type attrsKey struct{}

func attrsFrom(ctx context.Context) []slog.Attr {
	if v, ok := ctx.Value(attrsKey{}).([]slog.Attr); ok {
		return v
	}
	return nil
}

// ContextWithAttrs returns a context whose attrs are added to every record
// logged with it.
func ContextWithAttrs(ctx context.Context, attr ...slog.Attr) context.Context {
	if len(attr) == 0 {
		return ctx
	}
	prev := attrsFrom(ctx)
	all := make([]slog.Attr, 0, len(prev)+len(attr))
	all = append(all, prev...)
	all = append(all, attr...)
	return context.WithValue(ctx, attrsKey{}, all)
}

type contextLogHandler struct {
	handler slog.Handler
}

// NewContextLogHandler wraps handler so records pick up attrs stored with
// ContextWithAttrs.
func NewContextLogHandler(handler slog.Handler) slog.Handler {
	return &contextLogHandler{handler: handler}
}

func (h *contextLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := attrsFrom(ctx); len(attrs) > 0 {
		r.AddAttrs(attrs...)
	}
	return h.handler.Handle(ctx, r)
}

func (h *contextLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextLogHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *contextLogHandler) WithGroup(name string) slog.Handler {
	return &contextLogHandler{handler: h.handler.WithGroup(name)}
}

func (h *contextLogHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.handler.Enabled(ctx, l)
}
