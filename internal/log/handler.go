package log

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/identity"
	"github.com/tuanvumaihuynh/inventory-keeper/pkg/correlationid"
)

// Attribute keys added from the record context.
const (
	CorrelationIDKey = "correlation_id"
	CallerKey        = "caller_uid"
	TraceIDKey       = "trace_id"
	SpanIDKey        = "span_id"
)

var _ slog.Handler = (*enrichedHandler)(nil)

// enrichedHandler adds request scoped values found in the record context.
// On a grouped logger they land inside the innermost group.
type enrichedHandler struct {
	h slog.Handler
}

func newEnrichedHandler(h slog.Handler) enrichedHandler {
	return enrichedHandler{h: h}
}

func (eh enrichedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return eh.h.Enabled(ctx, level)
}

func (eh enrichedHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(contextAttrs(ctx)...)
	return eh.h.Handle(ctx, r)
}

func (eh enrichedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newEnrichedHandler(eh.h.WithAttrs(attrs))
}

func (eh enrichedHandler) WithGroup(name string) slog.Handler {
	return newEnrichedHandler(eh.h.WithGroup(name))
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	if correlationID, ok := correlationid.FromContext(ctx); ok {
		attrs = append(attrs, slog.String(CorrelationIDKey, correlationID))
	}

	if uid, ok := identity.FromContext(ctx); ok {
		attrs = append(attrs, slog.String(CallerKey, uid))
	}

	if spanCtx := trace.SpanFromContext(ctx).SpanContext(); spanCtx.IsValid() {
		attrs = append(attrs,
			slog.String(TraceIDKey, spanCtx.TraceID().String()),
			slog.String(SpanIDKey, spanCtx.SpanID().String()),
		)
	}

	return attrs
}
