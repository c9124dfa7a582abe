package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/logging"
)

const tracerName = "github.com/Hossam-Shehadeh/web-based-jupedsim/internal/httpapi"

// startServerSpan opens a server span for one API request and tags it with
// the route name and the request id from the context, when present.
func startServerSpan(ctx context.Context, route string, r *http.Request) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "API/"+route, trace.WithSpanKind(trace.SpanKindServer))

	attrs := []attribute.KeyValue{
		attribute.String("http.method", r.Method),
		attribute.String("http.route", route),
	}
	if reqID := logging.RequestIDFromContext(ctx); reqID != "" {
		attrs = append(attrs, attribute.String("request_id", reqID))
	}
	span.SetAttributes(attrs...)
	return ctx, span
}

// startSpan opens a child span for work inside a handler.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}
