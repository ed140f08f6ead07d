package observability

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrorReport describes one failed request for RecordError.
type ErrorReport struct {
	Operation string
	Kind      string // optional error class, e.g. "division_by_zero"
	Message   string
	Err       error
	Status    int
}

// RecordError centralises error handling across all domains: records the error
// on the span, increments the provided error counter, logs with trace context,
// and writes a JSON error HTTP response.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, rep ErrorReport, w http.ResponseWriter) {
	span.RecordError(rep.Err)
	span.SetStatus(codes.Error, rep.Message)

	attrs := []attribute.KeyValue{attribute.String("operation", rep.Operation)}
	if rep.Kind != "" {
		attrs = append(attrs, attribute.String("kind", rep.Kind))
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))

	logger.Error(rep.Message,
		zap.String("operation", rep.Operation),
		zap.String("kind", rep.Kind),
		zap.Error(rep.Err),
		zap.String("request_id", RequestIDFromContext(ctx)),
	)

	body := map[string]string{"error": rep.Message}
	if rep.Kind != "" {
		body["kind"] = rep.Kind
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.Status)
	json.NewEncoder(w).Encode(body)
}
