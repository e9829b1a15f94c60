package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "costing"

var tracer trace.Tracer = otel.Tracer(instrumentationName)

// metrics are the costing instruments exported through the global meter provider.
type metrics struct {
	recipesCosted  metric.Int64Counter
	degradedLines  metric.Int64Counter
	recostPassSize metric.Int64Histogram
}

func newMetrics() *metrics {
	meter := otel.Meter(instrumentationName)
	fallback := noop.NewMeterProvider().Meter(instrumentationName)

	costed, err := meter.Int64Counter("costing.recipes_costed",
		metric.WithDescription("Recipes whose cost was computed"))
	if err != nil {
		costed, _ = fallback.Int64Counter("costing.recipes_costed")
	}
	degraded, err := meter.Int64Counter("costing.degraded_lines",
		metric.WithDescription("Ingredient lines priced without a unit conversion"))
	if err != nil {
		degraded, _ = fallback.Int64Counter("costing.degraded_lines")
	}
	pass, err := meter.Int64Histogram("costing.recost_pass_size",
		metric.WithDescription("Dependent recipes recomputed per recost pass"))
	if err != nil {
		pass, _ = fallback.Int64Histogram("costing.recost_pass_size")
	}
	return &metrics{recipesCosted: costed, degradedLines: degraded, recostPassSize: pass}
}

// costed records one costing run; mode is "snapshot" or "deep".
func (m *metrics) costed(ctx context.Context, mode string, degradedLines int) {
	attrs := metric.WithAttributes(attribute.String("mode", mode))
	m.recipesCosted.Add(ctx, 1, attrs)
	if degradedLines > 0 {
		m.degradedLines.Add(ctx, int64(degradedLines), attrs)
	}
}
