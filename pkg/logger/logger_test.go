package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func withTracer(t *testing.T) {
	t.Helper()
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
}

// lastEntry decodes the final JSON record in buf.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("decode %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestContextHandler_TraceFields(t *testing.T) {
	withTracer(t)
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")

	log.InfoContext(context.Background(), "no span")
	if e := lastEntry(t, &buf); e["trace_id"] != nil || e["span_id"] != nil {
		t.Errorf("trace fields without a span: %v", e)
	}

	ctx, span := otel.Tracer("test").Start(context.Background(), "recost")
	defer span.End()
	log.ErrorContext(ctx, "recost failed", "error", errors.New("cycle"), "recipe_id", "r-1")

	e := lastEntry(t, &buf)
	if e["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("trace_id = %v, want %s", e["trace_id"], span.SpanContext().TraceID())
	}
	if e["span_id"] != span.SpanContext().SpanID().String() {
		t.Errorf("span_id = %v", e["span_id"])
	}
	if e["recipe_id"] != "r-1" || e["error"] != "cycle" {
		t.Errorf("attrs lost: %v", e)
	}
}

func TestContextHandler_NestedSpansShareTrace(t *testing.T) {
	withTracer(t)
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")
	tracer := otel.Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "update-prices")
	defer parent.End()
	log.InfoContext(ctx, "parent")
	p := lastEntry(t, &buf)

	ctx, child := tracer.Start(ctx, "recost")
	defer child.End()
	log.InfoContext(ctx, "child")
	c := lastEntry(t, &buf)

	if p["trace_id"] != c["trace_id"] {
		t.Errorf("trace ids differ: %v vs %v", p["trace_id"], c["trace_id"])
	}
	if p["span_id"] == c["span_id"] {
		t.Error("parent and child share a span id")
	}
}

func TestContextHandler_RequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	NewWithWriter(&buf, "info").With("component", "api").InfoContext(ctx, "hello")

	e := lastEntry(t, &buf)
	if e["request_id"] != "req-42" || e["component"] != "api" {
		t.Errorf("entry = %v", e)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWithWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info written at warn level: %s", buf.String())
	}
	log.Warn("kept")
	if e := lastEntry(t, &buf); e["msg"] != "kept" {
		t.Errorf("msg = %v, want kept", e["msg"])
	}
}

func TestToSlog_SharesHandler(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "info").With("service", "kitchenledger").ToSlog().Info("via slog")

	if e := lastEntry(t, &buf); e["service"] != "kitchenledger" {
		t.Errorf("bound attrs missing from slog logger: %v", e)
	}
}
