package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestNew_DisabledIsNoop(t *testing.T) {
	p, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Enabled() {
		t.Fatalf("disabled config must not start a provider")
	}
	_, span := p.TracerProvider().Tracer("x").Start(context.Background(), "op")
	if span.IsRecording() {
		t.Fatalf("noop provider produced a recording span")
	}
	span.End()
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestNew_EnabledRecordsAndInstallsGlobal(t *testing.T) {
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	defer func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	}()

	p, err := New(context.Background(), Config{Enabled: true, ServiceName: "llmgate-test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Shutdown(context.Background())

	_, span := otel.Tracer("x").Start(context.Background(), "op")
	defer span.End()
	if !span.IsRecording() || !span.SpanContext().IsValid() {
		t.Fatalf("global tracer should record once enabled")
	}
}

func TestSampler(t *testing.T) {
	for _, r := range []float64{0, 1, 2, -1} {
		if got := sampler(r).Description(); !strings.Contains(got, "root:AlwaysOnSampler") {
			t.Fatalf("ratio %v: %s", r, got)
		}
	}
	if got := sampler(0.25).Description(); !strings.Contains(got, "TraceIDRatioBased{0.25}") {
		t.Fatalf("fractional ratio: %s", got)
	}
}

func TestMiddlewareContinuesInboundTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(prev)

	var got trace.SpanContext
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = trace.SpanContextFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" || !got.IsRemote() {
		t.Fatalf("trace context not extracted: %+v", got)
	}
}
