package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"llmgate/internal/gateway"
	"llmgate/pkg/types"
)

func TestCountBackendError_IncrementsCounter(t *testing.T) {
	baseline := testutil.ToFloat64(backendErrorsTotal.WithLabelValues("timeout"))
	countBackendError("timeout")
	countBackendError("timeout")
	if got := testutil.ToFloat64(backendErrorsTotal.WithLabelValues("timeout")); got < baseline+2 {
		t.Fatalf("expected timeout counter >= %v, got %v", baseline+2, got)
	}

	before := testutil.ToFloat64(backendErrorsTotal.WithLabelValues("unspecified"))
	countBackendError("")
	if after := testutil.ToFloat64(backendErrorsTotal.WithLabelValues("unspecified")); after < before+1 {
		t.Fatalf("expected unspecified kind to increment: before=%v after=%v", before, after)
	}
}

func TestMux_CountsFailuresByKindAndRoute(t *testing.T) {
	err := &gateway.Error{Kind: gateway.KindUnreachable, Op: "list", Err: errors.New("refused")}
	kindBefore := testutil.ToFloat64(backendErrorsTotal.WithLabelValues("unreachable"))
	routeBefore := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/ollama/models", http.MethodGet, "502"))
	do(NewMux(&mockService{err: err}), http.MethodGet, "/api/ollama/models", "")
	if got := testutil.ToFloat64(backendErrorsTotal.WithLabelValues("unreachable")); got != kindBefore+1 {
		t.Fatalf("kind counter: got %v, want %v", got, kindBefore+1)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/ollama/models", http.MethodGet, "502")); got != routeBefore+1 {
		t.Fatalf("route counter: got %v, want %v", got, routeBefore+1)
	}
}

func TestMux_LabelsByRoutePattern(t *testing.T) {
	svc := &mockService{result: types.CompletionResult{Response: "ok"}}
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/ollama/chat", http.MethodPost, "200"))
	w := do(NewMux(svc), http.MethodPost, "/api/ollama/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/ollama/chat", http.MethodPost, "200")); got != before+1 {
		t.Fatalf("chat counter: got %v, want %v", got, before+1)
	}

	// rejected before the gateway is called, so no backend error is counted
	invalidBefore := testutil.ToFloat64(backendErrorsTotal.WithLabelValues("invalid_request"))
	rejectBefore := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/ollama/generate", http.MethodPost, "415"))
	req := do(NewMux(svc), http.MethodPost, "/api/ollama/generate", "")
	if req.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", req.Code)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/ollama/generate", http.MethodPost, "415")); got != rejectBefore+1 {
		t.Fatalf("generate 415 counter: got %v, want %v", got, rejectBefore+1)
	}
	if got := testutil.ToFloat64(backendErrorsTotal.WithLabelValues("invalid_request")); got != invalidBefore {
		t.Fatalf("backend error counted for a rejected body: %v -> %v", invalidBefore, got)
	}
}

func TestMetricsEndpoint_ExposesGatewayFamilies(t *testing.T) {
	mux := NewMux(&mockService{result: types.CompletionResult{Response: "ok"}})
	do(mux, http.MethodPost, "/api/ollama/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	w := do(mux, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`llmgate_http_requests_total{method="POST",path="/api/ollama/chat",status="200"}`,
		"llmgate_http_request_duration_seconds_bucket",
		"llmgate_http_inflight_requests",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("/metrics lacks %s", want)
		}
	}
}
