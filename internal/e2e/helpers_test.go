package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"llmgate/internal/gateway"
	"llmgate/internal/httpapi"
	"llmgate/internal/ollama"
)

// newStack starts a fake Ollama with h and the full gateway API in front of
// it, returning the API server.
func newStack(t *testing.T, h http.HandlerFunc, opts gateway.Options) *httptest.Server {
	t.Helper()
	backend := httptest.NewServer(h)
	t.Cleanup(backend.Close)
	return newAPI(t, backend.URL, opts)
}

func newAPI(t *testing.T, baseURL string, opts gateway.Options) *httptest.Server {
	t.Helper()
	gw := gateway.New(ollama.New(baseURL, time.Second), opts)
	api := httptest.NewServer(httpapi.NewMux(gw))
	t.Cleanup(api.Close)
	return api
}

func get(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	decode(t, resp.Body, out)
	return resp.StatusCode
}

func post(t *testing.T, url, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	decode(t, resp.Body, out)
	return resp.StatusCode
}

func decode(t *testing.T, r io.Reader, out any) {
	t.Helper()
	if out == nil {
		_, _ = io.Copy(io.Discard, r)
		return
	}
	if err := json.NewDecoder(r).Decode(out); err != nil {
		t.Fatalf("decode: %v", err)
	}
}
