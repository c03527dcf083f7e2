package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"llmgate/internal/gateway"
)

// DefaultBaseURL is where a local Ollama listens unless configured otherwise.
const DefaultBaseURL = "http://localhost:11434"

// maxErrorBody bounds how much of a non-success body is kept.
const maxErrorBody = 1 << 20

// Client implements gateway.Transport against the Ollama REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client. connectTimeout bounds dialing only; request
// deadlines come from the caller's context.
func New(baseURL string, connectTimeout time.Duration) *Client {
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout=0: every request carries a context deadline from the gateway.
	return NewWithHTTPClient(baseURL, &http.Client{Transport: tr, Timeout: 0})
}

// NewWithHTTPClient constructs a Client over an existing http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// Name implements gateway.Transport.
func (c *Client) Name() string { return "http" }

// BaseURL returns the normalized base address.
func (c *Client) BaseURL() string { return c.baseURL }

// List implements gateway.Transport using GET /api/tags.
func (c *Client) List(ctx context.Context) ([]string, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		n := m.Name
		if n == "" {
			n = m.Model
		}
		names = append(names, n)
	}
	return names, nil
}

// Generate implements gateway.Transport using POST /api/generate.
func (c *Client) Generate(ctx context.Context, call gateway.GenerateCall) (gateway.Reply, error) {
	payload := generateRequest{Model: call.Model, Prompt: call.Prompt, Stream: false, Options: opts(call.MaxTokens)}
	var out generateResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate", payload, &out); err != nil {
		return gateway.Reply{}, err
	}
	return out.counts.reply(out.Response), nil
}

// Chat implements gateway.Transport using POST /api/chat.
func (c *Client) Chat(ctx context.Context, call gateway.ChatCall) (gateway.Reply, error) {
	payload := chatRequest{Model: call.Model, Messages: call.Turns, Stream: false, Options: opts(call.MaxTokens)}
	var out chatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", payload, &out); err != nil {
		return gateway.Reply{}, err
	}
	return out.counts.reply(out.Message.Content), nil
}

func opts(maxTokens int) *options {
	if maxTokens <= 0 {
		return nil
	}
	return &options{NumPredict: maxTokens}
}

func (n counts) reply(text string) gateway.Reply {
	r := gateway.Reply{
		Text:             text,
		PromptTokens:     n.PromptTokens,
		CompletionTokens: n.CompletionTokens,
		TotalTokens:      n.TotalTokens,
	}
	if r.PromptTokens == 0 {
		r.PromptTokens = n.PromptEvalCount
	}
	if r.CompletionTokens == 0 {
		r.CompletionTokens = n.EvalCount
	}
	return r
}

// do performs one JSON exchange. Non-2xx answers become *gateway.StatusError
// with the body kept verbatim; failures to reach the server become
// *gateway.ConnError; deadline expiry surfaces as the context error.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &gateway.ConnError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, rerr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if rerr != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		return &gateway.StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
