// Package inproc runs models inside the gateway process. Models are the
// *.gguf files of a directory, named by file name without extension.
package inproc

import (
	"context"
	"fmt"
	"net/http"

	"llmgate/internal/gateway"
	"llmgate/internal/registry"
)

// Client implements gateway.Transport over a local Engine.
type Client struct {
	modelsDir string
	engine    Engine
}

// New returns a Client serving the models found in modelsDir.
func New(modelsDir string, engine Engine) *Client {
	return &Client{modelsDir: modelsDir, engine: engine}
}

// Name implements gateway.Transport.
func (c *Client) Name() string { return "inprocess" }

// List implements gateway.Transport. A missing or unreadable models
// directory means the backend cannot serve anything and reports as
// unreachable.
func (c *Client) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := registry.LoadDir(c.modelsDir)
	if err != nil {
		return nil, &gateway.ConnError{Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// Generate implements gateway.Transport.
func (c *Client) Generate(ctx context.Context, call gateway.GenerateCall) (gateway.Reply, error) {
	return c.predict(ctx, call.Model, call.Prompt, call.MaxTokens)
}

// Chat implements gateway.Transport.
func (c *Client) Chat(ctx context.Context, call gateway.ChatCall) (gateway.Reply, error) {
	return c.predict(ctx, call.Model, renderChatML(call.Turns), call.MaxTokens)
}

func (c *Client) predict(ctx context.Context, model, prompt string, maxTokens int) (gateway.Reply, error) {
	e, ok, err := registry.Find(c.modelsDir, model)
	if err != nil {
		return gateway.Reply{}, &gateway.ConnError{Err: err}
	}
	if !ok {
		return gateway.Reply{}, &gateway.StatusError{Code: http.StatusNotFound, Body: fmt.Sprintf("model %q not found", model)}
	}
	if err := ctx.Err(); err != nil {
		return gateway.Reply{}, err
	}
	// Load cannot be interrupted; a slow load may outlive the deadline and is
	// only noticed afterwards.
	sess, err := c.engine.Load(e.Path)
	if err != nil {
		return gateway.Reply{}, fmt.Errorf("load %s: %w", e.Name, err)
	}
	defer sess.Close()
	if err := ctx.Err(); err != nil {
		return gateway.Reply{}, err
	}
	text, err := sess.Predict(ctx, prompt, maxTokens)
	if err != nil {
		return gateway.Reply{}, err
	}
	// the runtime does not report token usage
	return gateway.Reply{Text: text}, nil
}
