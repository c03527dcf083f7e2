package gateway

import (
	"context"

	"llmgate/pkg/types"
)

// Transport abstracts how the model-serving runtime is reached. Concrete
// implementations (Ollama over HTTP, in-process llama.cpp) must report
// non-success answers as *StatusError and connection failures as *ConnError.
type Transport interface {
	// Name identifies the transport in logs, metrics and availability messages.
	Name() string
	// List returns installed model names in backend order.
	List(ctx context.Context) ([]string, error)
	// Generate runs a single-prompt completion without streaming.
	Generate(ctx context.Context, call GenerateCall) (Reply, error)
	// Chat runs a multi-turn completion without streaming.
	Chat(ctx context.Context, call ChatCall) (Reply, error)
}

// GenerateCall is a resolved single-prompt request.
type GenerateCall struct {
	Model     string
	Prompt    string
	MaxTokens int
}

// ChatCall is a resolved multi-turn request.
type ChatCall struct {
	Model     string
	Turns     []types.ConversationTurn
	MaxTokens int
}

// Reply is the transport-level result. Zero counters mean "not reported".
type Reply struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
