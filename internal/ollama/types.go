package ollama

import "llmgate/pkg/types"

// options carries model parameters; only the ones the gateway sets.
type options struct {
	NumPredict int `json:"num_predict,omitempty"`
}

// generateRequest is the request body for /api/generate.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

// chatRequest is the request body for /api/chat.
type chatRequest struct {
	Model    string                   `json:"model"`
	Messages []types.ConversationTurn `json:"messages"`
	Stream   bool                     `json:"stream"`
	Options  *options                 `json:"options,omitempty"`
}

// counts holds the token counters a backend may report. Ollama reports
// prompt_eval_count/eval_count; compatible servers sometimes use the
// OpenAI-style names instead.
type counts struct {
	PromptEvalCount  int `json:"prompt_eval_count,omitempty"`
	EvalCount        int `json:"eval_count,omitempty"`
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// generateResponse is the non-streaming response from /api/generate.
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	counts
}

// chatResponse is the non-streaming response from /api/chat.
type chatResponse struct {
	Model   string                 `json:"model"`
	Message types.ConversationTurn `json:"message"`
	Done    bool                   `json:"done"`
	counts
}

// listResponse is the response from /api/tags.
type listResponse struct {
	Models []modelInfo `json:"models"`
}

type modelInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Size  int64  `json:"size"`
}
