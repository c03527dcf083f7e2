package types

// Turn roles understood by chat-capable backends.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ModelDescriptor identifies an installed model.
type ModelDescriptor struct {
	// Name used for subsequent generate/chat calls. May carry a tag after ':'.
	// example: llama2:latest
	Name string `json:"name" example:"llama2:latest"`
	// Display label: the name with ':' and '@' replaced by spaces.
	// example: llama2 latest
	Label string `json:"label" example:"llama2 latest"`
}

// ModelsResponse wraps the list of models returned by GET /api/ollama/models.
type ModelsResponse struct {
	// Installed models, in backend order.
	Models []ModelDescriptor `json:"models"`
}

// ConversationTurn is one role-tagged message of a conversation.
type ConversationTurn struct {
	// One of user, assistant, system.
	// example: user
	Role string `json:"role" example:"user"`
	// Turn text.
	// example: What is a threat model?
	Content string `json:"content" example:"What is a threat model?"`
}

// CompletionRequest is the payload for both generate and chat calls.
type CompletionRequest struct {
	// Optional model name. If empty, the server default is used.
	// example: llama2
	Model string `json:"model,omitempty" example:"llama2"`
	// Prompt text for generation mode.
	// example: Hello
	Prompt string `json:"prompt,omitempty" example:"Hello"`
	// Ordered turns for chat mode.
	Messages []ConversationTurn `json:"messages,omitempty"`
	// Prior turns for generation mode; flattened into the prompt.
	Context []ConversationTurn `json:"context,omitempty"`
	// Maximum number of tokens to generate (num_predict). 0 leaves the backend default.
	// example: 256
	MaxTokens int `json:"max_tokens,omitempty" example:"256"`
	// Accepted for compatibility; responses are never streamed.
	Stream bool `json:"stream,omitempty"`
}

// CompletionResult is the normalized outcome of a generate or chat call.
type CompletionResult struct {
	// Generated text.
	// example: Hi there
	Response string `json:"response" example:"Hi there"`
	// Model that served the call.
	// example: llama2
	Model string `json:"model" example:"llama2"`
	// Token counters; zero when the backend does not report them.
	TotalTokens      int `json:"total_tokens" example:"0"`
	PromptTokens     int `json:"prompt_tokens" example:"0"`
	CompletionTokens int `json:"completion_tokens" example:"0"`
}

// Availability is returned by GET /api/ollama/available.
type Availability struct {
	// example: true
	Available bool `json:"available" example:"true"`
	// example: http backend is available
	Message string `json:"message" example:"http backend is available"`
}

// HealthResponse is returned by GET /api/ollama/.
type HealthResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
	// example: llmgate API is running
	Message string `json:"message" example:"llmgate API is running"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: prompt is required
	Error string `json:"error" example:"prompt is required"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Failure classification (invalid_request, timeout, unreachable, backend_rejected, internal).
	// example: invalid_request
	Kind string `json:"kind,omitempty" example:"invalid_request"`
}
