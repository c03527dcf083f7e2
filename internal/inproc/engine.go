package inproc

import "context"

// Engine loads model files into runnable sessions.
// The llama.cpp implementation is compiled with -tags=llama; default builds
// carry a stub that refuses to load anything.
type Engine interface {
	// Load opens the model file at path.
	Load(path string) (Session, error)
}

// Session is a loaded model.
type Session interface {
	// Predict completes prompt, producing at most maxTokens tokens when
	// maxTokens > 0. Implementations must return once ctx is done.
	Predict(ctx context.Context, prompt string, maxTokens int) (string, error)
	// Close releases the model.
	Close() error
}
