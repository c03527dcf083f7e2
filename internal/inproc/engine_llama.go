//go:build llama

package inproc

import (
	"context"
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// Built reports whether this binary carries the llama.cpp runtime.
const Built = true

type llamaEngine struct {
	ctxSize int
	threads int
}

// NewEngine returns the llama.cpp engine.
func NewEngine(ctxSize, threads int) Engine {
	return &llamaEngine{ctxSize: ctxSize, threads: threads}
}

type llamaSession struct {
	model   *llama.LLama
	threads int
}

func (a *llamaEngine) Load(path string) (Session, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model path is empty")
	}
	mo := []llama.ModelOption{}
	if a.ctxSize > 0 {
		mo = append(mo, llama.SetContext(a.ctxSize))
	}
	m, err := llama.New(path, mo...)
	if err != nil {
		return nil, err
	}
	return &llamaSession{model: m, threads: a.threads}, nil
}

func (s *llamaSession) Predict(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if s.model == nil {
		return "", errors.New("llama model not initialized")
	}
	// stop generating once the deadline passes
	s.model.SetTokenCallback(func(string) bool {
		return ctx.Err() == nil
	})
	po := []llama.PredictOption{
		llama.SetThreads(max(1, s.threads)),
		llama.SetStopWords(stopWords...),
	}
	if maxTokens > 0 {
		po = append(po, llama.SetTokens(maxTokens))
	}
	text, err := s.model.Predict(prompt, po...)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *llamaSession) Close() error {
	if s.model != nil {
		s.model.Free()
		s.model = nil
	}
	return nil
}
