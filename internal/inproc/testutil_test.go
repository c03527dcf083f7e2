package inproc

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeEngine records loads and serves canned completions.
type fakeEngine struct {
	mu      sync.Mutex
	text    string
	loadErr error
	block   bool
	loaded  []string
	prompts []string
	maxToks []int
	closed  int
}

func (f *fakeEngine) Load(path string) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	f.loaded = append(f.loaded, path)
	return &fakeSession{f: f}, nil
}

type fakeSession struct{ f *fakeEngine }

func (s *fakeSession) Predict(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.f.mu.Lock()
	s.f.prompts = append(s.f.prompts, prompt)
	s.f.maxToks = append(s.f.maxToks, maxTokens)
	block := s.f.block
	s.f.mu.Unlock()
	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.f.text, nil
}

func (s *fakeSession) Close() error {
	s.f.mu.Lock()
	s.f.closed++
	s.f.mu.Unlock()
	return nil
}

func modelsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}
