//go:build !llama

package inproc

// This file keeps default builds CGO-free. The real engine lives in
// engine_llama.go (tagged 'llama').

import (
	"errors"

	"llmgate/internal/gateway"
)

// Built reports whether this binary carries the llama.cpp runtime.
const Built = false

var errNotBuilt = errors.New("llama support not built (missing 'llama' build tag)")

type llamaEngine struct{}

// NewEngine returns an engine whose Load always fails as unreachable.
func NewEngine(ctxSize, threads int) Engine { return llamaEngine{} }

func (llamaEngine) Load(string) (Session, error) {
	return nil, &gateway.ConnError{Err: errNotBuilt}
}
