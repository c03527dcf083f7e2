package httpapi

import (
	"context"
	"sync/atomic"

	"llmgate/pkg/types"
)

type mockService struct {
	models    []types.ModelDescriptor
	result    types.CompletionResult
	err       error
	available types.Availability
	block     bool // wait for ctx.Done before returning
	calls     atomic.Int32
	last      types.CompletionRequest
}

func (m *mockService) TransportName() string { return "mock" }

func (m *mockService) ListModels(ctx context.Context) ([]types.ModelDescriptor, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return append([]types.ModelDescriptor(nil), m.models...), nil
}

func (m *mockService) Generate(ctx context.Context, req types.CompletionRequest) (types.CompletionResult, error) {
	return m.complete(ctx, req)
}

func (m *mockService) Chat(ctx context.Context, req types.CompletionRequest) (types.CompletionResult, error) {
	return m.complete(ctx, req)
}

func (m *mockService) complete(ctx context.Context, req types.CompletionRequest) (types.CompletionResult, error) {
	m.calls.Add(1)
	m.last = req
	if m.block {
		<-ctx.Done()
		return types.CompletionResult{}, ctx.Err()
	}
	if m.err != nil {
		return types.CompletionResult{}, m.err
	}
	return m.result, nil
}

func (m *mockService) CheckAvailability(ctx context.Context) types.Availability {
	return m.available
}
