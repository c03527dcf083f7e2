package gateway

import (
	"context"
	"sync/atomic"
	"time"
)

// fakeTransport is an in-memory Transport used for tests.
type fakeTransport struct {
	names    []string
	reply    Reply
	err      error
	block    bool   // wait for ctx.Done before returning
	panicMsg string // panic with this value when set
	calls    atomic.Int32
	lastGen  GenerateCall
	lastChat ChatCall
	deadline time.Duration
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) wait(ctx context.Context) error {
	f.calls.Add(1)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if dl, ok := ctx.Deadline(); ok {
		f.deadline = time.Until(dl)
	}
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakeTransport) List(ctx context.Context) ([]string, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.names, nil
}

func (f *fakeTransport) Generate(ctx context.Context, call GenerateCall) (Reply, error) {
	f.lastGen = call
	if err := f.wait(ctx); err != nil {
		return Reply{}, err
	}
	return f.reply, nil
}

func (f *fakeTransport) Chat(ctx context.Context, call ChatCall) (Reply, error) {
	f.lastChat = call
	if err := f.wait(ctx); err != nil {
		return Reply{}, err
	}
	return f.reply, nil
}
