package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"llmgate/pkg/types"
)

// renamed gives a fake its own label value so series start from zero.
type renamed struct {
	*fakeTransport
	name string
}

func (r renamed) Name() string { return r.name }

func TestCallsTotalByOutcome(t *testing.T) {
	ok := New(renamed{&fakeTransport{reply: Reply{Text: "x"}}, "metrics-ok"}, Options{})
	if _, err := ok.Generate(context.Background(), types.CompletionRequest{Prompt: "p"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := testutil.ToFloat64(callsTotal.WithLabelValues(opGenerate, "metrics-ok", "ok")); got != 1 {
		t.Fatalf("ok outcome: got %v", got)
	}

	slow := New(renamed{&fakeTransport{block: true}, "metrics-slow"}, Options{ListTimeout: 10 * time.Millisecond})
	if _, err := slow.ListModels(context.Background()); !IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if got := testutil.ToFloat64(callsTotal.WithLabelValues(opList, "metrics-slow", "timeout")); got != 1 {
		t.Fatalf("timeout outcome: got %v", got)
	}

	bad := New(renamed{&fakeTransport{}, "metrics-bad"}, Options{})
	if _, err := bad.Chat(context.Background(), types.CompletionRequest{}); !IsInvalidRequest(err) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	if got := testutil.ToFloat64(callsTotal.WithLabelValues(opChat, "metrics-bad", "invalid_request")); got != 1 {
		t.Fatalf("invalid_request outcome: got %v", got)
	}
}

func TestCallDurationSkipsInvalidRequests(t *testing.T) {
	ft := &fakeTransport{reply: Reply{Text: "x"}}
	g := New(renamed{ft, "metrics-duration"}, Options{})

	before := testutil.CollectAndCount(callDuration)
	if _, err := g.Generate(context.Background(), types.CompletionRequest{Prompt: " "}); !IsInvalidRequest(err) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	if got := testutil.CollectAndCount(callDuration); got != before {
		t.Fatalf("rejected request observed a duration: %d series, want %d", got, before)
	}

	if _, err := g.Generate(context.Background(), types.CompletionRequest{Prompt: "p"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := testutil.CollectAndCount(callDuration); got != before+1 {
		t.Fatalf("completed call not observed: %d series, want %d", got, before+1)
	}
}
