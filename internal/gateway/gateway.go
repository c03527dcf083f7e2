package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"llmgate/pkg/types"
)

// Defaults applied when corresponding Options fields are unset.
const (
	DefaultModel           = "llama2"
	DefaultGenerateTimeout = 120 * time.Second
	DefaultListTimeout     = 30 * time.Second
	DefaultProbeTimeout    = 5 * time.Second
)

const (
	opList     = "list"
	opGenerate = "generate"
	opChat     = "chat"
	opProbe    = "probe"
)

const tracerName = "llmgate/internal/gateway"

// Options configures a Gateway. Zero values select the package defaults.
type Options struct {
	DefaultModel    string
	GenerateTimeout time.Duration
	ListTimeout     time.Duration
	ProbeTimeout    time.Duration
	Logger          *zerolog.Logger
	// TracerProvider defaults to the global provider.
	TracerProvider  trace.TracerProvider
}

// Gateway presents one operation surface over a Transport and classifies
// every failure. It holds only immutable configuration and is safe for
// concurrent use.
type Gateway struct {
	t               Transport
	defaultModel    string
	generateTimeout time.Duration
	listTimeout     time.Duration
	probeTimeout    time.Duration
	log             zerolog.Logger
	tracer          trace.Tracer
}

// New constructs a Gateway over t.
func New(t Transport, opts Options) *Gateway {
	g := &Gateway{
		t:               t,
		defaultModel:    strings.TrimSpace(opts.DefaultModel),
		generateTimeout: opts.GenerateTimeout,
		listTimeout:     opts.ListTimeout,
		probeTimeout:    opts.ProbeTimeout,
		log:             zerolog.Nop(),
	}
	if g.defaultModel == "" {
		g.defaultModel = DefaultModel
	}
	if g.generateTimeout <= 0 {
		g.generateTimeout = DefaultGenerateTimeout
	}
	if g.listTimeout <= 0 {
		g.listTimeout = DefaultListTimeout
	}
	if g.probeTimeout <= 0 {
		g.probeTimeout = DefaultProbeTimeout
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	g.tracer = tp.Tracer(tracerName)
	if opts.Logger != nil {
		g.log = opts.Logger.With().Str("component", "gateway").Str("transport", t.Name()).Logger()
	}
	return g
}

// DefaultModel returns the model used when a request omits one.
func (g *Gateway) DefaultModel() string { return g.defaultModel }

// TransportName returns the name of the configured transport.
func (g *Gateway) TransportName() string { return g.t.Name() }

// ListModels queries the backend for installed models. Order is preserved.
func (g *Gateway) ListModels(ctx context.Context) ([]types.ModelDescriptor, error) {
	var names []string
	err := g.call(ctx, opList, "", g.listTimeout, func(ctx context.Context) error {
		var err error
		names, err = g.t.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]types.ModelDescriptor, 0, len(names))
	for _, n := range names {
		out = append(out, types.ModelDescriptor{Name: n, Label: Label(n)})
	}
	return out, nil
}

// Generate runs a single-turn completion. Prior context, if any, is flattened
// into the prompt.
func (g *Gateway) Generate(ctx context.Context, req types.CompletionRequest) (types.CompletionResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return g.reject(opGenerate, "prompt is required")
	}
	if req.MaxTokens < 0 {
		return g.reject(opGenerate, "max_tokens must not be negative")
	}
	call := GenerateCall{Model: g.model(req.Model), Prompt: req.Prompt, MaxTokens: req.MaxTokens}
	if len(req.Context) > 0 {
		call.Prompt = FlattenPrompt(req.Context, req.Prompt)
	}
	g.noteStream(opGenerate, req)
	var reply Reply
	err := g.call(ctx, opGenerate, call.Model, g.generateTimeout, func(ctx context.Context) error {
		var err error
		reply, err = g.t.Generate(ctx, call)
		return err
	})
	if err != nil {
		return types.CompletionResult{}, err
	}
	return result(call.Model, reply), nil
}

// Chat runs a multi-turn completion, passing turns to the backend unflattened.
func (g *Gateway) Chat(ctx context.Context, req types.CompletionRequest) (types.CompletionResult, error) {
	if len(req.Messages) == 0 {
		return g.reject(opChat, "messages are required")
	}
	turns := make([]types.ConversationTurn, len(req.Messages))
	for i, t := range req.Messages {
		t.Role = strings.ToLower(t.Role)
		switch t.Role {
		case types.RoleUser, types.RoleAssistant, types.RoleSystem:
		default:
			return g.reject(opChat, "messages["+strconv.Itoa(i)+"]: unsupported role \""+req.Messages[i].Role+"\"")
		}
		turns[i] = t
	}
	if req.MaxTokens < 0 {
		return g.reject(opChat, "max_tokens must not be negative")
	}
	call := ChatCall{Model: g.model(req.Model), Turns: turns, MaxTokens: req.MaxTokens}
	g.noteStream(opChat, req)
	var reply Reply
	err := g.call(ctx, opChat, call.Model, g.generateTimeout, func(ctx context.Context) error {
		var err error
		reply, err = g.t.Chat(ctx, call)
		return err
	})
	if err != nil {
		return types.CompletionResult{}, err
	}
	return result(call.Model, reply), nil
}

// CheckAvailability probes the backend with a short list call. It never
// returns an error; failures are folded into the message.
func (g *Gateway) CheckAvailability(ctx context.Context) types.Availability {
	err := g.call(ctx, opProbe, "", g.probeTimeout, func(ctx context.Context) error {
		_, err := g.t.List(ctx)
		return err
	})
	if err == nil {
		return types.Availability{Available: true, Message: g.t.Name() + " backend is available"}
	}
	var ge *Error
	if errors.As(err, &ge) && ge.Kind == KindBackendRejected {
		return types.Availability{Message: "backend is not responding correctly (status " + strconv.Itoa(ge.Status) + ")"}
	}
	return types.Availability{Message: "backend is not available: " + err.Error()}
}

func (g *Gateway) model(m string) string {
	if m = strings.TrimSpace(m); m != "" {
		return m
	}
	return g.defaultModel
}

func (g *Gateway) reject(op, msg string) (types.CompletionResult, error) {
	err := invalid(op, msg)
	observe(op, g.t.Name(), time.Now(), err)
	g.log.Debug().Str("op", op).Err(err).Msg("request rejected")
	return types.CompletionResult{}, err
}

func (g *Gateway) noteStream(op string, req types.CompletionRequest) {
	if req.Stream {
		g.log.Debug().Str("op", op).Msg("stream requested; responding without streaming")
	}
}

// call runs fn under its own deadline and records logs, metrics and a span.
// The deadline is the only thing that ends an outbound call: cancellation of
// ctx is not propagated, though its values (trace parent) are. The returned
// error is always a classified *Error.
func (g *Gateway) call(ctx context.Context, op, model string, timeout time.Duration, fn func(context.Context) error) error {
	callID := uuid.NewString()
	ctx, span := g.tracer.Start(ctx, "gateway."+op, trace.WithAttributes(
		attribute.String("llm.transport", g.t.Name()),
		attribute.String("llm.model", model),
		attribute.String("llm.call_id", callID),
	))
	defer span.End()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	lc := g.log.With().Str("call_id", callID).Str("op", op).Str("model", model)
	if sc := span.SpanContext(); sc.IsValid() {
		lc = lc.Str("trace_id", sc.TraceID().String())
	}
	log := lc.Logger()
	log.Debug().Dur("timeout", timeout).Msg("backend call start")
	start := time.Now()
	err := guard(ctx, op, fn)
	if err != nil {
		ce := classify(op, err)
		observe(op, g.t.Name(), start, ce)
		span.RecordError(ce)
		span.SetStatus(codes.Error, ce.Kind.String())
		log.Warn().Str("kind", ce.Kind.String()).Dur("dur", time.Since(start)).Err(ce).Msg("backend call failed")
		return ce
	}
	observe(op, g.t.Name(), start, nil)
	log.Info().Dur("dur", time.Since(start)).Msg("backend call end")
	return nil
}

// guard runs fn, turning a panic into an Internal failure.
func guard(ctx context.Context, op string, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: KindInternal, Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return fn(ctx)
}

func result(model string, r Reply) types.CompletionResult {
	total := r.TotalTokens
	if total == 0 {
		total = r.PromptTokens + r.CompletionTokens
	}
	return types.CompletionResult{
		Response:         r.Text,
		Model:            model,
		TotalTokens:      total,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
	}
}
