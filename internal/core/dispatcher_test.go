package core

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/career-roadmap/ai-gateway/internal/errx"
	"github.com/career-roadmap/ai-gateway/internal/provider"
)

type fakeProvider struct {
	name  string
	calls atomic.Int32
	fn    func(ctx context.Context, call int) (string, error)
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, question string) (string, error) {
	n := int(f.calls.Add(1))
	return f.fn(ctx, n)
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2,
		Jitter:         0.5,
		AttemptTimeout: time.Second,
		Budget:         2 * time.Second,
	}
}

func newTestDispatcher(policy RetryPolicy, providers ...provider.Provider) *Dispatcher {
	return NewDispatcher(provider.NewRegistry(providers...), policy)
}

func TestDispatchRetriesTransientFailures(t *testing.T) {
	p := &fakeProvider{name: provider.Groq, fn: func(_ context.Context, call int) (string, error) {
		if call < 3 {
			return "", errx.Transient(provider.Groq, "upstream returned status 503", nil)
		}
		return "Study distributed systems.", nil
	}}
	d := newTestDispatcher(fastPolicy(), p)

	answer, err := d.Dispatch(context.Background(), "groq", "What should I learn?")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if answer != "Study distributed systems." {
		t.Fatalf("answer: got=%q", answer)
	}
	if got := p.calls.Load(); got != 3 {
		t.Fatalf("calls: want=3 got=%d", got)
	}
}

func TestDispatchStopsAtAttemptCap(t *testing.T) {
	p := &fakeProvider{name: provider.HuggingFace, fn: func(context.Context, int) (string, error) {
		return "", errx.Transient(provider.HuggingFace, "upstream returned status 503", nil)
	}}
	d := newTestDispatcher(fastPolicy(), p)

	_, err := d.Dispatch(context.Background(), "huggingface", "q")
	e, ok := errx.As(err)
	if !ok || e.Kind != errx.KindProvider {
		t.Fatalf("want provider error, got %v", err)
	}
	if e.Engine != provider.HuggingFace {
		t.Fatalf("engine: want=%q got=%q", provider.HuggingFace, e.Engine)
	}
	if got := p.calls.Load(); got != 3 {
		t.Fatalf("calls: want=3 got=%d", got)
	}
}

func TestDispatchDoesNotRetryPermanentFailures(t *testing.T) {
	p := &fakeProvider{name: provider.OpenAI, fn: func(context.Context, int) (string, error) {
		return "", errx.Provider(provider.OpenAI, "upstream returned status 400", nil)
	}}
	d := newTestDispatcher(fastPolicy(), p)

	_, err := d.Dispatch(context.Background(), "openai", "q")
	if !errx.IsKind(err, errx.KindProvider) {
		t.Fatalf("want provider error, got %v", err)
	}
	if got := p.calls.Load(); got != 1 {
		t.Fatalf("calls: want=1 got=%d", got)
	}
}

func TestDispatchBlankAnswerIsMalformed(t *testing.T) {
	p := &fakeProvider{name: provider.Gemini, fn: func(context.Context, int) (string, error) {
		return " \n ", nil
	}}
	d := newTestDispatcher(fastPolicy(), p)

	_, err := d.Dispatch(context.Background(), "gemini", "q")
	e, ok := errx.As(err)
	if !ok || e.Message != "malformed response" {
		t.Fatalf("want malformed response, got %v", err)
	}
	if got := p.calls.Load(); got != 1 {
		t.Fatalf("calls: want=1 got=%d", got)
	}
}

func TestDispatchBudgetExhaustion(t *testing.T) {
	p := &fakeProvider{name: provider.Groq, fn: func(ctx context.Context, _ int) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	policy := fastPolicy()
	policy.Budget = 50 * time.Millisecond
	d := newTestDispatcher(policy, p)

	start := time.Now()
	_, err := d.Dispatch(context.Background(), "groq", "q")
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("dispatch ignored its budget: took %s", elapsed)
	}
	e, ok := errx.As(err)
	if !ok || e.Message != "timed out" {
		t.Fatalf("want timed out provider error, got %v", err)
	}
	if e.Public() != "groq: timed out" {
		t.Fatalf("Public: got=%q", e.Public())
	}
}

func TestDispatchCallerCancellationStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &fakeProvider{name: provider.Groq, fn: func(context.Context, int) (string, error) {
		cancel()
		return "", errx.Transient(provider.Groq, "provider unreachable", errors.New("dial tcp: refused"))
	}}
	policy := fastPolicy()
	policy.InitialBackoff = 200 * time.Millisecond
	policy.MaxBackoff = time.Second
	d := newTestDispatcher(policy, p)

	_, err := d.Dispatch(ctx, "groq", "q")
	if !errx.IsKind(err, errx.KindProvider) {
		t.Fatalf("want provider error, got %v", err)
	}
	if got := p.calls.Load(); got != 1 {
		t.Fatalf("calls after cancel: want=1 got=%d", got)
	}
}

func TestDispatchEngineSelection(t *testing.T) {
	groq := &fakeProvider{name: provider.Groq, fn: func(context.Context, int) (string, error) { return "from groq", nil }}
	d := newTestDispatcher(fastPolicy(), groq)
	ctx := context.Background()

	if answer, err := d.Dispatch(ctx, "  GROQ ", "q"); err != nil || answer != "from groq" {
		t.Fatalf("normalized engine: got=%q,%v", answer, err)
	}

	_, err := d.Dispatch(ctx, "unknown", "hi")
	e, ok := errx.As(err)
	if !ok || e.Kind != errx.KindUnsupportedEngine {
		t.Fatalf("unknown engine: want unsupported, got %v", err)
	}
	if !strings.Contains(e.Public(), "unknown") {
		t.Fatalf("unsupported message should name the engine: %q", e.Public())
	}

	_, err = d.Dispatch(ctx, "huggingface", "hi")
	e, ok = errx.As(err)
	if !ok || e.Kind != errx.KindProvider || e.Public() != "huggingface: engine not configured" {
		t.Fatalf("unconfigured engine: got %v", err)
	}

	answer, err := d.Dispatch(ctx, "fallback", "Tell me about web development")
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if !strings.Contains(answer, "Web Development Career Path") {
		t.Fatalf("fallback answer missing web development block: %.60q", answer)
	}

	if _, err := d.Dispatch(ctx, "groq", "   "); !errx.IsKind(err, errx.KindValidation) {
		t.Fatalf("blank question: want validation, got %v", err)
	}
	if _, err := d.Dispatch(ctx, "", "q"); !errx.IsKind(err, errx.KindValidation) {
		t.Fatalf("blank engine: want validation, got %v", err)
	}
}

func TestEnginesIncludeFallback(t *testing.T) {
	d := newTestDispatcher(fastPolicy(), &fakeProvider{name: provider.Gemini})
	got := strings.Join(d.Engines(), ",")
	if got != "gemini,fallback" {
		t.Fatalf("Engines: want=gemini,fallback got=%s", got)
	}
}
