package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/career-roadmap/ai-gateway/internal/config"
	"github.com/career-roadmap/ai-gateway/internal/errx"
	"github.com/career-roadmap/ai-gateway/internal/logx"
	"github.com/career-roadmap/ai-gateway/internal/provider"
)

// RetryPolicy bounds how long one dispatch may keep a provider busy.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
	Jitter         float64
	AttemptTimeout time.Duration
	Budget         time.Duration
}

func RetryPolicyFromConfig(cfg config.DispatchConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    cfg.MaxAttempts,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Multiplier:     2,
		Jitter:         0.5,
		AttemptTimeout: cfg.AttemptTimeout,
		Budget:         cfg.Budget,
	}
}

func (p RetryPolicy) backOff() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = p.InitialBackoff
	expo.MaxInterval = p.MaxBackoff
	expo.Multiplier = p.Multiplier
	expo.RandomizationFactor = p.Jitter
	expo.MaxElapsedTime = p.Budget
	expo.Reset()
	return expo
}

type Dispatcher struct {
	registry *provider.Registry
	policy   RetryPolicy
}

func NewDispatcher(registry *provider.Registry, policy RetryPolicy) *Dispatcher {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Multiplier < 1 {
		policy.Multiplier = 2
	}
	return &Dispatcher{registry: registry, policy: policy}
}

// Engines lists the engines that can answer right now, fallback included.
func (d *Dispatcher) Engines() []string {
	return append(d.registry.Names(), provider.Fallback)
}

// Dispatch answers question with the named engine. The fallback engine is only used
// when asked for by name; a known engine without credentials is an error.
func (d *Dispatcher) Dispatch(ctx context.Context, engine, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errx.Validation("question is required")
	}
	name := provider.Normalize(engine)
	if name == "" {
		return "", errx.Validation("engine is required")
	}
	if !provider.IsKnown(name) {
		return "", errx.UnsupportedEngine(strings.TrimSpace(engine))
	}
	if name == provider.Fallback {
		return FallbackGuidance(question), nil
	}

	p, ok := d.registry.Lookup(name)
	if !ok {
		return "", errx.NotConfigured(name)
	}
	return d.generate(ctx, p, question)
}

func (d *Dispatcher) generate(ctx context.Context, p provider.Provider, question string) (string, error) {
	engine := p.Name()
	log := logx.Ctx(ctx).With().Str(logx.FieldEngine, engine).Logger()

	ctx, cancel := context.WithTimeout(ctx, d.policy.Budget)
	defer cancel()

	bo := backoff.WithContext(
		backoff.WithMaxRetries(d.policy.backOff(), uint64(d.policy.MaxAttempts-1)),
		ctx,
	)

	var answer string
	attempt := 0
	op := func() error {
		attempt++
		attemptCtx, cancelAttempt := context.WithTimeout(ctx, d.policy.AttemptTimeout)
		defer cancelAttempt()

		text, err := p.Generate(attemptCtx, question)
		if err != nil {
			if errx.IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if strings.TrimSpace(text) == "" {
			return backoff.Permanent(errx.Provider(engine, "malformed response", errors.New("blank answer")))
		}
		answer = text
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("provider call failed, retrying")
	}

	start := time.Now()
	if err := backoff.RetryNotify(op, bo, notify); err != nil {
		final := terminalError(engine, err)
		log.Error().Err(err).Int("attempts", attempt).Dur("elapsed", time.Since(start)).Msg("provider call failed")
		return "", final
	}
	log.Debug().Int("attempts", attempt).Dur("elapsed", time.Since(start)).Msg("provider answered")
	return answer, nil
}

// terminalError makes sure whatever stopped the retry loop reaches the caller as a
// provider error for engine.
func terminalError(engine string, err error) error {
	if e, ok := errx.As(err); ok {
		return e
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errx.Provider(engine, "timed out", err)
	case errors.Is(err, context.Canceled):
		return errx.Provider(engine, "request canceled", err)
	default:
		return errx.Provider(engine, "request failed", err)
	}
}
