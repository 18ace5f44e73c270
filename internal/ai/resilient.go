package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freedom_case_2/replydraft/internal/metrics"
)

// maxRateLimitWait caps how long a retry waits on a provider's Retry-After.
const maxRateLimitWait = 5 * time.Second

// Resilient bounds every call with a per-attempt timeout and retries a small
// number of times. Cancellation of the parent context stops retrying.
type Resilient struct {
	Capability Capability
	Provider   string
	Timeout    time.Duration
	Retries    int
	Logger     zerolog.Logger
}

func (r Resilient) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if attempt > 0 {
			if err := r.backoff(ctx, lastErr); err != nil {
				return "", err
			}
		}

		text, err := r.attempt(ctx, messages, temperature, maxTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err
		r.Logger.Warn().Err(err).Str("provider", r.Provider).Int("attempt", attempt+1).Msg("generative call failed")
	}
	return "", lastErr
}

func (r Resilient) attempt(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	callCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := r.Capability.Complete(callCtx, messages, temperature, maxTokens)
	metrics.GenerativeRequestDuration.WithLabelValues(r.provider()).Observe(time.Since(start).Seconds())

	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyCompletion
	}
	metrics.GenerativeRequestsTotal.WithLabelValues(r.provider(), status(err)).Inc()
	if err != nil {
		return "", err
	}
	return text, nil
}

func (r Resilient) backoff(ctx context.Context, lastErr error) error {
	wait := 200 * time.Millisecond
	var rl RateLimitError
	if errors.As(lastErr, &rl) && rl.RetryAfter > 0 {
		wait = min(rl.RetryAfter, maxRateLimitWait)
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r Resilient) provider() string {
	if r.Provider == "" {
		return "unknown"
	}
	return r.Provider
}

func status(err error) string {
	var rl RateLimitError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &rl):
		return "rate_limited"
	case errors.Is(err, ErrEmptyCompletion):
		return "empty"
	default:
		return "error"
	}
}
