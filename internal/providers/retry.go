package providers

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"

	"github.com/emandor/econoguide_service/internal/telemetry"
)

type RetryConfig struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	// AttemptTimeout bounds each attempt; zero leaves only the caller's deadline.
	AttemptTimeout time.Duration
	InitialWait    time.Duration
	MaxWait        time.Duration
	Multiplier     float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     2,
		AttemptTimeout: 60 * time.Second,
		InitialWait:    500 * time.Millisecond,
		MaxWait:        5 * time.Second,
		Multiplier:     2.0,
	}
}

type retrying struct {
	inner Client
	cfg   RetryConfig
}

// WithRetry retries transient model failures with exponential backoff and
// jitter. An empty response is retried at most once.
func WithRetry(c Client, cfg RetryConfig) Client {
	return &retrying{inner: c, cfg: cfg}
}

func (r *retrying) Name() SourceName { return r.inner.Name() }

func (r *retrying) Complete(ctx context.Context, req Request) (string, error) {
	log := telemetry.L().With().Str("provider", string(r.Name())).Str("purpose", string(req.Purpose)).Logger()

	var lastErr error
	emptyRetried := false
	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		text, err := r.attempt(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		// the caller is gone or out of time
		if ctx.Err() != nil {
			return "", lastErr
		}
		if !shouldRetry(err, &emptyRetried) || attempt == r.cfg.MaxRetries {
			break
		}

		wait := r.backoff(attempt)
		log.Warn().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("model_retry")
		select {
		case <-ctx.Done():
			return "", lastErr
		case <-time.After(wait):
		}
	}
	return "", lastErr
}

func (r *retrying) attempt(ctx context.Context, req Request) (string, error) {
	if r.cfg.AttemptTimeout <= 0 {
		return r.inner.Complete(ctx, req)
	}
	actx, cancel := context.WithTimeout(ctx, r.cfg.AttemptTimeout)
	defer cancel()
	return r.inner.Complete(actx, req)
}

func shouldRetry(err error, emptyRetried *bool) bool {
	var empty *EmptyResponse
	if errors.As(err, &empty) {
		if *emptyRetried {
			return false
		}
		*emptyRetried = true
		return true
	}
	var un *ModelUnavailable
	if errors.As(err, &un) {
		return un.Retryable()
	}
	return false
}

func (r *retrying) backoff(attempt int) time.Duration {
	mult := r.cfg.Multiplier
	if mult <= 0 {
		mult = 2
	}
	wait := float64(r.cfg.InitialWait) * math.Pow(mult, float64(attempt))
	if r.cfg.MaxWait > 0 && wait > float64(r.cfg.MaxWait) {
		wait = float64(r.cfg.MaxWait)
	}
	// ±20% jitter
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

type paced struct {
	inner   Client
	limiter *rate.Limiter
}

// WithPacing spaces outbound calls to at most rps per second. A non-positive
// rps returns c unchanged.
func WithPacing(c Client, rps float64, burst int) Client {
	if rps <= 0 {
		return c
	}
	if burst <= 0 {
		burst = 1
	}
	return &paced{inner: c, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (p *paced) Name() SourceName { return p.inner.Name() }

func (p *paced) Complete(ctx context.Context, req Request) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", &ModelUnavailable{Source: p.Name(), Timeout: true, Err: err}
	}
	return p.inner.Complete(ctx, req)
}
