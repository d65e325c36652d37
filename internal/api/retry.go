package api

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/flashdeck/flashdeck/internal/deck"
)

// RetryConfig controls the backoff schedule for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig retries twice more after the initial attempt.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryClient is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryClient struct {
	inner  Client
	config RetryConfig
}

// WithRetry wraps a Client with retry logic.
func WithRetry(c Client, cfg RetryConfig) Client {
	return &RetryClient{inner: c, config: cfg}
}

func (r *RetryClient) Hand(ctx context.Context, deckID string, n int, order Order) ([]deck.Card, error) {
	return retry(ctx, r.config, func() ([]deck.Card, error) {
		return r.inner.Hand(ctx, deckID, n, order)
	})
}

func (r *RetryClient) TOC(ctx context.Context, deckID string) ([]deck.TOCEntry, error) {
	return retry(ctx, r.config, func() ([]deck.TOCEntry, error) {
		return r.inner.TOC(ctx, deckID)
	})
}

// Generate is never retried: the request body is a one-shot reader, and a
// repeated upload could build the same deck twice.
func (r *RetryClient) Generate(ctx context.Context, req GenerateRequest) (*BuildResult, error) {
	return r.inner.Generate(ctx, req)
}

func retry[T any](ctx context.Context, cfg RetryConfig, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := range cfg.MaxAttempts {
		v, err := call()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff(cfg, attempt)):
		}
	}

	return zero, lastErr
}

// shouldRetry determines if an error is retryable.
func shouldRetry(err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Decode failures mean the backend spoke, just not in the expected
	// shape. Repeating the request will not fix that.
	var dec *ErrDecode
	if errors.As(err, &dec) {
		return false
	}

	// 4xx repeats identically; 429 and 5xx are transient.
	var st *ErrStatus
	if errors.As(err, &st) {
		return st.Retryable()
	}

	// Unreachable backend and other network errors are transient.
	return true
}

// backoff computes the wait duration for the given attempt with ±20% jitter.
func backoff(cfg RetryConfig, attempt int) time.Duration {
	wait := float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt))
	if wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
