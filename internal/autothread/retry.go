package autothread

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/user/autothread/internal/types"
)

// RetryPolicy retries a failing call a bounded number of times with a fixed
// pause between attempts. Errors rejected by Retryable end the loop at once.
// A non-zero AttemptTimeout bounds each attempt made through Attempt.
type RetryPolicy struct {
	MaxRetries     int
	Delay          time.Duration
	AttemptTimeout time.Duration
	Retryable      func(error) bool
}

// ClassifierRetryPolicy returns the policy used around the classifier:
// 2 retries (3 attempts) spaced 500ms apart, each attempt capped at 500ms,
// retrying only transient classifier failures.
func ClassifierRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:     2,
		Delay:          500 * time.Millisecond,
		AttemptTimeout: 500 * time.Millisecond,
		Retryable: func(err error) bool {
			return types.IsKind(err, types.KindClassifierTransient)
		},
	}
}

// ShouldRetry returns true if err is retryable under this policy.
func (p *RetryPolicy) ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}

// Execute runs fn until it succeeds, returns a non-retryable error, or the
// retries are used up. Returns nil on success or the last error otherwise.
func (p *RetryPolicy) Execute(ctx context.Context, fn func() error) error {
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(p.MaxRetries)),
		ctx,
	)
	return backoff.Retry(func() error {
		err := fn()
		if err != nil && !p.ShouldRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
}

// Attempt runs fn with a context limited to AttemptTimeout. If the limit
// passes first, Attempt returns without waiting for fn and reports a
// KindClassifierTransient error so the attempt counts as retryable.
func (p *RetryPolicy) Attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.AttemptTimeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(attemptCtx) }()

	select {
	case err := <-done:
		if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return types.E(types.KindClassifierTransient, "attempt", err)
		}
		return err
	case <-attemptCtx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return types.E(types.KindClassifierTransient, "attempt", fmt.Errorf("no result within %s", p.AttemptTimeout))
	}
}
