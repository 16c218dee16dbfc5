// Package retry provides a small injectable retry policy for calls to
// rate-limited external APIs (search, LLM). Components receive a Policy
// instead of hand-rolling sleep loops, so backoff arithmetic stays out of
// business logic and tests can run with a zero-delay policy.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy describes how an operation is retried.
type Policy struct {
	MaxAttempts  int           // total attempts, including the first
	InitialDelay time.Duration // delay before the second attempt
	Multiplier   float64       // backoff growth factor per attempt
	MaxDelay     time.Duration // cap on any single delay; 0 means no cap

	// Retryable decides whether an error is worth another attempt.
	// A nil predicate retries every error.
	Retryable func(error) bool
}

// DefaultPolicy mirrors the worker retry settings: three attempts with
// exponential backoff starting at one second.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Multiplier:   2,
	}
}

// Do runs op until it succeeds, the attempts are exhausted, the error is not
// retryable, or ctx is cancelled.
func (p Policy) Do(ctx context.Context, op func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(p.Delay(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := op(ctx); err != nil {
			lastErr = err
			if p.Retryable != nil && !p.Retryable(err) {
				return err
			}
			continue
		}
		return nil
	}

	return fmt.Errorf("retries exhausted after %d attempts: %w", attempts, lastErr)
}

// Delay returns the backoff delay after the given number of completed
// attempts (1 for the delay between the first and second attempt).
func (p Policy) Delay(completed int) time.Duration {
	if completed < 1 || p.InitialDelay <= 0 {
		return p.InitialDelay
	}

	delay := float64(p.InitialDelay)
	mult := p.Multiplier
	if mult <= 0 {
		mult = 1
	}
	for i := 1; i < completed; i++ {
		delay *= mult
	}

	d := time.Duration(delay)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}
