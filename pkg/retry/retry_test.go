package retry_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jobreach-utils/pkg/retry"
)

// zeroDelay keeps tests fast: three attempts, no backoff.
func zeroDelay() retry.Policy {
	return retry.Policy{MaxAttempts: 3}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := zeroDelay().Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := zeroDelay().Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	sentinel := errors.New("still broken")
	err := zeroDelay().Do(context.Background(), func(ctx context.Context) error {
		calls++
		return sentinel
	})
	if err == nil {
		t.Fatal("Do() expected error after exhausting attempts")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("Do() error = %v, want it to wrap the last failure", err)
	}
	if !strings.Contains(err.Error(), "retries exhausted") {
		t.Errorf("Do() error = %v, want retries-exhausted message", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	sentinel := errors.New("bad request")
	policy := retry.Policy{
		MaxAttempts: 5,
		Retryable:   func(err error) bool { return false },
	}
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("Do() error = %v, want the original error unwrapped", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1 for non-retryable error", calls)
	}
}

func TestDo_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	policy := retry.Policy{MaxAttempts: 3, InitialDelay: 10 * time.Millisecond}
	err := policy.Do(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1 before the cancelled wait", calls)
	}
}

func TestDelay_ExponentialBackoff(t *testing.T) {
	policy := retry.Policy{InitialDelay: time.Second, Multiplier: 2}

	cases := []struct {
		completed int
		want      time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
	}
	for _, c := range cases {
		if got := policy.Delay(c.completed); got != c.want {
			t.Errorf("Delay(%d) = %v, want %v", c.completed, got, c.want)
		}
	}
}

func TestDelay_MaxDelayCap(t *testing.T) {
	policy := retry.Policy{InitialDelay: time.Second, Multiplier: 2, MaxDelay: 3 * time.Second}
	if got := policy.Delay(4); got != 3*time.Second {
		t.Errorf("Delay(4) = %v, want cap at 3s", got)
	}
}

func TestDefaultPolicy(t *testing.T) {
	policy := retry.DefaultPolicy()
	if policy.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", policy.MaxAttempts)
	}
	if policy.InitialDelay != time.Second {
		t.Errorf("InitialDelay = %v, want 1s", policy.InitialDelay)
	}
}
