package services

import (
	"context"
	"fmt"
	"log"
	"time"
)

// RetryPolicy runs an operation up to MaxAttempts times (the first call
// included), pausing Backoff(attempt) after failed attempt number attempt.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	Retryable   func(err error) bool
	Sleep       func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy makes three attempts with 2s and 4s pauses in between.
// Four attempts are needed for a third, 8s pause.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(3, 30*time.Second)
}

func NewRetryPolicy(maxAttempts int, backoffCap time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     ExponentialBackoff(backoffCap),
		Retryable:   IsRetryableLLMError,
		Sleep:       sleepContext,
	}
}

// ExponentialBackoff waits 2^attempt seconds, never more than ceiling.
func ExponentialBackoff(ceiling time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt >= 31 {
			return ceiling
		}
		return min(time.Duration(1<<attempt)*time.Second, ceiling)
	}
}

func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := max(p.MaxAttempts, 1)
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("%w (after %d attempts, last error: %v)", err, attempt-1, lastErr)
			}
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		wait := time.Duration(0)
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		log.Printf("⚠️ Attempt %d/%d failed: %v. Retrying in %s...", attempt, attempts, lastErr, wait)
		if err := sleep(ctx, wait); err != nil {
			return fmt.Errorf("%w (last error: %v)", err, lastErr)
		}
	}

	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
