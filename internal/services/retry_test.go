package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedSleeps struct {
	delays []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func testPolicy(maxAttempts int, rec *recordedSleeps) RetryPolicy {
	p := NewRetryPolicy(maxAttempts, 30*time.Second)
	p.Sleep = rec.sleep
	return p
}

func TestRetryPolicy_SucceedsAfterTransientFailures(t *testing.T) {
	rec := &recordedSleeps{}
	calls := 0

	err := testPolicy(3, rec).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return &LLMError{Kind: LLMErrorRateLimited, StatusCode: 429}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.delays)
}

func TestRetryPolicy_SurfacesLastErrorWhenExhausted(t *testing.T) {
	rec := &recordedSleeps{}
	calls := 0

	err := testPolicy(4, rec).Do(context.Background(), func(context.Context) error {
		calls++
		return &LLMError{Kind: LLMErrorServer, StatusCode: 503 + calls}
	})

	var llmErr *LLMError
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, 507, llmErr.StatusCode)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, rec.delays)
}

func TestRetryPolicy_AuthIsNeverRetried(t *testing.T) {
	rec := &recordedSleeps{}
	calls := 0

	err := testPolicy(3, rec).Do(context.Background(), func(context.Context) error {
		calls++
		return &LLMError{Kind: LLMErrorAuth, StatusCode: 401}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestRetryPolicy_GenericErrorsAreRetried(t *testing.T) {
	rec := &recordedSleeps{}
	calls := 0

	err := testPolicy(2, rec).Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("decode failure")
	})

	require.EqualError(t, err, "decode failure")
	assert.Equal(t, 2, calls)
}

func TestRetryPolicy_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	p := NewRetryPolicy(3, 30*time.Second)
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	err := p.Do(ctx, func(context.Context) error {
		calls++
		return &LLMError{Kind: LLMErrorNetwork}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestExponentialBackoff_Cap(t *testing.T) {
	backoff := ExponentialBackoff(30 * time.Second)

	assert.Equal(t, 2*time.Second, backoff(1))
	assert.Equal(t, 16*time.Second, backoff(4))
	assert.Equal(t, 30*time.Second, backoff(5))
	assert.Equal(t, 30*time.Second, backoff(40))
}
