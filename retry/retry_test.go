package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleep captures delays without waiting.
type recordingSleep struct {
	delays []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func TestDo_Success(t *testing.T) {
	rec := &recordingSleep{}
	attempts := 0

	err := Do(context.Background(), Policy{MaxAttempts: 3, Sleep: rec.sleep}, func(ctx context.Context) error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts, "should succeed on first try")
	assert.Empty(t, rec.delays)
}

func TestDo_EventualSuccess(t *testing.T) {
	rec := &recordingSleep{}
	attempts := 0

	err := Do(context.Background(), Policy{
		MaxAttempts: 3,
		Backoff:     Exponential(1, 2, 10, time.Second),
		Sleep:       rec.sleep,
	}, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, rec.delays)
}

func TestDo_Exhausted(t *testing.T) {
	rec := &recordingSleep{}
	attempts := 0
	expectedErr := errors.New("persistent error")

	err := Do(context.Background(), Policy{
		MaxAttempts: 3,
		Backoff:     Exponential(1, 2, 10, time.Second),
		Sleep:       rec.sleep,
	}, func(ctx context.Context) error {
		attempts++
		return expectedErr
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 3, attempts, "should attempt exactly maxAttempts times")
	assert.Len(t, rec.delays, 2, "no sleep after the last attempt")
}

func TestDo_NotRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	attempts := 0

	err := Do(context.Background(), Policy{
		MaxAttempts: 5,
		Retryable:   func(err error) bool { return !errors.Is(err, fatal) },
		Sleep:       (&recordingSleep{}).sleep,
	}, func(ctx context.Context) error {
		attempts++
		return fatal
	})
	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_InvalidMaxAttempts(t *testing.T) {
	err := Do(context.Background(), Policy{}, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := Do(ctx, Policy{MaxAttempts: 10, Sleep: (&recordingSleep{}).sleep}, func(ctx context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("error")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts, "should stop when context is canceled")
}

func TestDo_OnRetry(t *testing.T) {
	var seen []int
	boom := errors.New("boom")

	_ = Do(context.Background(), Policy{
		MaxAttempts: 3,
		Backoff:     Exponential(1, 2, 10, time.Second),
		Sleep:       (&recordingSleep{}).sleep,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, 2*time.Second, delay)
			seen = append(seen, attempt)
		},
	}, func(ctx context.Context) error { return boom })

	assert.Equal(t, []int{1, 2}, seen)
}

func TestDoValue(t *testing.T) {
	calls := 0
	v, err := DoValue(context.Background(), Policy{MaxAttempts: 2, Sleep: (&recordingSleep{}).sleep},
		func(ctx context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("first")
			}
			return "ok", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestExponential(t *testing.T) {
	backoff := Exponential(1, 2, 10, time.Second)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 2 * time.Second},
		{1, 2 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
		{10, 10 * time.Second},
	}
	for _, tt := range tests {
		got := backoff(tt.attempt)
		assert.Equal(t, tt.want, got, "attempt %d", tt.attempt)
		assert.GreaterOrEqual(t, got, 2*time.Second)
		assert.LessOrEqual(t, got, 10*time.Second)
	}
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))
	assert.NoError(t, SleepContext(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := SleepContext(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
