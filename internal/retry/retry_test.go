package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func (s *sleepRecorder) total() time.Duration {
	var sum time.Duration
	for _, w := range s.waits {
		sum += w
	}
	return sum
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0

	v, err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Second, Sleep: rec.sleep},
		func(context.Context) (string, error) {
			calls++
			return "ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.waits)
}

func TestDo_FailsTwiceThenSucceeds(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	var retried []int

	p := Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Sleep:       rec.sleep,
		OnRetry:     func(_ error, attempt int) { retried = append(retried, attempt) },
	}

	v, err := Do(context.Background(), p, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.waits)
}

func TestDo_AlwaysFailsReturnsOriginalError(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	boom := errors.New("boom")

	_, err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond, Sleep: rec.sleep},
		func(context.Context) (struct{}, error) {
			calls++
			return struct{}{}, boom
		})

	require.Error(t, err)
	assert.Same(t, boom, err, "final error must not be wrapped")
	assert.Equal(t, 3, calls)
	assert.GreaterOrEqual(t, rec.total(), 100*time.Millisecond*(1+2))
}

func TestDo_JitterNeverShortensWait(t *testing.T) {
	p := Policy{MaxAttempts: 4, BaseDelay: 10 * time.Millisecond, Jitter: 1.0}
	for range 50 {
		var total time.Duration
		for attempt := 1; attempt < p.MaxAttempts; attempt++ {
			w := p.Wait(attempt, nil)
			base := p.BaseDelay << (attempt - 1)
			assert.GreaterOrEqual(t, w, base)
			assert.Less(t, w, 2*base)
			total += w
		}
		assert.GreaterOrEqual(t, total, 10*time.Millisecond*(1+2+4))
	}
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	rec := &sleepRecorder{}
	calls := 0
	fatal := errors.New("fatal")

	p := Policy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		Sleep:       rec.sleep,
		Retryable:   func(err error) bool { return !errors.Is(err, fatal) },
	}

	_, err := Do(context.Background(), p, func(context.Context) (int, error) {
		calls++
		return 0, fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.waits)
}

func TestDo_MinWaitRaisesButNeverLowers(t *testing.T) {
	slow := errors.New("slow down")
	p := Policy{
		BaseDelay: time.Second,
		MinWait: func(err error) time.Duration {
			if errors.Is(err, slow) {
				return 5 * time.Second
			}
			return time.Millisecond
		},
	}

	assert.Equal(t, 5*time.Second, p.Wait(1, slow))
	assert.Equal(t, 2*time.Second, p.Wait(2, errors.New("other")))
}

func TestDo_MaxDelayCaps(t *testing.T) {
	p := Policy{BaseDelay: time.Second, MaxDelay: 3 * time.Second}
	assert.Equal(t, 3*time.Second, p.Wait(5, nil))
}

func TestDo_ContextCancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	p := Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Hour,
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, p, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("down")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_DefaultsApplied(t *testing.T) {
	p := Policy{}.withDefaults()
	assert.Equal(t, DefaultMaxAttempts, p.MaxAttempts)
	assert.Equal(t, DefaultBaseDelay, p.BaseDelay)
	assert.NotNil(t, p.Sleep)

	d := Default()
	assert.Equal(t, 3, d.MaxAttempts)
	assert.Equal(t, time.Second, d.BaseDelay)
}
