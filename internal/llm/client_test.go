package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/abhisek/puzzlegen/internal/retry"
)

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return nil
}

func (s *sleepRecorder) total() time.Duration {
	var sum time.Duration
	for _, w := range s.waits {
		sum += w
	}
	return sum
}

type retryCounter struct{ n int }

func (c *retryCounter) ObserveRetry(string) { c.n++ }

func testClient(t *testing.T, mock *MockProvider) (*Client, *sleepRecorder, *retryCounter) {
	t.Helper()
	rec := &sleepRecorder{}
	counter := &retryCounter{}
	policy := RetryConfig{MaxAttempts: 3, BaseDelay: 10 * time.Millisecond, Jitter: 0.5}.Policy()
	policy.Sleep = rec.sleep
	c := NewClient(mock, policy, WithLogger(zaptest.NewLogger(t)), WithRetryObserver(counter))
	return c, rec, counter
}

func TestClient_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: "Cosmic Letters"})
	c, rec, _ := testClient(t, mock)

	text, err := c.Complete(context.Background(), "sys", "Write a title", CompleteOptions{MaxTokens: 64})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Cosmic Letters" {
		t.Fatalf("unexpected text %q", text)
	}
	if mock.CallCount() != 1 || len(rec.waits) != 0 {
		t.Fatalf("expected 1 call and no sleeps, got %d calls, %d sleeps", mock.CallCount(), len(rec.waits))
	}

	req := mock.Calls()[0]
	if req.System != "sys" || len(req.Messages) != 1 || req.Messages[0].Content != "Write a title" || req.MaxTokens != 64 {
		t.Fatalf("request not built from arguments: %+v", req)
	}
}

func TestClient_PassesOptions(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: "{}"})
	c, _, _ := testClient(t, mock)

	if _, err := c.Complete(context.Background(), "", "u", CompleteOptions{Model: "gpt-4o", Temperature: 0.9, JSON: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := mock.Calls()[0]
	if req.Model != "gpt-4o" || req.Temperature != 0.9 || !req.JSON {
		t.Fatalf("options not forwarded: %+v", req)
	}
}

func TestClient_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrRateLimit{}},
		MockResponse{Content: "third time lucky"},
	)
	c, rec, counter := testClient(t, mock)

	text, err := c.Complete(context.Background(), "", "u", CompleteOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "third time lucky" {
		t.Fatalf("unexpected text %q", text)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
	if counter.n != 2 {
		t.Fatalf("expected 2 retries observed, got %d", counter.n)
	}
	if len(rec.waits) != 2 || rec.waits[0] < 10*time.Millisecond || rec.waits[1] < 20*time.Millisecond {
		t.Fatalf("unexpected backoff waits: %v", rec.waits)
	}
}

func TestClient_AllAttemptsFail(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: "never reached"},
	)
	c, rec, _ := testClient(t, mock)

	_, err := c.Complete(context.Background(), "", "u", CompleteOptions{})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T (%v)", err, err)
	}
	if genErr.Attempts != 3 || genErr.Model != "mock" {
		t.Fatalf("unexpected GenerationError: %+v", genErr)
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected cause ErrProviderUnavailable, got %v", genErr.Err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected exactly 3 calls, got %d", mock.CallCount())
	}
	// 10ms + 20ms before jitter.
	if rec.total() < 30*time.Millisecond {
		t.Fatalf("total backoff %s below base*(1+2)", rec.total())
	}
}

func TestClient_ConfigurationErrorNotRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrConfiguration{Provider: "mock", Reason: "credentials rejected"}},
		MockResponse{Content: "never reached"},
	)
	c, _, _ := testClient(t, mock)

	_, err := c.Complete(context.Background(), "", "u", CompleteOptions{})
	var cfgErr *ErrConfiguration
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ErrConfiguration cause, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestClient_EmptyCompletion(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: "  \n\t "},
		MockResponse{Content: "never reached"},
	)
	c, _, _ := testClient(t, mock)

	_, err := c.Complete(context.Background(), "", "u", CompleteOptions{})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestClient_TruncatedEmptyCompletion(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: "", StopReason: "max_tokens"})
	c, _, _ := testClient(t, mock)

	_, err := c.Complete(context.Background(), "", "u", CompleteOptions{MaxTokens: 1})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestClient_RateLimitRespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 5 * time.Second}},
		MockResponse{Content: "ok"},
	)
	c, rec, _ := testClient(t, mock)

	if _, err := c.Complete(context.Background(), "", "u", CompleteOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.waits) != 1 || rec.waits[0] != 5*time.Second {
		t.Fatalf("expected a single 5s wait, got %v", rec.waits)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: "never reached"})
	c, _, _ := testClient(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, "", "u", CompleteOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Fatalf("expected no calls, got %d", mock.CallCount())
	}
}

func TestClient_UserOnRetryHook(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: "ok"},
	)
	var attempts []int
	policy := retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		OnRetry:     func(_ error, attempt int) { attempts = append(attempts, attempt) },
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}
	c := NewClient(mock, policy)

	if _, err := c.Complete(context.Background(), "", "u", CompleteOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempts) != 1 || attempts[0] != 1 {
		t.Fatalf("expected OnRetry(attempt=1), got %v", attempts)
	}
}

func TestClient_ValidateConnection(t *testing.T) {
	up := NewMockProvider(MockResponse{Content: "OK"})
	if !NewClient(up, retry.Policy{}).ValidateConnection(context.Background()) {
		t.Fatal("expected healthy connection")
	}

	down := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: "OK"},
	)
	if NewClient(down, retry.Policy{}).ValidateConnection(context.Background()) {
		t.Fatal("expected failed connection")
	}
	if down.CallCount() != 1 {
		t.Fatalf("health check must not retry, got %d calls", down.CallCount())
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", &ErrRateLimit{}, true},
		{"unavailable", &ErrProviderUnavailable{}, true},
		{"network", errors.New("connection reset by peer"), true},
		{"configuration", &ErrConfiguration{}, false},
		{"max tokens", &ErrMaxTokensExceeded{}, false},
		{"invalid response", &ErrInvalidResponse{Err: errors.New("no choices")}, false},
		{"empty", ErrEmptyCompletion, false},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
	}
	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Errorf("IsTransient(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
