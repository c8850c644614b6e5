package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:        maxRetries,
		BaseDelay:         0.001,
		MaxDelay:          0.01,
		BackoffMultiplier: 2.0,
	}
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	attempts := 0
	result, err := Retry(context.Background(), fastPolicy(3), func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", &ServerError{ProviderError: ProviderError{
				ClientError: ClientError{Message: "overloaded"}, StatusCode: 500, Retryable: true,
			}}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if result != "ok" {
		t.Errorf("unexpected result %q", result)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	_, err := Retry(context.Background(), fastPolicy(3), func(ctx context.Context) (string, error) {
		attempts++
		return "", &AuthenticationError{ProviderError: ProviderError{
			ClientError: ClientError{Message: "bad key"}, StatusCode: 401,
		}}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("non-retryable error should not be retried, got %d attempts", attempts)
	}
}

func TestRetryExhaustsBudget(t *testing.T) {
	attempts := 0
	_, err := Retry(context.Background(), fastPolicy(2), func(ctx context.Context) (int, error) {
		attempts++
		return 0, &RateLimitError{ProviderError: ProviderError{
			ClientError: ClientError{Message: "throttled"}, StatusCode: 429, Retryable: true,
		}}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	// Initial attempt plus two retries.
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryHonorsRetryAfterOverMaxDelay(t *testing.T) {
	after := 120.0 // exceeds MaxDelay
	attempts := 0
	_, err := Retry(context.Background(), fastPolicy(3), func(ctx context.Context) (int, error) {
		attempts++
		return 0, &RateLimitError{ProviderError: ProviderError{
			ClientError: ClientError{Message: "throttled"}, StatusCode: 429,
			Retryable: true, RetryAfter: &after,
		}}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("Retry-After beyond max delay should surface immediately, got %d attempts", attempts)
	}
}

func TestRetryContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := RetryPolicy{MaxRetries: 3, BaseDelay: 10.0, MaxDelay: 60.0, BackoffMultiplier: 2.0}
	_, err := Retry(ctx, policy, func(ctx context.Context) (int, error) {
		return 0, &ServerError{ProviderError: ProviderError{
			ClientError: ClientError{Message: "overloaded"}, StatusCode: 500, Retryable: true,
		}}
	})
	var abort *AbortError
	if !errors.As(err, &abort) {
		t.Errorf("expected AbortError on cancellation, got %T", err)
	}
}

func TestRetryOnRetryCallback(t *testing.T) {
	var notified []int
	policy := fastPolicy(2)
	policy.OnRetry = func(err error, attempt int, delay time.Duration) {
		notified = append(notified, attempt)
	}

	_, _ = Retry(context.Background(), policy, func(ctx context.Context) (int, error) {
		return 0, &ServerError{ProviderError: ProviderError{
			ClientError: ClientError{Message: "overloaded"}, StatusCode: 500, Retryable: true,
		}}
	})
	if len(notified) != 2 || notified[0] != 1 || notified[1] != 2 {
		t.Errorf("unexpected OnRetry notifications: %v", notified)
	}
}

func TestWithRetryMiddleware(t *testing.T) {
	attempts := 0
	adapter := &mockAdapter{name: "openai"}
	failTwice := func(ctx context.Context, req Request, next func(context.Context, Request) (*Response, error)) (*Response, error) {
		attempts++
		if attempts < 3 {
			return nil, &ServerError{ProviderError: ProviderError{
				ClientError: ClientError{Message: "flaky"}, StatusCode: 500, Retryable: true,
			}}
		}
		return next(ctx, req)
	}

	client := NewClient(
		WithProvider("openai", adapter),
		WithMiddleware(WithRetry(fastPolicy(3)), failTwice),
	)

	resp, err := client.Complete(context.Background(), Request{
		Model:    "gpt-4",
		Messages: []Message{UserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("expected retry middleware to recover: %v", err)
	}
	if resp.Text() != "mock response" {
		t.Errorf("unexpected response %q", resp.Text())
	}
}

func TestPolicyDelayBackoff(t *testing.T) {
	policy := RetryPolicy{BaseDelay: 1.0, MaxDelay: 4.0, BackoffMultiplier: 2.0}

	if d := policy.Delay(0); d != time.Second {
		t.Errorf("attempt 0: expected 1s, got %v", d)
	}
	if d := policy.Delay(1); d != 2*time.Second {
		t.Errorf("attempt 1: expected 2s, got %v", d)
	}
	// Capped at MaxDelay.
	if d := policy.Delay(5); d != 4*time.Second {
		t.Errorf("attempt 5: expected 4s cap, got %v", d)
	}
}
