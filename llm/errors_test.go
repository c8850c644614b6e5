package llm

import (
	"errors"
	"testing"
)

func TestErrorFromStatusCode(t *testing.T) {
	tests := []struct {
		status    int
		wantType  string
		retryable bool
	}{
		{400, "*llm.InvalidRequestError", false},
		{401, "*llm.AuthenticationError", false},
		{403, "*llm.AccessDeniedError", false},
		{404, "*llm.NotFoundError", false},
		{413, "*llm.ContextLengthError", false},
		{422, "*llm.InvalidRequestError", false},
		{429, "*llm.RateLimitError", true},
		{500, "*llm.ServerError", true},
		{503, "*llm.ServerError", true},
	}

	for _, tt := range tests {
		err := ErrorFromStatusCode(tt.status, "boom", "openai", "", nil)
		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		if got := IsRetryable(err); got != tt.retryable {
			t.Errorf("status %d: IsRetryable = %v, want %v", tt.status, got, tt.retryable)
		}
	}
}

func TestErrorFromStatusCodeRetryAfter(t *testing.T) {
	after := 30.0
	err := ErrorFromStatusCode(429, "slow down", "openai", "rate_limited", &after)

	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %T", err)
	}
	if rl.RetryAfter == nil || *rl.RetryAfter != 30.0 {
		t.Errorf("RetryAfter not carried through: %v", rl.RetryAfter)
	}
	if rl.Provider != "openai" || rl.ErrorCode != "rate_limited" {
		t.Errorf("provider metadata lost: %+v", rl)
	}
}

func TestIsRetryableNonProviderErrors(t *testing.T) {
	if !IsRetryable(&NetworkError{ClientError{Message: "conn reset"}}) {
		t.Error("network errors should be retryable")
	}
	if !IsRetryable(&RequestTimeoutError{ClientError{Message: "deadline"}}) {
		t.Error("timeouts should be retryable")
	}
	if IsRetryable(&AbortError{ClientError{Message: "cancelled"}}) {
		t.Error("aborts should not be retryable")
	}
	if IsRetryable(&ConfigurationError{ClientError{Message: "bad config"}}) {
		t.Error("configuration errors should not be retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil should not be retryable")
	}
}

func TestClientErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &ServerError{ProviderError: ProviderError{
		ClientError: ClientError{Message: "upstream failed", Cause: cause},
		Provider:    "openai",
		StatusCode:  500,
	}}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}
