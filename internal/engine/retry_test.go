package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestRetryWithPolicySucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := RetryWithPolicy(context.Background(), fastPolicy(),
		func(ctx context.Context) (string, error) {
			calls++
			return "ok", nil
		},
		ClassifyOracleError, nil)
	if err != nil {
		t.Fatalf("RetryWithPolicy() error = %v", err)
	}
	if got != "ok" || calls != 1 {
		t.Errorf("got %q after %d calls, want ok after 1", got, calls)
	}
}

func TestRetryWithPolicyNonRetryableFailsFast(t *testing.T) {
	calls := 0
	_, err := RetryWithPolicy(context.Background(), fastPolicy(),
		func(ctx context.Context) (string, error) {
			calls++
			return "", errors.New("401 unauthorized")
		},
		ClassifyOracleError, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("non-retryable error retried %d times, want 1 call", calls)
	}
	if IsRetryExhausted(err) {
		t.Error("non-retryable failure should not be reported as exhaustion")
	}
}

func TestRetryWithPolicyExhaustsRetryable(t *testing.T) {
	calls := 0
	_, err := RetryWithPolicy(context.Background(), fastPolicy(),
		func(ctx context.Context) (string, error) {
			calls++
			return "", errors.New("503 service unavailable")
		},
		ClassifyOracleError, nil)
	if !IsRetryExhausted(err) {
		t.Fatalf("expected RetryExhaustedError, got %v", err)
	}
	// Initial call plus MaxRetries attempts.
	if calls != 4 {
		t.Errorf("got %d calls, want 4", calls)
	}
}

func TestRetryWithPolicyCapsMaybeClass(t *testing.T) {
	calls := 0
	_, err := RetryWithPolicy(context.Background(), fastPolicy(),
		func(ctx context.Context) (string, error) {
			calls++
			return "", errors.New("maximum context length exceeded")
		},
		ClassifyOracleError, nil)
	if !IsRetryExhausted(err) {
		t.Fatalf("expected RetryExhaustedError, got %v", err)
	}
	if calls != 3 {
		t.Errorf("maybe-class error got %d calls, want 3", calls)
	}
	var exhausted *RetryExhaustedError
	if errors.As(err, &exhausted) && !exhausted.IsGuarded {
		t.Error("maybe-class exhaustion should be marked guarded")
	}
}

func TestClassifyOracleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RetryClass
	}{
		{"nil", nil, RetryClassNonRetryable},
		{"rate limit", errors.New("429 too many requests"), RetryClassRetryable},
		{"server error", errors.New("internal server error"), RetryClassRetryable},
		{"timeout", errors.New("request timeout"), RetryClassRetryable},
		{"deadline", errors.New("context deadline exceeded"), RetryClassMaybe},
		{"context overflow", errors.New("maximum context length is 8192"), RetryClassMaybe},
		{"auth", errors.New("401 unauthorized"), RetryClassNonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyOracleError(tt.err); got != tt.want {
				t.Errorf("ClassifyOracleError() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExtractRetryAfterFromTransportError(t *testing.T) {
	err := WrapOracleError(errors.New("429 too many requests"), 429, "7")
	if got := ExtractRetryAfter(err); got != 7*time.Second {
		t.Errorf("ExtractRetryAfter() = %v, want 7s", got)
	}
}
