package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy defines retry behavior for the oracle transport.
type RetryPolicy struct {
	MaxRetries   int           // Maximum number of retry attempts (0 = no retries)
	InitialDelay time.Duration // Initial delay before first retry
	MaxDelay     time.Duration // Maximum delay cap
	Multiplier   float64       // Exponential backoff multiplier (e.g., 2.0)
	Jitter       bool          // Whether to add random jitter to delays
}

// DefaultRetryPolicy returns a sensible default transport retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// RetryableFunc is a function that can be retried.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// RetryWithPolicy executes a function with retry logic based on the policy.
// Returns the result on success, or the last error if all retries are exhausted.
func RetryWithPolicy[T any](
	ctx context.Context,
	policy RetryPolicy,
	fn RetryableFunc[T],
	classifyError func(error) RetryClass,
	onRetry func(attempt int, delay time.Duration, err error),
) (T, error) {
	var zero T

	attempt := 0

	for {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		class := classifyError(err)
		if class == RetryClassNonRetryable {
			return zero, err
		}

		if attempt >= policy.MaxRetries {
			return zero, &RetryExhaustedError{Err: err, Attempts: attempt, MaxAttempts: policy.MaxRetries}
		}

		// "maybe" class errors get at most two attempts.
		if class == RetryClassMaybe && attempt >= 2 {
			return zero, &RetryExhaustedError{Err: err, Attempts: attempt, MaxAttempts: 2, IsGuarded: true}
		}

		delay := calculateDelay(policy, attempt, err)

		if onRetry != nil {
			onRetry(attempt+1, delay, err)
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}

		attempt++
	}
}

// calculateDelay computes the delay for a retry attempt.
func calculateDelay(policy RetryPolicy, attempt int, err error) time.Duration {
	// Honor Retry-After when present, capped at MaxDelay.
	retryAfter := ExtractRetryAfter(err)
	if retryAfter > 0 {
		if retryAfter > policy.MaxDelay {
			return policy.MaxDelay
		}
		return retryAfter
	}

	delay := float64(policy.InitialDelay) * math.Pow(policy.Multiplier, float64(attempt))
	if delay > float64(policy.MaxDelay) {
		delay = float64(policy.MaxDelay)
	}

	if policy.Jitter {
		delay += rand.Float64() * 0.2 * delay // 0-20% jitter
	}

	return time.Duration(delay)
}

// RetryOracleCall wraps a chat-completion call with retry logic.
func RetryOracleCall(
	ctx context.Context,
	policy RetryPolicy,
	llm LLMClient,
	model string,
	messages []ChatMessage,
	opts ChatOptions,
	onRetry func(attempt int, delay time.Duration, err error),
) (LLMResponse, error) {
	return RetryWithPolicy(
		ctx,
		policy,
		func(ctx context.Context) (LLMResponse, error) {
			return llm.Chat(ctx, model, messages, opts)
		},
		ClassifyOracleError,
		onRetry,
	)
}
