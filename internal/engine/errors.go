// Package engine provides the plumbing shared by the agent core.
// This file contains error classification for the oracle transport.

package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RetryClass indicates whether an error should be retried.
type RetryClass string

const (
	RetryClassRetryable    RetryClass = "retryable"     // Definitely retry
	RetryClassMaybe        RetryClass = "maybe"         // Retry with caution (limited attempts)
	RetryClassNonRetryable RetryClass = "non_retryable" // Never retry
)

// TransportError wraps oracle transport errors with classification metadata.
type TransportError struct {
	Err         error
	Class       RetryClass
	HTTPStatus  int    // HTTP status code if applicable
	RetryAfter  string // Retry-After header value if present
	IsRateLimit bool
	IsAuth      bool
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("transport error: %s", e.Class)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ClassifyOracleError classifies an error from a chat-completion call.
func ClassifyOracleError(err error) RetryClass {
	if err == nil {
		return RetryClassNonRetryable
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Class
	}

	errStr := strings.ToLower(err.Error())

	// Rate limit errors (429) - retryable, respect Retry-After.
	if strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") {
		return RetryClassRetryable
	}

	// Server errors (5xx) - retryable.
	if strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "gateway timeout") {
		return RetryClassRetryable
	}

	// Network/timeout errors - retryable.
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "temporary failure") {
		return RetryClassRetryable
	}

	// Context deadline exceeded - maybe (limited retries).
	if strings.Contains(errStr, "deadline exceeded") {
		return RetryClassMaybe
	}

	// Context overflow - maybe (the next planning round shrinks the prompt).
	if strings.Contains(errStr, "context length") ||
		strings.Contains(errStr, "token limit") ||
		strings.Contains(errStr, "maximum context length") {
		return RetryClassMaybe
	}

	// Authentication (401, 403), bad request (400), quota (402),
	// safety refusals - non-retryable.
	return RetryClassNonRetryable
}

// ExtractRetryAfter extracts the Retry-After header value from an error.
// Returns 0 if not found or invalid.
func ExtractRetryAfter(err error) time.Duration {
	var transportErr *TransportError
	if errors.As(err, &transportErr) && transportErr.RetryAfter != "" {
		var seconds int
		if _, err := fmt.Sscanf(transportErr.RetryAfter, "%d", &seconds); err == nil {
			return time.Duration(seconds) * time.Second
		}
		if t, err := time.Parse(time.RFC1123, transportErr.RetryAfter); err == nil {
			now := time.Now()
			if t.After(now) {
				return t.Sub(now)
			}
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "retry after") {
		var seconds int
		if _, err := fmt.Sscanf(errStr, "retry after %d", &seconds); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	return 0
}

// WrapOracleError wraps a transport error with classification metadata.
func WrapOracleError(err error, httpStatus int, retryAfter string) error {
	if err == nil {
		return nil
	}

	return &TransportError{
		Err:         err,
		Class:       ClassifyOracleError(err),
		HTTPStatus:  httpStatus,
		RetryAfter:  retryAfter,
		IsRateLimit: httpStatus == http.StatusTooManyRequests,
		IsAuth:      httpStatus == http.StatusUnauthorized || httpStatus == http.StatusForbidden,
	}
}

// RetryExhaustedError indicates that all retry attempts have been exhausted.
type RetryExhaustedError struct {
	Err         error
	Attempts    int
	MaxAttempts int
	IsGuarded   bool // True if this was a "maybe" class error with limited retries
}

func (e *RetryExhaustedError) Error() string {
	if e.IsGuarded {
		return fmt.Sprintf("guarded retries exhausted after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// IsRetryExhausted checks if an error is a RetryExhaustedError.
func IsRetryExhausted(err error) bool {
	var retryExhausted *RetryExhaustedError
	return errors.As(err, &retryExhausted)
}
