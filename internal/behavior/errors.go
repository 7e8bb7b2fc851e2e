package behavior

import (
	"errors"
	"fmt"
)

// ParseExhaustedError indicates every reformat attempt and full re-request
// failed for one decision container. Callers treat this as a per-step
// failure, never a crash.
type ParseExhaustedError struct {
	Container  string
	Retries    int
	FixRetries int
	LastError  string
}

func (e *ParseExhaustedError) Error() string {
	return fmt.Sprintf("failed to parse %s after %d retries and %d fix retries: %s",
		e.Container, e.Retries, e.FixRetries, e.LastError)
}

// IsParseExhausted checks if an error is a ParseExhaustedError.
func IsParseExhausted(err error) bool {
	var parseExhausted *ParseExhaustedError
	return errors.As(err, &parseExhausted)
}
