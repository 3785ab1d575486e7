package llm

import (
	"errors"
	"fmt"

	"github.com/Aashka19/CodeEcho/pkg/types"
)

// StatusError is a non-200 answer from a backend
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// ParseError means the backend answered but not with a JSON object.
// It is never retried.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", types.ErrParse, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches types.ErrParse
func (e *ParseError) Is(target error) bool { return target == types.ErrParse }

// ExhaustedError wraps the last failure after every attempt was used
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("analysis failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Is matches types.ErrBackendExhausted
func (e *ExhaustedError) Is(target error) bool { return target == types.ErrBackendExhausted }

// retryable reports whether err is a transport or availability failure
func retryable(err error) bool {
	var pe *ParseError
	return !errors.As(err, &pe)
}
