package types

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the pipeline and the HTTP layer
var (
	// ErrInvalidInput is a missing or invalid caller parameter (400, no retry)
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable is a failed adapter call; it is logged and absorbed
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNoDataFound means every requested source returned zero items (404)
	ErrNoDataFound = errors.New("no feedback found")

	// ErrBackendExhausted means the AI retry budget ran out (500)
	ErrBackendExhausted = errors.New("analysis backend exhausted retries")

	// ErrParse means the backend did not return structured output (500)
	ErrParse = errors.New("failed to parse analysis response")
)

// InputError carries a user-facing message and matches ErrInvalidInput
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// Is matches ErrInvalidInput
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// InvalidInputf builds an InputError
func InvalidInputf(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}
