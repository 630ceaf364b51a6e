package models

import (
	"errors"
	"fmt"
)

// Input error codes. Compare with errors.Is.
var (
	ErrInsufficientData       = errors.New("insufficient_data")
	ErrUnsupportedGranularity = errors.New("unsupported_granularity")
	ErrNoFeeds                = errors.New("no_feeds")
)

// InputError reports input the pipeline cannot work with.
// Code is one of the sentinels above; Detail says what was wrong.
type InputError struct {
	Code   error
	Detail string
}

func (e *InputError) Error() string {
	if e.Detail == "" {
		return e.Code.Error()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func (e *InputError) Unwrap() error {
	return e.Code
}

// NewInputError builds an InputError with a formatted detail message
func NewInputError(code error, format string, args ...any) *InputError {
	return &InputError{Code: code, Detail: fmt.Sprintf(format, args...)}
}
