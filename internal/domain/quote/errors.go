package quote

import (
	"errors"
	"fmt"
)

var (
	ErrNoInput             = errors.New("notes or a photo are required")
	ErrNoStructuredData    = errors.New("no structured data found")
	ErrMalformedOutput     = errors.New("malformed model output")
	ErrNotNumeric          = errors.New("value is not numeric")
	ErrCalculation         = errors.New("calculation error")
	ErrCustomerRequired    = errors.New("customer label is required")
	ErrNotFound            = errors.New("quote not found")
	ErrPersistenceDisabled = errors.New("persistence is not configured")
	ErrStore               = errors.New("quote store failed")
	ErrMissingCredential   = errors.New("model api key is not configured")
	ErrBusy                = errors.New("a generation is already in progress")
	ErrRowOutOfRange       = errors.New("row index out of range")
)

// ParseError carries the raw model response so it can be shown to the user.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CalcError names the first cell that could not be coerced.
type CalcError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *CalcError) Error() string {
	return fmt.Sprintf("row %d: %s %q: %v", e.Row+1, e.Field, e.Value, e.Err)
}

func (e *CalcError) Unwrap() []error {
	return []error{ErrCalculation, e.Err}
}
