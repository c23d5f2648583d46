package backtest

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every input rejection of a run.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNonPositivePrice guards every division by a price.
	ErrNonPositivePrice = fmt.Errorf("%w: non-positive price", ErrInvalidInput)
)

// InputError describes why a run was rejected. Index is the offending day, or -1.
type InputError struct {
	Field  string
	Index  int
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid %s at day %d: %s", e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

func inputErr(field, reason string) error {
	return &InputError{Field: field, Index: -1, Reason: reason}
}

func dayErr(field string, index int, reason string, err error) error {
	return &InputError{Field: field, Index: index, Reason: reason, Err: err}
}
