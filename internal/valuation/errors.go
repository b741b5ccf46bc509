package valuation

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when no eligible item is left to fit
	ErrEmptyInput = errors.New("valuation: no eligible items")

	// ErrDegenerateInput is returned when every eligible item shares one ROE
	ErrDegenerateInput = errors.New("valuation: zero ROE variance")
)

// DegenerateInputError carries the shared ROE of a degenerate fit
type DegenerateInputError struct {
	ROE   float64
	Items int
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("%s (roe=%.4g, items=%d)", ErrDegenerateInput.Error(), e.ROE, e.Items)
}

func (e *DegenerateInputError) Unwrap() error {
	return ErrDegenerateInput
}

// Reason maps a fit error to a short label for logs and metrics
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "empty"
	case errors.Is(err, ErrDegenerateInput):
		return "degenerate"
	case errors.Is(err, ErrTooFewItems):
		return "too_few"
	default:
		return "other"
	}
}
