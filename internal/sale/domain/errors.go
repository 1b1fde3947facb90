package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientStock is returned when a line item requests more units
	// than the product currently has, including when a concurrent sale
	// consumed the remaining stock first.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrSaleNotFound is returned when a sale does not exist
	ErrSaleNotFound = errors.New("sale not found")
)

// ValidationError reports a malformed sale request. It is raised before any
// database interaction, so the caller can correct the input and resubmit.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
