package entities

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors below wrap one of these so callers can match
// with errors.Is regardless of the detail carried.
var (
	ErrValidation               = errors.New("validation failed")
	ErrStateConflict            = errors.New("sale state conflict")
	ErrQuantityLimitExceeded    = errors.New("quantity limit exceeded")
	ErrSaleItemNotFound         = errors.New("sale item not found")
	ErrConcurrentModification   = errors.New("sale was modified concurrently")
	ErrSaleNumberOutcomeUnknown = errors.New("sale number issuance outcome unknown")
	ErrSaleNumberConflict       = errors.New("sale number already in use")
)

var (
	ErrSaleNotOpen       = fmt.Errorf("%w: sale is not open", ErrStateConflict)
	ErrSaleAlreadyVoided = fmt.Errorf("%w: sale is already voided", ErrStateConflict)
	ErrSaleHasNoItems    = fmt.Errorf("%w: sale has no items", ErrStateConflict)
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// QuantityLimitError is returned when a change would push a product's summed
// quantity above MaxQuantityPerProduct.
type QuantityLimitError struct {
	ProductID string
	Current   int
	Attempted int
	Max       int
}

func (e *QuantityLimitError) Error() string {
	return fmt.Sprintf("product %s: quantity limit exceeded (current %d, attempted %d, max %d)",
		e.ProductID, e.Current, e.Attempted, e.Max)
}

func (e *QuantityLimitError) Unwrap() error {
	return ErrQuantityLimitExceeded
}
