package billing

import (
	"errors"
	"fmt"
)

// Engine operation errors. Every mutation is all-or-nothing: when one
// of these is returned the bill is exactly as it was before the call.
var (
	ErrProductNotFound = errors.New("product not found in catalog")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrLineNotFound    = errors.New("line not found in bill")
	ErrBillClosed      = errors.New("bill is closed")

	// Checkout validation errors
	ErrMissingCustomer = errors.New("a customer must be selected for this bill")
	ErrEmptyBill       = errors.New("bill has no items")
	ErrIncompleteLine  = errors.New("bill has an incomplete line")
)

// InsufficientStockError is returned when a requested quantity exceeds
// the stock known for the line's product. The prior quantity is kept.
type InsufficientStockError struct {
	Ref       string
	Stock     int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Ref, e.Requested, e.Stock)
}

// IsInsufficientStock checks if an error is an InsufficientStockError
func IsInsufficientStock(err error) bool {
	var stockErr *InsufficientStockError
	return errors.As(err, &stockErr)
}
