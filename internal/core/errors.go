package core

import (
	"errors"
	"fmt"
)

// Validation errors: rejected before any mutation.
var (
	ErrEmptySale       = errors.New("sale must have at least one line")
	ErrInvalidDiscount = errors.New("discount percentage must be between 0 and 100")
	ErrMissingReason   = errors.New("void reason is required")
	ErrInvalidLine     = errors.New("invalid sale line")
	ErrInvalidPayment  = errors.New("invalid payment details")
	ErrInvalidCustomer = errors.New("invalid customer")
	ErrInvalidItem     = errors.New("invalid inventory item")
)

// State errors: rejected with no side effects.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyVoided     = errors.New("sale is already voided")
	ErrInvalidTransition = errors.New("invalid payment status transition")
	ErrAlreadyReleased   = errors.New("stock already returned for this sale")
)

// Resource and contention errors.
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("transaction conflict, retry the request")
)

// StockError names the item that could not cover a reservation.
type StockError struct {
	ItemID    int
	ItemType  string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: item %d (%s) has %d available, %d requested",
		ErrInsufficientStock.Error(), e.ItemID, e.ItemType, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// notFound wraps ErrNotFound with the entity kind and key.
func notFound(kind string, key any) error {
	return fmt.Errorf("%s %v: %w", kind, key, ErrNotFound)
}

// IsValidation reports whether err is a caller input problem.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrEmptySale, ErrInvalidDiscount, ErrMissingReason, ErrInvalidLine,
		ErrInvalidPayment, ErrInvalidCustomer, ErrInvalidItem,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsStateConflict reports whether err is a lifecycle violation.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyVoided) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrAlreadyReleased)
}
