package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockError_UnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("line 2: %w", &StockError{ItemID: 7, ItemType: "Oak table", Requested: 3, Available: 1})

	assert.True(t, errors.Is(err, ErrInsufficientStock))

	var se *StockError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, 7, se.ItemID)
	assert.Contains(t, err.Error(), "Oak table")
	assert.Contains(t, err.Error(), "1 available, 3 requested")
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsValidation(fmt.Errorf("x: %w", ErrEmptySale)))
	assert.True(t, IsValidation(ErrMissingReason))
	assert.False(t, IsValidation(ErrAlreadyVoided))

	assert.True(t, IsStateConflict(fmt.Errorf("sale 4: %w", ErrAlreadyVoided)))
	assert.True(t, IsStateConflict(ErrInvalidTransition))
	assert.False(t, IsStateConflict(ErrInsufficientStock))

	assert.True(t, errors.Is(notFound("sale", 9), ErrNotFound))
	assert.Equal(t, "sale 9: not found", notFound("sale", 9).Error())
}
