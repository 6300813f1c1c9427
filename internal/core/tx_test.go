package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&pgconn.PgError{Code: "40001"}))
	assert.True(t, isRetryable(fmt.Errorf("insert sale: %w", &pgconn.PgError{Code: "40P01"})))
	assert.False(t, isRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isRetryable(errors.New("boom")))
	assert.False(t, isRetryable(ErrInsufficientStock))
	assert.True(t, isRetryable(fmt.Errorf("invoice taken: %w", errRetryTx)))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_stock_movements_void_return"})
	assert.True(t, isUniqueViolation(err, ""))
	assert.True(t, isUniqueViolation(err, "uq_stock_movements_void_return"))
	assert.False(t, isUniqueViolation(err, "sales_invoice_number_key"))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "40001"}, ""))
}
