package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DefaultTxRetries is how many times a serialization failure is retried.
const DefaultTxRetries = 3

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared query helpers.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txRunner executes units of work in serializable transactions and retries
// the ones Postgres aborts for serialization failure or deadlock.
type txRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	logger     *zap.Logger
}

func newTxRunner(pool *pgxpool.Pool, maxRetries int, logger *zap.Logger) *txRunner {
	if maxRetries < 0 {
		maxRetries = DefaultTxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &txRunner{pool: pool, maxRetries: maxRetries, logger: logger}
}

// run calls fn inside a transaction. fn must not commit or roll back.
// A non-retryable error from fn aborts immediately and is returned as-is.
func (r *txRunner) run(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		r.logger.Warn("transaction conflict, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
}

func (r *txRunner) runOnce(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// errRetryTx marks an error that a fresh transaction attempt can resolve.
var errRetryTx = errors.New("retryable")

// isRetryable reports serialization_failure (40001), deadlock_detected (40P01)
// and errors marked with errRetryTx.
func isRetryable(err error) bool {
	if errors.Is(err, errRetryTx) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// isUniqueViolation reports unique_violation (23505), optionally on a named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
