package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Audit actions emitted by the services.
const (
	AuditSaleCreated      = "sale_created"
	AuditSaleUpdated      = "sale_updated"
	AuditSaleVoided       = "sale_voided"
	AuditPaymentConfirmed = "payment_confirmed"
	AuditItemCreated      = "item_created"
	AuditItemUpdated      = "item_updated"
	AuditCustomerCreated  = "customer_created"
)

// AuditEvent describes one state-changing operation.
type AuditEvent struct {
	Action     string
	EntityType string
	EntityID   int
	ActorID    int
	OldState   any
	NewState   any
}

// AuditEntry is a persisted audit record.
type AuditEntry struct {
	ID         int             `json:"id"`
	ActorID    *int            `json:"actor_id,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   int             `json:"entity_id"`
	OldValues  json.RawMessage `json:"old_values,omitempty"`
	NewValues  json.RawMessage `json:"new_values,omitempty"`
	IPAddress  string          `json:"ip_address"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AuditLogger records audit events. Record is fire-and-forget: it never
// returns an error, and a failed write never undoes the business change.
type AuditLogger interface {
	Record(ctx context.Context, ev AuditEvent)
}

type remoteAddrKey struct{}

// WithRemoteAddr attaches the caller's network address for audit records.
func WithRemoteAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, remoteAddrKey{}, addr)
}

func remoteAddrFrom(ctx context.Context) string {
	v, _ := ctx.Value(remoteAddrKey{}).(string)
	return v
}

type pgAuditLogger struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewAuditLogger returns an AuditLogger writing to the audit_log table on its
// own connection, outside any business transaction.
func NewAuditLogger(pool *pgxpool.Pool, logger *zap.Logger) AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pgAuditLogger{pool: pool, logger: logger}
}

func (a *pgAuditLogger) Record(ctx context.Context, ev AuditEvent) {
	oldJSON, err := marshalState(ev.OldState)
	if err != nil {
		a.logger.Error("audit: failed to encode old state", zap.String("action", ev.Action), zap.Error(err))
	}
	newJSON, err := marshalState(ev.NewState)
	if err != nil {
		a.logger.Error("audit: failed to encode new state", zap.String("action", ev.Action), zap.Error(err))
	}

	var actor *int
	if ev.ActorID != 0 {
		actor = &ev.ActorID
	}

	// Detached from request cancellation: the business change is already committed.
	ctx = context.WithoutCancel(ctx)
	_, err = a.pool.Exec(ctx, `
		INSERT INTO audit_log (actor_id, action, entity_type, entity_id, old_values, new_values, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, actor, ev.Action, ev.EntityType, ev.EntityID, oldJSON, newJSON, remoteAddrFrom(ctx))
	if err != nil {
		a.logger.Error("audit: failed to record event",
			zap.String("action", ev.Action),
			zap.String("entity_type", ev.EntityType),
			zap.Int("entity_id", ev.EntityID),
			zap.Error(err),
		)
	}
}

func marshalState(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// ListAuditEntries returns the audit trail for one entity, oldest first.
func ListAuditEntries(ctx context.Context, pool *pgxpool.Pool, entityType string, entityID int) ([]AuditEntry, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, actor_id, action, entity_type, entity_id, old_values, new_values, ip_address, created_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY id
	`, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID,
			&e.OldValues, &e.NewValues, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// nopAuditLogger discards events.
type nopAuditLogger struct{}

func (nopAuditLogger) Record(context.Context, AuditEvent) {}
