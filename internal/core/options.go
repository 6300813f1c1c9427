package core

import (
	"time"

	"go.uber.org/zap"
)

// Options carries the collaborators shared by the core services.
// Zero values are replaced with working defaults.
type Options struct {
	Logger *zap.Logger
	Audit  AuditLogger
	// MaxTxRetries bounds retries of serialization failures. Zero means DefaultTxRetries.
	MaxTxRetries int
	// Clock supplies the sale date and invoice day.
	Clock func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Audit == nil {
		o.Audit = nopAuditLogger{}
	}
	if o.MaxTxRetries <= 0 {
		o.MaxTxRetries = DefaultTxRetries
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}
