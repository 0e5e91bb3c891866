package charge

import (
	"context"
	"time"
)

// Repository defines the interface for charge persistence
type Repository interface {
	Create(ctx context.Context, charge *Charge) error
	Get(ctx context.Context, id string) (*Charge, error)
	Update(ctx context.Context, charge *Charge) error
	// GetByEndUserAndRecurrence enforces the one-charge-per-pairing rule
	GetByEndUserAndRecurrence(ctx context.Context, endUserID, recurrenceID string) (*Charge, error)
	ListByEndUser(ctx context.Context, endUserID string) ([]*Charge, error)
	ListByRecurrence(ctx context.Context, recurrenceID string) ([]*Charge, error)
	// ListDue returns open charges whose next expiration is at or before the
	// given time, used by the daily sweep
	ListDue(ctx context.Context, before time.Time) ([]*Charge, error)
}
