package holiday

import (
	"context"
	"time"
)

// Repository defines the interface for holiday persistence
type Repository interface {
	Create(ctx context.Context, h *Holiday) error
	Delete(ctx context.Context, id string) error
	// ListBetween returns holidays in [from, to), used when rolling due dates
	ListBetween(ctx context.Context, from, to time.Time) ([]*Holiday, error)
	List(ctx context.Context) ([]*Holiday, error)
}
