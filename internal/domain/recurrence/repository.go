package recurrence

import (
	"context"

	"github.com/paymenu/grouppay/internal/types"
)

// Repository defines the interface for recurrence persistence. Split and
// payment rules are saved and loaded with their recurrence.
type Repository interface {
	Create(ctx context.Context, rec *Recurrence) error
	Get(ctx context.Context, id string) (*Recurrence, error)
	Update(ctx context.Context, rec *Recurrence) error
	List(ctx context.Context, filter *types.RecurrenceFilter) ([]*Recurrence, error)
	Count(ctx context.Context, filter *types.RecurrenceFilter) (int, error)
	// CountByGroup returns how many recurrences are assigned to a group
	CountByGroup(ctx context.Context, groupID string) (int, error)
	// ListActive returns every active recurrence, used by the sweeper
	ListActive(ctx context.Context) ([]*Recurrence, error)
}
