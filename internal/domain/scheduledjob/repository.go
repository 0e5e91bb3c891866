package scheduledjob

import (
	"context"
	"time"
)

// Repository defines the interface for scheduled job persistence
type Repository interface {
	Create(ctx context.Context, job *ScheduledJob) error
	Update(ctx context.Context, job *ScheduledJob) error
	// GetPending returns the pending run of the given kind scheduled at or
	// after the given time, or a not found error
	GetPending(ctx context.Context, kind JobKind, after time.Time) (*ScheduledJob, error)
	// DeletePending removes stale pending runs of the given kind
	DeletePending(ctx context.Context, kind JobKind) error
	ListRecent(ctx context.Context, kind JobKind, limit int) ([]*ScheduledJob, error)
}
