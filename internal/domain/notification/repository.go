package notification

import "context"

// Repository defines the interface for notification setting persistence
type Repository interface {
	Create(ctx context.Context, setting *Setting) error
	Delete(ctx context.Context, id string) error
	ListByRecurrence(ctx context.Context, recurrenceID string) ([]*Setting, error)
	// ListAll returns every published setting, scanned by the daily sweep
	ListAll(ctx context.Context) ([]*Setting, error)
}
