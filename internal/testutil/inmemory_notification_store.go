package testutil

import (
	"context"

	"github.com/paymenu/grouppay/internal/domain/notification"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
)

// InMemoryNotificationStore implements notification.Repository
type InMemoryNotificationStore struct {
	*InMemoryStore[*notification.Setting]
}

// NewInMemoryNotificationStore creates a new in-memory notification
// setting store
func NewInMemoryNotificationStore() *InMemoryNotificationStore {
	return &InMemoryNotificationStore{
		InMemoryStore: NewInMemoryStore[*notification.Setting](),
	}
}

func copySetting(setting *notification.Setting) *notification.Setting {
	if setting == nil {
		return nil
	}
	copied := *setting
	return &copied
}

func (s *InMemoryNotificationStore) Create(ctx context.Context, setting *notification.Setting) error {
	if setting == nil {
		return ierr.NewError("notification setting cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, setting.ID, copySetting(setting))
}

func (s *InMemoryNotificationStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("notification setting not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryNotificationStore) ListByRecurrence(ctx context.Context, recurrenceID string) ([]*notification.Setting, error) {
	return s.listWhere(ctx, func(setting *notification.Setting) bool {
		return setting.RecurrenceID == recurrenceID
	})
}

func (s *InMemoryNotificationStore) ListAll(ctx context.Context) ([]*notification.Setting, error) {
	return s.listWhere(ctx, func(*notification.Setting) bool { return true })
}

func (s *InMemoryNotificationStore) listWhere(ctx context.Context, match func(*notification.Setting) bool) ([]*notification.Setting, error) {
	settings, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, setting *notification.Setting, _ interface{}) bool {
		return setting.Status == types.StatusPublished && match(setting)
	}, func(i, j *notification.Setting) bool {
		return i.DaysFromExpiration < j.DaysFromExpiration
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(settings, func(setting *notification.Setting, _ int) *notification.Setting {
		return copySetting(setting)
	}), nil
}
