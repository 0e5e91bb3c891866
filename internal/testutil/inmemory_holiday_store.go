package testutil

import (
	"context"
	"time"

	"github.com/paymenu/grouppay/internal/domain/holiday"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
)

// InMemoryHolidayStore implements holiday.Repository
type InMemoryHolidayStore struct {
	*InMemoryStore[*holiday.Holiday]
}

// NewInMemoryHolidayStore creates a new in-memory holiday store
func NewInMemoryHolidayStore() *InMemoryHolidayStore {
	return &InMemoryHolidayStore{
		InMemoryStore: NewInMemoryStore[*holiday.Holiday](),
	}
}

func copyHoliday(h *holiday.Holiday) *holiday.Holiday {
	if h == nil {
		return nil
	}
	copied := *h
	return &copied
}

func (s *InMemoryHolidayStore) Create(ctx context.Context, h *holiday.Holiday) error {
	if h == nil {
		return ierr.NewError("holiday cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, h.ID, copyHoliday(h))
}

func (s *InMemoryHolidayStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("holiday not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryHolidayStore) ListBetween(ctx context.Context, from, to time.Time) ([]*holiday.Holiday, error) {
	return s.listWhere(ctx, func(h *holiday.Holiday) bool {
		return !h.Date.Before(from) && h.Date.Before(to)
	})
}

func (s *InMemoryHolidayStore) List(ctx context.Context) ([]*holiday.Holiday, error) {
	return s.listWhere(ctx, func(*holiday.Holiday) bool { return true })
}

func (s *InMemoryHolidayStore) listWhere(ctx context.Context, match func(*holiday.Holiday) bool) ([]*holiday.Holiday, error) {
	holidays, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, h *holiday.Holiday, _ interface{}) bool {
		return h.Status == types.StatusPublished && match(h)
	}, func(i, j *holiday.Holiday) bool {
		return i.Date.Before(j.Date)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(holidays, func(h *holiday.Holiday, _ int) *holiday.Holiday {
		return copyHoliday(h)
	}), nil
}
