package testutil

import (
	"context"
	"strings"

	"github.com/paymenu/grouppay/internal/domain/recurrence"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
)

// InMemoryRecurrenceStore implements recurrence.Repository
type InMemoryRecurrenceStore struct {
	*InMemoryStore[*recurrence.Recurrence]
}

// NewInMemoryRecurrenceStore creates a new in-memory recurrence store
func NewInMemoryRecurrenceStore() *InMemoryRecurrenceStore {
	return &InMemoryRecurrenceStore{
		InMemoryStore: NewInMemoryStore[*recurrence.Recurrence](),
	}
}

func copyRecurrence(rec *recurrence.Recurrence) *recurrence.Recurrence {
	if rec == nil {
		return nil
	}
	copied := *rec
	copied.GroupID = copyPtr(rec.GroupID)
	copied.PaymentMethods = append([]types.PaymentMethod(nil), rec.PaymentMethods...)
	copied.SplitRules = append([]recurrence.SplitRule(nil), rec.SplitRules...)
	copied.PaymentRules = append([]recurrence.PaymentRule(nil), rec.PaymentRules...)
	return &copied
}

func recurrenceFilterFn(_ context.Context, rec *recurrence.Recurrence, filter interface{}) bool {
	f, ok := filter.(*types.RecurrenceFilter)
	if !ok || f == nil {
		return rec.Status == types.StatusPublished
	}
	if rec.Status != f.GetStatus() {
		return false
	}
	if f.FilterInactive && rec.RecurrenceStatus != types.RecurrenceStatusActive {
		return false
	}
	if f.Name != nil && !strings.Contains(strings.ToLower(rec.Name), strings.ToLower(*f.Name)) {
		return false
	}
	if f.GroupID != nil && (rec.GroupID == nil || *rec.GroupID != *f.GroupID) {
		return false
	}
	if f.RecurrenceID != nil && rec.ID != *f.RecurrenceID {
		return false
	}
	return true
}

func (s *InMemoryRecurrenceStore) Create(ctx context.Context, rec *recurrence.Recurrence) error {
	if rec == nil {
		return ierr.NewError("recurrence cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, rec.ID, copyRecurrence(rec))
}

func (s *InMemoryRecurrenceStore) Get(ctx context.Context, id string) (*recurrence.Recurrence, error) {
	rec, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("recurrence not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyRecurrence(rec), nil
}

func (s *InMemoryRecurrenceStore) Update(ctx context.Context, rec *recurrence.Recurrence) error {
	if err := s.InMemoryStore.Update(ctx, rec.ID, copyRecurrence(rec)); err != nil {
		return ierr.NewError("recurrence not found").
			WithReportableDetails(map[string]any{"id": rec.ID}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryRecurrenceStore) List(ctx context.Context, filter *types.RecurrenceFilter) ([]*recurrence.Recurrence, error) {
	recs, err := s.InMemoryStore.List(ctx, filter, recurrenceFilterFn, func(i, j *recurrence.Recurrence) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(recs, func(rec *recurrence.Recurrence, _ int) *recurrence.Recurrence {
		return copyRecurrence(rec)
	}), nil
}

func (s *InMemoryRecurrenceStore) Count(ctx context.Context, filter *types.RecurrenceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, recurrenceFilterFn)
}

func (s *InMemoryRecurrenceStore) CountByGroup(ctx context.Context, groupID string) (int, error) {
	return s.InMemoryStore.Count(ctx, nil, func(_ context.Context, rec *recurrence.Recurrence, _ interface{}) bool {
		return rec.Status == types.StatusPublished && rec.GroupID != nil && *rec.GroupID == groupID
	})
}

func (s *InMemoryRecurrenceStore) ListActive(ctx context.Context) ([]*recurrence.Recurrence, error) {
	recs, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, rec *recurrence.Recurrence, _ interface{}) bool {
		return rec.Status == types.StatusPublished && rec.RecurrenceStatus == types.RecurrenceStatusActive
	}, nil)
	if err != nil {
		return nil, err
	}
	return lo.Map(recs, func(rec *recurrence.Recurrence, _ int) *recurrence.Recurrence {
		return copyRecurrence(rec)
	}), nil
}
