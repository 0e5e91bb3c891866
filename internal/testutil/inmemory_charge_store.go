package testutil

import (
	"context"
	"time"

	"github.com/paymenu/grouppay/internal/domain/charge"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
)

// InMemoryChargeStore implements charge.Repository
type InMemoryChargeStore struct {
	*InMemoryStore[*charge.Charge]
}

// NewInMemoryChargeStore creates a new in-memory charge store
func NewInMemoryChargeStore() *InMemoryChargeStore {
	return &InMemoryChargeStore{
		InMemoryStore: NewInMemoryStore[*charge.Charge](),
	}
}

func copyCharge(ch *charge.Charge) *charge.Charge {
	if ch == nil {
		return nil
	}
	copied := *ch
	copied.NextExpiration = copyPtr(ch.NextExpiration)
	copied.CurrentInvoiceID = copyPtr(ch.CurrentInvoiceID)
	return &copied
}

func chargeNotFound(key, value string) error {
	return ierr.NewError("charge not found").
		WithReportableDetails(map[string]any{key: value}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryChargeStore) Create(ctx context.Context, ch *charge.Charge) error {
	if ch == nil {
		return ierr.NewError("charge cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, ch.ID, copyCharge(ch))
}

func (s *InMemoryChargeStore) Get(ctx context.Context, id string) (*charge.Charge, error) {
	ch, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, chargeNotFound("id", id)
	}
	return copyCharge(ch), nil
}

func (s *InMemoryChargeStore) Update(ctx context.Context, ch *charge.Charge) error {
	if err := s.InMemoryStore.Update(ctx, ch.ID, copyCharge(ch)); err != nil {
		return chargeNotFound("id", ch.ID)
	}
	return nil
}

func (s *InMemoryChargeStore) GetByEndUserAndRecurrence(ctx context.Context, endUserID, recurrenceID string) (*charge.Charge, error) {
	charges, err := s.listWhere(ctx, func(ch *charge.Charge) bool {
		return ch.EndUserID == endUserID && ch.RecurrenceID == recurrenceID
	})
	if err != nil {
		return nil, err
	}
	if len(charges) == 0 {
		return nil, chargeNotFound("end_user_id", endUserID)
	}
	return charges[0], nil
}

func (s *InMemoryChargeStore) ListByEndUser(ctx context.Context, endUserID string) ([]*charge.Charge, error) {
	return s.listWhere(ctx, func(ch *charge.Charge) bool {
		return ch.EndUserID == endUserID
	})
}

func (s *InMemoryChargeStore) ListByRecurrence(ctx context.Context, recurrenceID string) ([]*charge.Charge, error) {
	return s.listWhere(ctx, func(ch *charge.Charge) bool {
		return ch.RecurrenceID == recurrenceID
	})
}

func (s *InMemoryChargeStore) ListDue(ctx context.Context, before time.Time) ([]*charge.Charge, error) {
	return s.listWhere(ctx, func(ch *charge.Charge) bool {
		return !ch.IsClosed() && ch.NextExpiration != nil && !ch.NextExpiration.After(before)
	})
}

func (s *InMemoryChargeStore) listWhere(ctx context.Context, match func(*charge.Charge) bool) ([]*charge.Charge, error) {
	charges, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, ch *charge.Charge, _ interface{}) bool {
		return ch.Status == types.StatusPublished && match(ch)
	}, func(i, j *charge.Charge) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(charges, func(ch *charge.Charge, _ int) *charge.Charge {
		return copyCharge(ch)
	}), nil
}
