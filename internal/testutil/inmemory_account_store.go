package testutil

import (
	"context"

	"github.com/paymenu/grouppay/internal/domain/account"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/samber/lo"
)

// InMemoryAccountStore implements account.Repository
type InMemoryAccountStore struct {
	*InMemoryStore[*account.Account]
}

// NewInMemoryAccountStore creates a new in-memory account store
func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		InMemoryStore: NewInMemoryStore[*account.Account](),
	}
}

func copyAccount(a *account.Account) *account.Account {
	if a == nil {
		return nil
	}
	copied := *a
	copied.GatewayRecipientID = copyPtr(a.GatewayRecipientID)
	return &copied
}

// copyPtr duplicates an optional scalar so stored state cannot be mutated
// through a caller's pointer
func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return lo.ToPtr(*p)
}

func (s *InMemoryAccountStore) Create(ctx context.Context, a *account.Account) error {
	if a == nil {
		return ierr.NewError("account cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, a.ID, copyAccount(a))
}

func (s *InMemoryAccountStore) Get(ctx context.Context, id string) (*account.Account, error) {
	a, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("account not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyAccount(a), nil
}

func (s *InMemoryAccountStore) Update(ctx context.Context, a *account.Account) error {
	if err := s.InMemoryStore.Update(ctx, a.ID, copyAccount(a)); err != nil {
		return ierr.NewError("account not found").
			WithReportableDetails(map[string]any{"id": a.ID}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryAccountStore) List(ctx context.Context) ([]*account.Account, error) {
	accounts, err := s.InMemoryStore.List(ctx, nil, nil, func(i, j *account.Account) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(accounts, func(a *account.Account, _ int) *account.Account {
		return copyAccount(a)
	}), nil
}
