package testutil

import (
	"context"
	"strings"

	"github.com/paymenu/grouppay/internal/domain/enduser"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
)

// InMemoryEndUserStore implements enduser.Repository
type InMemoryEndUserStore struct {
	*InMemoryStore[*enduser.EndUser]
}

// NewInMemoryEndUserStore creates a new in-memory end user store
func NewInMemoryEndUserStore() *InMemoryEndUserStore {
	return &InMemoryEndUserStore{
		InMemoryStore: NewInMemoryStore[*enduser.EndUser](),
	}
}

func copyEndUser(u *enduser.EndUser) *enduser.EndUser {
	if u == nil {
		return nil
	}
	copied := *u
	copied.GatewayCustomerID = copyPtr(u.GatewayCustomerID)
	copied.GatewayCardID = copyPtr(u.GatewayCardID)
	return &copied
}

func endUserFilterFn(_ context.Context, u *enduser.EndUser, filter interface{}) bool {
	f, ok := filter.(*types.EndUserFilter)
	if !ok || f == nil {
		return u.Status == types.StatusPublished
	}
	if u.Status != f.GetStatus() {
		return false
	}
	if f.Name != nil && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(*f.Name)) {
		return false
	}
	if f.SystemID != nil && u.SystemID != *f.SystemID {
		return false
	}
	if f.Email != nil && !strings.EqualFold(u.Email, *f.Email) {
		return false
	}
	if f.PhoneNumber != nil && u.PhoneNumber != *f.PhoneNumber {
		return false
	}
	return true
}

func endUserNotFound(key, value string) error {
	return ierr.NewError("end user not found").
		WithReportableDetails(map[string]any{key: value}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryEndUserStore) Create(ctx context.Context, u *enduser.EndUser) error {
	if u == nil {
		return ierr.NewError("end user cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, u.ID, copyEndUser(u))
}

func (s *InMemoryEndUserStore) Get(ctx context.Context, id string) (*enduser.EndUser, error) {
	u, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, endUserNotFound("id", id)
	}
	return copyEndUser(u), nil
}

func (s *InMemoryEndUserStore) getByField(ctx context.Context, match func(*enduser.EndUser) bool) (*enduser.EndUser, bool) {
	users, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, u *enduser.EndUser, _ interface{}) bool {
		return u.Status == types.StatusPublished && match(u)
	}, nil)
	if err != nil || len(users) == 0 {
		return nil, false
	}
	return copyEndUser(users[0]), true
}

func (s *InMemoryEndUserStore) GetByEmail(ctx context.Context, email string) (*enduser.EndUser, error) {
	u, ok := s.getByField(ctx, func(u *enduser.EndUser) bool {
		return strings.EqualFold(u.Email, email)
	})
	if !ok {
		return nil, endUserNotFound("email", email)
	}
	return u, nil
}

func (s *InMemoryEndUserStore) GetBySystemID(ctx context.Context, systemID string) (*enduser.EndUser, error) {
	u, ok := s.getByField(ctx, func(u *enduser.EndUser) bool {
		return u.SystemID == systemID
	})
	if !ok {
		return nil, endUserNotFound("system_id", systemID)
	}
	return u, nil
}

func (s *InMemoryEndUserStore) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*enduser.EndUser, error) {
	u, ok := s.getByField(ctx, func(u *enduser.EndUser) bool {
		return u.PhoneNumber == phoneNumber
	})
	if !ok {
		return nil, endUserNotFound("phone_number", phoneNumber)
	}
	return u, nil
}

func (s *InMemoryEndUserStore) Update(ctx context.Context, u *enduser.EndUser) error {
	if err := s.InMemoryStore.Update(ctx, u.ID, copyEndUser(u)); err != nil {
		return endUserNotFound("id", u.ID)
	}
	return nil
}

func (s *InMemoryEndUserStore) List(ctx context.Context, filter *types.EndUserFilter) ([]*enduser.EndUser, error) {
	users, err := s.InMemoryStore.List(ctx, filter, endUserFilterFn, func(i, j *enduser.EndUser) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u *enduser.EndUser, _ int) *enduser.EndUser {
		return copyEndUser(u)
	}), nil
}

func (s *InMemoryEndUserStore) Count(ctx context.Context, filter *types.EndUserFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, endUserFilterFn)
}
