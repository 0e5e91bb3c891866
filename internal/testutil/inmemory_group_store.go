package testutil

import (
	"context"
	"strings"

	"github.com/paymenu/grouppay/internal/domain/group"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
)

// InMemoryGroupStore implements group.Repository
type InMemoryGroupStore struct {
	*InMemoryStore[*group.Group]
}

// NewInMemoryGroupStore creates a new in-memory group store
func NewInMemoryGroupStore() *InMemoryGroupStore {
	return &InMemoryGroupStore{
		InMemoryStore: NewInMemoryStore[*group.Group](),
	}
}

func copyGroup(g *group.Group) *group.Group {
	if g == nil {
		return nil
	}
	copied := *g
	return &copied
}

func groupFilterFn(_ context.Context, g *group.Group, filter interface{}) bool {
	f, ok := filter.(*types.GroupFilter)
	if !ok || f == nil {
		return g.Status == types.StatusPublished
	}
	if g.Status != f.GetStatus() {
		return false
	}
	if f.Name != nil && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(*f.Name)) {
		return false
	}
	if f.GroupID != nil && g.ID != *f.GroupID {
		return false
	}
	return true
}

func (s *InMemoryGroupStore) Create(ctx context.Context, g *group.Group) error {
	if g == nil {
		return ierr.NewError("group cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, g.ID, copyGroup(g))
}

func (s *InMemoryGroupStore) Get(ctx context.Context, id string) (*group.Group, error) {
	g, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("group not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyGroup(g), nil
}

func (s *InMemoryGroupStore) Update(ctx context.Context, g *group.Group) error {
	if err := s.InMemoryStore.Update(ctx, g.ID, copyGroup(g)); err != nil {
		return ierr.NewError("group not found").
			WithReportableDetails(map[string]any{"id": g.ID}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryGroupStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("group not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryGroupStore) List(ctx context.Context, filter *types.GroupFilter) ([]*group.Group, error) {
	groups, err := s.InMemoryStore.List(ctx, filter, groupFilterFn, func(i, j *group.Group) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(groups, func(g *group.Group, _ int) *group.Group {
		return copyGroup(g)
	}), nil
}

func (s *InMemoryGroupStore) Count(ctx context.Context, filter *types.GroupFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, groupFilterFn)
}
