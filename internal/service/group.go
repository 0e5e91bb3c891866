package service

import (
	"context"

	"github.com/paymenu/grouppay/internal/api/dto"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/paymenu/grouppay/internal/validator"
	"github.com/samber/lo"
)

// GroupService defines the interface for group operations
type GroupService interface {
	CreateGroup(ctx context.Context, req dto.CreateGroupRequest) (*dto.GroupResponse, error)
	GetGroup(ctx context.Context, id string) (*dto.GroupResponse, error)
	ListGroups(ctx context.Context, filter *types.GroupFilter) (*dto.ListGroupsResponse, error)
	DeleteGroup(ctx context.Context, id string) error
	AssignRecurrence(ctx context.Context, groupID, recurrenceID string) error
	RemoveRecurrence(ctx context.Context, groupID, recurrenceID string) error
}

type groupService struct {
	ServiceParams
}

// NewGroupService creates a new group service
func NewGroupService(params ServiceParams) GroupService {
	return &groupService{ServiceParams: params}
}

func (s *groupService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	if err := validator.ValidateRequest(&req); err != nil {
		return nil, err
	}

	g := req.ToGroup(ctx)
	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := s.GroupRepo.Create(ctx, g); err != nil {
		return nil, err
	}

	s.Logger.Infow("created group", "group_id", g.ID, "name", g.Name)
	return &dto.GroupResponse{Group: g}, nil
}

func (s *groupService) GetGroup(ctx context.Context, id string) (*dto.GroupResponse, error) {
	g, err := s.GroupRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.RecurrenceRepo.CountByGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.GroupResponse{Group: g, RecurrenceCount: count}, nil
}

func (s *groupService) ListGroups(ctx context.Context, filter *types.GroupFilter) (*dto.ListGroupsResponse, error) {
	if filter == nil {
		filter = &types.GroupFilter{}
	}

	groups, err := s.GroupRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.GroupRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.GroupResponse, len(groups))
	for i, g := range groups {
		count, err := s.RecurrenceRepo.CountByGroup(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		items[i] = &dto.GroupResponse{Group: g, RecurrenceCount: count}
	}

	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *groupService) DeleteGroup(ctx context.Context, id string) error {
	if _, err := s.GroupRepo.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.RecurrenceRepo.CountByGroup(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ierr.NewError("group still has recurrences assigned").
			WithHint("Remove all recurrences from the group before deleting it").
			WithReportableDetails(map[string]any{"group_id": id, "recurrence_count": count}).
			Mark(ierr.ErrNotEmpty)
	}

	return s.GroupRepo.Delete(ctx, id)
}

func (s *groupService) AssignRecurrence(ctx context.Context, groupID, recurrenceID string) error {
	g, err := s.GroupRepo.Get(ctx, groupID)
	if err != nil {
		return err
	}
	rec, err := s.RecurrenceRepo.Get(ctx, recurrenceID)
	if err != nil {
		return err
	}

	if rec.GroupID != nil {
		if *rec.GroupID == groupID {
			return ierr.NewError("recurrence is already assigned to this group").
				WithReportableDetails(map[string]any{"group_id": groupID, "recurrence_id": recurrenceID}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.NewError("recurrence is assigned to another group").
			WithHint("Remove the recurrence from its current group first").
			WithReportableDetails(map[string]any{"recurrence_id": recurrenceID}).
			Mark(ierr.ErrInvalidOperation)
	}

	count, err := s.RecurrenceRepo.CountByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if count >= g.GetCapacity() {
		return ierr.NewError("group is at capacity").
			WithHint("The group cannot accept more recurrences").
			WithReportableDetails(map[string]any{"group_id": groupID, "capacity": g.GetCapacity()}).
			Mark(ierr.ErrGroupFull)
	}

	rec.GroupID = lo.ToPtr(groupID)
	return s.RecurrenceRepo.Update(ctx, rec)
}

func (s *groupService) RemoveRecurrence(ctx context.Context, groupID, recurrenceID string) error {
	rec, err := s.RecurrenceRepo.Get(ctx, recurrenceID)
	if err != nil {
		return err
	}

	if rec.GroupID == nil || *rec.GroupID != groupID {
		return ierr.NewError("recurrence is not assigned to this group").
			WithReportableDetails(map[string]any{"group_id": groupID, "recurrence_id": recurrenceID}).
			Mark(ierr.ErrInvalidOperation)
	}

	rec.GroupID = nil
	return s.RecurrenceRepo.Update(ctx, rec)
}
