package dto

import (
	"context"

	"github.com/paymenu/grouppay/internal/domain/group"
	"github.com/paymenu/grouppay/internal/types"
)

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" validate:"gte=0"`
}

func (r *CreateGroupRequest) ToGroup(ctx context.Context) *group.Group {
	return &group.Group{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GROUP),
		Name:        r.Name,
		Description: r.Description,
		Capacity:    r.Capacity,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

type GroupResponse struct {
	*group.Group
	// RecurrenceCount is how many recurrences are currently assigned
	RecurrenceCount int `json:"recurrence_count"`
}

type ListGroupsResponse = types.ListResponse[*GroupResponse]

type GroupAssignmentRequest struct {
	GroupID      string `json:"group_id" validate:"required"`
	RecurrenceID string `json:"recurrence_id" validate:"required"`
}
