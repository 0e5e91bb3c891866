package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paymenu/grouppay/internal/api/dto"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/service"
	"github.com/paymenu/grouppay/internal/types"
)

type GroupHandler struct {
	service service.GroupService
	log     *logger.Logger
}

func NewGroupHandler(service service.GroupService, log *logger.Logger) *GroupHandler {
	return &GroupHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a group
// @Description Create a group of recurrences
// @Tags Groups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param group body dto.CreateGroupRequest true "Group"
// @Success 201 {object} dto.GroupResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/create_group [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateGroup(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List groups
// @Description List groups with their recurrence counts
// @Tags Groups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param filter query types.GroupFilter false "Filter"
// @Success 200 {object} dto.ListGroupsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/list_groups [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	var filter types.GroupFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListGroups(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Assign a recurrence to a group
// @Description Assign a recurrence to a group, each recurrence belongs to at most one
// @Tags Groups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param assignment body dto.GroupAssignmentRequest true "Assignment"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/assign_recurrence_group [post]
func (h *GroupHandler) AssignRecurrence(c *gin.Context) {
	var req dto.GroupAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.AssignRecurrence(c.Request.Context(), req.GroupID, req.RecurrenceID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "assigned"})
}

// @Summary Remove a recurrence from a group
// @Description Remove a recurrence from the group it is assigned to
// @Tags Groups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param assignment body dto.GroupAssignmentRequest true "Assignment"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/remove_recurrence_group [post]
func (h *GroupHandler) RemoveRecurrence(c *gin.Context) {
	var req dto.GroupAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.RemoveRecurrence(c.Request.Context(), req.GroupID, req.RecurrenceID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// @Summary Delete a group
// @Description Delete an empty group
// @Tags Groups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Group ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/{id} [delete]
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.DeleteGroup(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
