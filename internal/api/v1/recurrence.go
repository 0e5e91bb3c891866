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

type RecurrenceHandler struct {
	service service.RecurrenceService
	log     *logger.Logger
}

func NewRecurrenceHandler(service service.RecurrenceService, log *logger.Logger) *RecurrenceHandler {
	return &RecurrenceHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a recurrence
// @Description Create a recurrence with its split and payment rules
// @Tags Recurrences
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param recurrence body dto.CreateRecurrenceRequest true "Recurrence"
// @Success 201 {object} dto.CreateRecurrenceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/create_recurrence [post]
func (h *RecurrenceHandler) CreateRecurrence(c *gin.Context) {
	var req dto.CreateRecurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateRecurrence(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Edit a recurrence
// @Description Edit a recurrence, blocked while an unexpired boleto is outstanding
// @Tags Recurrences
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param recurrence body dto.EditRecurrenceRequest true "Recurrence changes"
// @Success 200 {object} dto.RecurrenceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/edit_recurrence [post]
func (h *RecurrenceHandler) EditRecurrence(c *gin.Context) {
	var req dto.EditRecurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if req.RecurrenceID == "" {
		c.Error(ierr.NewError("recurrence_id is required").
			WithHint("Provide the recurrence to edit").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateRecurrence(c.Request.Context(), req.RecurrenceID, req.UpdateRecurrenceRequest)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List recurrences
// @Description List recurrences
// @Tags Recurrences
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param filter query types.RecurrenceFilter false "Filter"
// @Success 200 {object} dto.ListRecurrencesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/list_recurrences [get]
func (h *RecurrenceHandler) ListRecurrences(c *gin.Context) {
	var filter types.RecurrenceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListRecurrences(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
