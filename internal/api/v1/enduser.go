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

type EndUserHandler struct {
	service service.EndUserService
	charges service.ChargeService
	log     *logger.Logger
}

func NewEndUserHandler(
	service service.EndUserService,
	charges service.ChargeService,
	log *logger.Logger,
) *EndUserHandler {
	return &EndUserHandler{
		service: service,
		charges: charges,
		log:     log,
	}
}

// @Summary Create an end user
// @Description Create an end user, registering them at the payment provider
// @Tags EndUsers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param end_user body dto.CreateEndUserRequest true "End user"
// @Success 201 {object} dto.EndUserResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/create_end_user [post]
func (h *EndUserHandler) CreateEndUser(c *gin.Context) {
	var req dto.CreateEndUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateEndUser(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List end users
// @Description List end users
// @Tags EndUsers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param filter query types.EndUserFilter false "Filter"
// @Success 200 {object} dto.ListEndUsersResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/list_end_users [get]
func (h *EndUserHandler) ListEndUsers(c *gin.Context) {
	var filter types.EndUserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListEndUsers(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List an end user's charges
// @Description List the charges of one end user, looked up by email or ID
// @Tags EndUsers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param email query string false "End user email"
// @Param end_user_id query string false "End user ID"
// @Success 200 {object} dto.ListChargesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/list_end_user_charges [get]
func (h *EndUserHandler) ListEndUserCharges(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		resp, err := h.charges.ListChargesByEmail(c.Request.Context(), email)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	endUserID := c.Query("end_user_id")
	if endUserID == "" {
		c.Error(ierr.NewError("email or end_user_id is required").
			WithHint("Identify the end user by email or ID").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.charges.ListChargesByEndUser(c.Request.Context(), endUserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Create a charge
// @Description Bind an end user to a recurrence and open the first invoice
// @Tags Charges
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param charge body dto.CreateChargeRequest true "Charge"
// @Success 201 {object} dto.ChargeResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/create_charge [post]
func (h *EndUserHandler) CreateCharge(c *gin.Context) {
	var req dto.CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.charges.CreateCharge(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Attach a card to an end user
// @Description Store a card at the provider and bind it to the end user
// @Tags EndUsers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "End user ID"
// @Param card body dto.CardRequest true "Card"
// @Success 200 {object} dto.EndUserResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/groups/end_users/{id}/card [post]
func (h *EndUserHandler) AttachCard(c *gin.Context) {
	id := c.Param("id")

	var req dto.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AttachCard(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
