package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paymenu/grouppay/internal/api/dto"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/service"
)

type PaymentHandler struct {
	service service.InvoiceService
	log     *logger.Logger
}

func NewPaymentHandler(service service.InvoiceService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log,
	}
}

// @Summary Pay an invoice
// @Description Send the invoice to the payment provider with the chosen method
// @Tags Payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param payment body dto.PayInvoiceRequest true "Payment"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/payments/pay_invoice [post]
func (h *PaymentHandler) PayInvoice(c *gin.Context) {
	var req dto.PayInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if req.InvoiceID == "" {
		c.Error(ierr.NewError("invoice_id is required").
			WithHint("Provide the invoice to pay").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.PayInvoice(c.Request.Context(), req.InvoiceID, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Skip an invoice
// @Description Resolve the current cycle without payment and open the next one
// @Tags Payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param invoice body dto.InvoiceRefRequest true "Invoice"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/payments/skip_invoice [post]
func (h *PaymentHandler) SkipInvoice(c *gin.Context) {
	var req dto.InvoiceRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.SkipInvoice(c.Request.Context(), req.InvoiceID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Force an invoice amount
// @Description Override the amount payable for the current cycle only
// @Tags Payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param amount body dto.ForceAmountRequest true "Forced amount"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/payments/force_invoice_amount [post]
func (h *PaymentHandler) ForceInvoiceAmount(c *gin.Context) {
	var req dto.ForceAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if req.InvoiceID == "" {
		c.Error(ierr.NewError("invoice_id is required").
			WithHint("Provide the invoice to override").
			Mark(ierr.ErrValidation))
		return
	}
	if req.Amount <= 0 {
		c.Error(ierr.NewError("forced amount must be positive").
			WithHint("Use remove_forced_invoice_amount to clear an override").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ForceAmount(c.Request.Context(), req.InvoiceID, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Remove a forced invoice amount
// @Description Restore the recurrence amount for the current cycle
// @Tags Payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param invoice body dto.InvoiceRefRequest true "Invoice"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/payments/remove_forced_invoice_amount [post]
func (h *PaymentHandler) RemoveForcedInvoiceAmount(c *gin.Context) {
	var req dto.InvoiceRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ForceAmount(c.Request.Context(), req.InvoiceID, dto.ForceAmountRequest{Amount: 0})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Close a charge
// @Description Terminate a charge's schedule, no further invoices are generated
// @Tags Payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param charge body dto.CloseChargeRequest true "Charge"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/payments/close_charge [post]
func (h *PaymentHandler) CloseCharge(c *gin.Context) {
	var req dto.CloseChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.CloseCharge(c.Request.Context(), req.ChargeID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// @Summary Payment postback
// @Description Receive an asynchronous status notification from the provider
// @Tags Payments
// @Accept json
// @Produce json
// @Param postback body dto.PostbackRequest true "Postback"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/payments/payment_postback [post]
func (h *PaymentHandler) PaymentPostback(c *gin.Context) {
	var req dto.PostbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.HandlePostback(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

// @Summary Get an invoice
// @Description Get an invoice by ID or FT- short reference
// @Tags Payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/payments/invoices/{id} [get]
func (h *PaymentHandler) GetInvoice(c *gin.Context) {
	id := c.Param("id")

	resp, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
