package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/service"
)

// SweepHandler exposes the daily sweeps to an external scheduler
type SweepHandler struct {
	sweepService service.SweepService
	logger       *logger.Logger
}

// NewSweepHandler creates a new sweep handler
func NewSweepHandler(sweepService service.SweepService, logger *logger.Logger) *SweepHandler {
	return &SweepHandler{
		sweepService: sweepService,
		logger:       logger,
	}
}

// UpdateChargeExpirations opens catch-up billing cycles for every charge
// whose schedule fell behind the clock
func (h *SweepHandler) UpdateChargeExpirations(c *gin.Context) {
	h.logger.Infow("starting charge expiration sweep cron job")

	if err := h.sweepService.UpdateChargeExpirations(c.Request.Context()); err != nil {
		h.logger.Errorw("failed to update charge expirations",
			"error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed charge expiration sweep cron job")
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// SendExpirationNotifications delivers the reminders whose lead time
// matches today
func (h *SweepHandler) SendExpirationNotifications(c *gin.Context) {
	h.logger.Infow("starting expiration notification cron job")

	if err := h.sweepService.SendExpirationNotifications(c.Request.Context()); err != nil {
		h.logger.Errorw("failed to send expiration notifications",
			"error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed expiration notification cron job")
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}
