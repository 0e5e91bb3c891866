package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paymenu/grouppay/internal/api/dto"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/service"
)

// SettingsHandler serves the operational configuration: the holiday
// calendar the scheduler rolls due dates past, and the notification
// settings that drive expiration reminders.
type SettingsHandler struct {
	holidays      service.HolidayService
	notifications service.NotificationSettingService
	log           *logger.Logger
}

func NewSettingsHandler(
	holidays service.HolidayService,
	notifications service.NotificationSettingService,
	log *logger.Logger,
) *SettingsHandler {
	return &SettingsHandler{
		holidays:      holidays,
		notifications: notifications,
		log:           log,
	}
}

// @Summary Create a holiday
// @Description Add a date to the holiday calendar
// @Tags Settings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param holiday body dto.CreateHolidayRequest true "Holiday"
// @Success 201 {object} dto.HolidayResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/settings/create_holiday [post]
func (h *SettingsHandler) CreateHoliday(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.holidays.CreateHoliday(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List holidays
// @Description List the holiday calendar
// @Tags Settings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.HolidayResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/settings/list_holidays [get]
func (h *SettingsHandler) ListHolidays(c *gin.Context) {
	resp, err := h.holidays.ListHolidays(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a holiday
// @Description Remove a date from the holiday calendar
// @Tags Settings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Holiday ID"
// @Success 200 {object} map[string]string
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/settings/holidays/{id} [delete]
func (h *SettingsHandler) DeleteHoliday(c *gin.Context) {
	id := c.Param("id")

	if err := h.holidays.DeleteHoliday(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary Create a notification setting
// @Description Schedule an expiration reminder for a recurrence
// @Tags Settings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param setting body dto.CreateNotificationSettingRequest true "Setting"
// @Success 201 {object} dto.NotificationSettingResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/settings/create_notification [post]
func (h *SettingsHandler) CreateNotificationSetting(c *gin.Context) {
	var req dto.CreateNotificationSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.notifications.CreateSetting(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List notification settings
// @Description List the notification settings of a recurrence
// @Tags Settings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param recurrence_id query string true "Recurrence ID"
// @Success 200 {array} dto.NotificationSettingResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/settings/list_notifications [get]
func (h *SettingsHandler) ListNotificationSettings(c *gin.Context) {
	recurrenceID := c.Query("recurrence_id")
	if recurrenceID == "" {
		c.Error(ierr.NewError("recurrence_id is required").
			WithHint("Provide the recurrence to list settings for").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.notifications.ListSettings(c.Request.Context(), recurrenceID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a notification setting
// @Description Remove an expiration reminder
// @Tags Settings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Setting ID"
// @Success 200 {object} map[string]string
// @Failure 500 {object} ierr.ErrorResponse
// @Router /gateway/settings/notifications/{id} [delete]
func (h *SettingsHandler) DeleteNotificationSetting(c *gin.Context) {
	id := c.Param("id")

	if err := h.notifications.DeleteSetting(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
