package dto

import (
	"context"
	"time"

	"github.com/paymenu/grouppay/internal/domain/holiday"
	"github.com/paymenu/grouppay/internal/domain/notification"
	"github.com/paymenu/grouppay/internal/types"
)

type CreateHolidayRequest struct {
	Name string    `json:"name" validate:"required"`
	Date time.Time `json:"date" validate:"required"`
}

func (r *CreateHolidayRequest) ToHoliday(ctx context.Context) *holiday.Holiday {
	return &holiday.Holiday{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_HOLIDAY),
		Name:      r.Name,
		Date:      r.Date,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

type HolidayResponse struct {
	*holiday.Holiday
}

type CreateNotificationSettingRequest struct {
	RecurrenceID       string                 `json:"recurrence_id" validate:"required"`
	Type               types.NotificationType `json:"type" validate:"required"`
	DaysFromExpiration int                    `json:"days_from_expiration" validate:"gte=0"`
	Subject            string                 `json:"subject"`
	Body               string                 `json:"body"`
}

func (r *CreateNotificationSettingRequest) ToSetting(ctx context.Context) *notification.Setting {
	return &notification.Setting{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NOTIFICATION_SETTING),
		RecurrenceID:       r.RecurrenceID,
		Type:               r.Type,
		DaysFromExpiration: r.DaysFromExpiration,
		Subject:            r.Subject,
		Body:               r.Body,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}

type NotificationSettingResponse struct {
	*notification.Setting
}
