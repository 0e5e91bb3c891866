package service

import (
	"context"

	"github.com/paymenu/grouppay/internal/api/dto"
	"github.com/paymenu/grouppay/internal/validator"
)

// NotificationSettingService manages per-recurrence reminder schedules
type NotificationSettingService interface {
	CreateSetting(ctx context.Context, req dto.CreateNotificationSettingRequest) (*dto.NotificationSettingResponse, error)
	ListSettings(ctx context.Context, recurrenceID string) ([]*dto.NotificationSettingResponse, error)
	DeleteSetting(ctx context.Context, id string) error
}

type notificationSettingService struct {
	ServiceParams
}

// NewNotificationSettingService creates a new notification setting service
func NewNotificationSettingService(params ServiceParams) NotificationSettingService {
	return &notificationSettingService{ServiceParams: params}
}

func (s *notificationSettingService) CreateSetting(ctx context.Context, req dto.CreateNotificationSettingRequest) (*dto.NotificationSettingResponse, error) {
	if err := validator.ValidateRequest(&req); err != nil {
		return nil, err
	}

	setting := req.ToSetting(ctx)
	if err := setting.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.RecurrenceRepo.Get(ctx, setting.RecurrenceID); err != nil {
		return nil, err
	}

	if err := s.NotificationRepo.Create(ctx, setting); err != nil {
		return nil, err
	}
	return &dto.NotificationSettingResponse{Setting: setting}, nil
}

func (s *notificationSettingService) ListSettings(ctx context.Context, recurrenceID string) ([]*dto.NotificationSettingResponse, error) {
	settings, err := s.NotificationRepo.ListByRecurrence(ctx, recurrenceID)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.NotificationSettingResponse, len(settings))
	for i, setting := range settings {
		items[i] = &dto.NotificationSettingResponse{Setting: setting}
	}
	return items, nil
}

func (s *notificationSettingService) DeleteSetting(ctx context.Context, id string) error {
	return s.NotificationRepo.Delete(ctx, id)
}
