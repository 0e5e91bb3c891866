package service

import (
	"context"

	"github.com/paymenu/grouppay/internal/api/dto"
	"github.com/paymenu/grouppay/internal/validator"
)

// HolidayService manages the calendar dates the schedule advancer rolls
// due dates past
type HolidayService interface {
	CreateHoliday(ctx context.Context, req dto.CreateHolidayRequest) (*dto.HolidayResponse, error)
	ListHolidays(ctx context.Context) ([]*dto.HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id string) error
}

type holidayService struct {
	ServiceParams
}

// NewHolidayService creates a new holiday service
func NewHolidayService(params ServiceParams) HolidayService {
	return &holidayService{ServiceParams: params}
}

func (s *holidayService) CreateHoliday(ctx context.Context, req dto.CreateHolidayRequest) (*dto.HolidayResponse, error) {
	if err := validator.ValidateRequest(&req); err != nil {
		return nil, err
	}

	h := req.ToHoliday(ctx)
	if err := s.HolidayRepo.Create(ctx, h); err != nil {
		return nil, err
	}

	s.Logger.Infow("created holiday", "holiday_id", h.ID, "date", h.Date)
	return &dto.HolidayResponse{Holiday: h}, nil
}

func (s *holidayService) ListHolidays(ctx context.Context) ([]*dto.HolidayResponse, error) {
	holidays, err := s.HolidayRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.HolidayResponse, len(holidays))
	for i, h := range holidays {
		items[i] = &dto.HolidayResponse{Holiday: h}
	}
	return items, nil
}

func (s *holidayService) DeleteHoliday(ctx context.Context, id string) error {
	return s.HolidayRepo.Delete(ctx, id)
}
