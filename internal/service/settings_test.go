package service

import (
	"testing"
	"time"

	"github.com/paymenu/grouppay/internal/api/dto"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/testutil"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/stretchr/testify/suite"
)

type SettingsServiceSuite struct {
	testutil.BaseServiceTestSuite
	holidayService      HolidayService
	notificationService NotificationSettingService
	recurrenceService   RecurrenceService
}

func TestSettingsServices(t *testing.T) {
	suite.Run(t, new(SettingsServiceSuite))
}

func (s *SettingsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.holidayService = NewHolidayService(params)
	s.notificationService = NewNotificationSettingService(params)
	s.recurrenceService = NewRecurrenceService(params)
}

func (s *SettingsServiceSuite) createRecurrence() string {
	resp, err := s.recurrenceService.CreateRecurrence(s.GetContext(), dto.CreateRecurrenceRequest{
		Name:           "monthly plan",
		Amount:         10000,
		Interval:       1,
		IntervalUnit:   types.IntervalUnitMonthly,
		PaymentMethods: []types.PaymentMethod{types.PaymentMethodCreditCard},
		SplitRules: []dto.SplitRuleRequest{
			{RecipientID: "rcp_main", Amount: 10000, Liable: true},
		},
	})
	s.Require().NoError(err)
	return resp.ID
}

func (s *SettingsServiceSuite) TestCreateHoliday() {
	resp, err := s.holidayService.CreateHoliday(s.GetContext(), dto.CreateHolidayRequest{
		Name: "new year",
		Date: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)
	s.NotEmpty(resp.ID)

	listed, err := s.holidayService.ListHolidays(s.GetContext())
	s.NoError(err)
	s.Len(listed, 1)
	s.Equal("new year", listed[0].Name)
}

func (s *SettingsServiceSuite) TestCreateHolidayRequiresDate() {
	_, err := s.holidayService.CreateHoliday(s.GetContext(), dto.CreateHolidayRequest{Name: "no date"})
	s.True(ierr.IsValidation(err))
}

func (s *SettingsServiceSuite) TestDeleteHoliday() {
	resp, err := s.holidayService.CreateHoliday(s.GetContext(), dto.CreateHolidayRequest{
		Name: "carnival",
		Date: time.Date(2027, 2, 16, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	s.NoError(s.holidayService.DeleteHoliday(s.GetContext(), resp.ID))

	listed, err := s.holidayService.ListHolidays(s.GetContext())
	s.NoError(err)
	s.Empty(listed)
}

func (s *SettingsServiceSuite) TestCreateNotificationSetting() {
	recID := s.createRecurrence()

	resp, err := s.notificationService.CreateSetting(s.GetContext(), dto.CreateNotificationSettingRequest{
		RecurrenceID:       recID,
		Type:               types.NotificationTypeEmail,
		DaysFromExpiration: 3,
		Subject:            "payment due soon",
	})
	s.NoError(err)
	s.NotEmpty(resp.ID)

	listed, err := s.notificationService.ListSettings(s.GetContext(), recID)
	s.NoError(err)
	s.Len(listed, 1)
	s.Equal(3, listed[0].DaysFromExpiration)
}

func (s *SettingsServiceSuite) TestCreateNotificationSettingUnknownRecurrence() {
	_, err := s.notificationService.CreateSetting(s.GetContext(), dto.CreateNotificationSettingRequest{
		RecurrenceID: "rec_missing",
		Type:         types.NotificationTypeEmail,
	})
	s.True(ierr.IsNotFound(err))
}

func (s *SettingsServiceSuite) TestDeleteNotificationSetting() {
	recID := s.createRecurrence()
	resp, err := s.notificationService.CreateSetting(s.GetContext(), dto.CreateNotificationSettingRequest{
		RecurrenceID: recID,
		Type:         types.NotificationTypeEmail,
	})
	s.Require().NoError(err)

	s.NoError(s.notificationService.DeleteSetting(s.GetContext(), resp.ID))

	listed, err := s.notificationService.ListSettings(s.GetContext(), recID)
	s.NoError(err)
	s.Empty(listed)
}
