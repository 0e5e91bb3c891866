package service

import (
	"context"
	"testing"
	"time"

	"github.com/paymenu/grouppay/internal/api/dto"
	"github.com/paymenu/grouppay/internal/domain/charge"
	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/notification"
	"github.com/paymenu/grouppay/internal/domain/scheduledjob"
	"github.com/paymenu/grouppay/internal/testutil"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

// captureNotifier records notifications instead of sending them
type captureNotifier struct {
	sent []Notification
}

func (n *captureNotifier) Send(_ context.Context, notification Notification) error {
	n.sent = append(n.sent, notification)
	return nil
}

type SweepServiceSuite struct {
	testutil.BaseServiceTestSuite
	recurrenceService RecurrenceService
	endUserService    EndUserService
	chargeService     ChargeService
	sweepService      SweepService
	notifier          *captureNotifier
}

func TestSweepService(t *testing.T) {
	suite.Run(t, new(SweepServiceSuite))
}

func (s *SweepServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.recurrenceService = NewRecurrenceService(params)
	s.endUserService = NewEndUserService(params)
	s.chargeService = NewChargeService(params)
	s.notifier = &captureNotifier{}
	s.sweepService = NewSweepService(params, s.notifier)
}

// seedLapsedCharge stores a charge whose previous cycle was paid months
// ago, leaving the schedule behind the clock
func (s *SweepServiceSuite) seedLapsedCharge(recurrenceID, endUserID string, monthsBehind int) *charge.Charge {
	now := s.GetNow()
	created := now.AddDate(0, -monthsBehind, 0)

	paid := types.TransactionStatusPaid
	settled := int64(10000)
	inv := &invoice.Invoice{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		ShortID:           types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_INVOICE),
		ChargeID:          "",
		RecurrenceID:      recurrenceID,
		EndUserID:         endUserID,
		Pointer:           0,
		Expiration:        created,
		TransactionStatus: &paid,
		PaidAmount:        &settled,
		PaymentMethod:     types.PaymentMethodCreditCard,
		Type:              types.InvoiceTypeCard,
		BaseModel:         types.GetDefaultBaseModel(s.GetContext()),
	}

	ch := &charge.Charge{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHARGE),
		RecurrenceID:     recurrenceID,
		EndUserID:        endUserID,
		SchedulePointer:  1,
		NextExpiration:   lo.ToPtr(created),
		CurrentInvoiceID: lo.ToPtr(inv.ID),
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	ch.CreatedAt = created
	inv.ChargeID = ch.ID

	s.Require().NoError(s.GetStores().ChargeRepo.Create(s.GetContext(), ch))
	s.Require().NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))
	return ch
}

func (s *SweepServiceSuite) notificationSetting(recurrenceID string, days int, subject string) *notification.Setting {
	return &notification.Setting{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NOTIFICATION_SETTING),
		RecurrenceID:       recurrenceID,
		Type:               types.NotificationTypeEmail,
		DaysFromExpiration: days,
		Subject:            subject,
		Body:               "your invoice is coming due",
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}
}

func (s *SweepServiceSuite) TestExpirationSweepOpensCatchUpCycle() {
	rec, err := s.recurrenceService.CreateRecurrence(s.GetContext(), baseRecurrenceRequest())
	s.Require().NoError(err)
	user, err := s.endUserService.CreateEndUser(s.GetContext(), dto.CreateEndUserRequest{
		SystemID: "stu-5",
		Name:     "Rita Alves",
		Email:    "rita@example.com",
	})
	s.Require().NoError(err)

	ch := s.seedLapsedCharge(rec.ID, user.ID, 2)

	s.NoError(s.sweepService.UpdateChargeExpirations(s.GetContext()))

	after, err := s.chargeService.GetCharge(s.GetContext(), ch.ID)
	s.NoError(err)
	// the paid cycle was superseded by exactly one new open invoice; the
	// open one blocks further catch-up
	s.Equal(int32(2), after.SchedulePointer)
	s.Require().Len(after.Invoices, 2)
	s.Equal(types.InvoiceTypeOpen, after.Invoices[1].Type)

	// the run was recorded as completed
	jobs, err := s.GetStores().JobRepo.ListRecent(s.GetContext(), scheduledjob.JobKindExpirationSweep, 10)
	s.NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal(scheduledjob.JobStatusCompleted, jobs[0].Status)
}

func (s *SweepServiceSuite) TestExpirationSweepSkipsWhenRunAlreadyPending() {
	rec, err := s.recurrenceService.CreateRecurrence(s.GetContext(), baseRecurrenceRequest())
	s.Require().NoError(err)
	user, err := s.endUserService.CreateEndUser(s.GetContext(), dto.CreateEndUserRequest{
		SystemID: "stu-6",
		Name:     "Nina Prado",
		Email:    "nina@example.com",
	})
	s.Require().NoError(err)
	ch := s.seedLapsedCharge(rec.ID, user.ID, 2)

	// another runner already claimed today's sweep
	s.Require().NoError(s.GetStores().JobRepo.Create(s.GetContext(), &scheduledjob.ScheduledJob{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SCHEDULED_JOB),
		Kind:      scheduledjob.JobKindExpirationSweep,
		RunAt:     s.GetNow(),
		Status:    scheduledjob.JobStatusPending,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}))

	s.NoError(s.sweepService.UpdateChargeExpirations(s.GetContext()))

	// nothing advanced and no second job row appeared
	after, err := s.chargeService.GetCharge(s.GetContext(), ch.ID)
	s.NoError(err)
	s.Equal(int32(1), after.SchedulePointer)

	jobs, err := s.GetStores().JobRepo.ListRecent(s.GetContext(), scheduledjob.JobKindExpirationSweep, 10)
	s.NoError(err)
	s.Len(jobs, 1)
}

func (s *SweepServiceSuite) TestNotificationSweepMatchesLeadTime() {
	rec, err := s.recurrenceService.CreateRecurrence(s.GetContext(), baseRecurrenceRequest())
	s.Require().NoError(err)
	user, err := s.endUserService.CreateEndUser(s.GetContext(), dto.CreateEndUserRequest{
		SystemID: "stu-8",
		Name:     "Tiago Melo",
		Email:    "tiago@example.com",
	})
	s.Require().NoError(err)

	ch, err := s.chargeService.CreateCharge(s.GetContext(), dto.CreateChargeRequest{
		RecurrenceID: rec.ID,
		EndUserID:    user.ID,
	})
	s.Require().NoError(err)

	// lead time matching the open invoice's due date
	lead := int(startOfDay(*ch.NextExpiration).Sub(startOfDay(time.Now().UTC())).Hours() / 24)
	s.Require().NoError(s.GetStores().NotificationRepo.Create(s.GetContext(), s.notificationSetting(rec.ID, lead, "payment due soon")))

	s.NoError(s.sweepService.SendExpirationNotifications(s.GetContext()))

	s.Require().Len(s.notifier.sent, 1)
	s.Equal("tiago@example.com", s.notifier.sent[0].Recipient.Email)
	s.Equal("payment due soon", s.notifier.sent[0].Subject)
}

func (s *SweepServiceSuite) TestNotificationSweepIgnoresNonMatchingLeadTime() {
	rec, err := s.recurrenceService.CreateRecurrence(s.GetContext(), baseRecurrenceRequest())
	s.Require().NoError(err)
	user, err := s.endUserService.CreateEndUser(s.GetContext(), dto.CreateEndUserRequest{
		SystemID: "stu-10",
		Name:     "Lia Ramos",
		Email:    "lia@example.com",
	})
	s.Require().NoError(err)

	_, err = s.chargeService.CreateCharge(s.GetContext(), dto.CreateChargeRequest{
		RecurrenceID: rec.ID,
		EndUserID:    user.ID,
	})
	s.Require().NoError(err)

	// far longer lead time than any open invoice
	s.Require().NoError(s.GetStores().NotificationRepo.Create(s.GetContext(), s.notificationSetting(rec.ID, 120, "too early")))

	s.NoError(s.sweepService.SendExpirationNotifications(s.GetContext()))
	s.Empty(s.notifier.sent)
}
