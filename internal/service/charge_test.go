package service

import (
	"testing"
	"time"

	"github.com/paymenu/grouppay/internal/api/dto"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/testutil"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type ChargeServiceSuite struct {
	testutil.BaseServiceTestSuite
	recurrenceService RecurrenceService
	endUserService    EndUserService
	chargeService     ChargeService
}

func TestChargeService(t *testing.T) {
	suite.Run(t, new(ChargeServiceSuite))
}

func (s *ChargeServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.recurrenceService = NewRecurrenceService(params)
	s.endUserService = NewEndUserService(params)
	s.chargeService = NewChargeService(params)
}

func (s *ChargeServiceSuite) createFixtures() (recurrenceID, endUserID string) {
	rec, err := s.recurrenceService.CreateRecurrence(s.GetContext(), baseRecurrenceRequest())
	s.Require().NoError(err)

	user, err := s.endUserService.CreateEndUser(s.GetContext(), dto.CreateEndUserRequest{
		SystemID: "stu-7",
		Name:     "Carlos Dias",
		Email:    "carlos@example.com",
	})
	s.Require().NoError(err)
	return rec.ID, user.ID
}

func (s *ChargeServiceSuite) TestCreateChargeOpensFirstInvoice() {
	recID, userID := s.createFixtures()

	resp, err := s.chargeService.CreateCharge(s.GetContext(), dto.CreateChargeRequest{
		RecurrenceID: recID,
		EndUserID:    userID,
	})
	s.NoError(err)
	s.Equal(int32(1), resp.SchedulePointer)
	s.Require().NotNil(resp.NextExpiration)
	s.Require().Len(resp.Invoices, 1)

	inv := resp.Invoices[0]
	s.Equal(int32(0), inv.Pointer)
	s.Equal(types.InvoiceTypeOpen, inv.Type)
	s.Equal(int64(10000), inv.FinalAmount)
	s.NotEmpty(inv.ShortID)

	// due dates never land on weekends
	s.NotEqual(time.Saturday, inv.Expiration.Weekday())
	s.NotEqual(time.Sunday, inv.Expiration.Weekday())

	s.Equal(types.InvoiceStatusWaitingPayment, resp.ChargeStatus)
	s.Equal(int64(10000), resp.OpenAmount)
}

func (s *ChargeServiceSuite) TestCreateChargeDuplicatePairingFails() {
	recID, userID := s.createFixtures()
	req := dto.CreateChargeRequest{RecurrenceID: recID, EndUserID: userID}

	_, err := s.chargeService.CreateCharge(s.GetContext(), req)
	s.Require().NoError(err)

	_, err = s.chargeService.CreateCharge(s.GetContext(), req)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *ChargeServiceSuite) TestCreateChargeOnInactiveRecurrenceFails() {
	recID, userID := s.createFixtures()
	_, err := s.recurrenceService.UpdateRecurrence(s.GetContext(), recID, dto.UpdateRecurrenceRequest{
		RecurrenceStatus: lo.ToPtr(types.RecurrenceStatusInactive),
	})
	s.Require().NoError(err)

	_, err = s.chargeService.CreateCharge(s.GetContext(), dto.CreateChargeRequest{
		RecurrenceID: recID,
		EndUserID:    userID,
	})
	s.True(ierr.IsInvalidStatus(err))
}

func (s *ChargeServiceSuite) TestListChargesByEmail() {
	recID, userID := s.createFixtures()
	_, err := s.chargeService.CreateCharge(s.GetContext(), dto.CreateChargeRequest{
		RecurrenceID: recID,
		EndUserID:    userID,
	})
	s.Require().NoError(err)

	resp, err := s.chargeService.ListChargesByEmail(s.GetContext(), "carlos@example.com")
	s.NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal(recID, resp.Items[0].RecurrenceID)
	s.Equal(int64(10000), resp.Items[0].OpenAmount)

	_, err = s.chargeService.ListChargesByEmail(s.GetContext(), "nobody@example.com")
	s.True(ierr.IsNotFound(err))
}
