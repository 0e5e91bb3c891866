package service

import (
	"testing"

	"github.com/paymenu/grouppay/internal/api/dto"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/testutil"
	"github.com/paymenu/grouppay/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type RecurrenceServiceSuite struct {
	testutil.BaseServiceTestSuite
	recurrenceService RecurrenceService
	endUserService    EndUserService
	chargeService     ChargeService
	invoiceService    InvoiceService
}

func TestRecurrenceService(t *testing.T) {
	suite.Run(t, new(RecurrenceServiceSuite))
}

func (s *RecurrenceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.recurrenceService = NewRecurrenceService(params)
	s.endUserService = NewEndUserService(params)
	s.chargeService = NewChargeService(params)
	s.invoiceService = NewInvoiceService(params)
}

func baseRecurrenceRequest() dto.CreateRecurrenceRequest {
	return dto.CreateRecurrenceRequest{
		Name:           "tuition",
		Amount:         10000,
		Interval:       1,
		IntervalUnit:   types.IntervalUnitMonthly,
		PaymentMethods: []types.PaymentMethod{types.PaymentMethodCreditCard, types.PaymentMethodBoleto},
		SplitRules: []dto.SplitRuleRequest{
			{RecipientID: "rcp_school", Amount: 6000, Liable: true},
			{RecipientID: "rcp_platform", Amount: 4000},
		},
	}
}

func (s *RecurrenceServiceSuite) TestCreateRecurrence() {
	resp, err := s.recurrenceService.CreateRecurrence(s.GetContext(), baseRecurrenceRequest())
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Equal(types.RecurrenceStatusActive, resp.RecurrenceStatus)
	s.Require().NotNil(resp.Preview)
	s.Require().Len(resp.Preview.Base, 2)
	s.Equal(int64(6000), resp.Preview.Base[0].Amount)
	s.Equal(int64(4000), resp.Preview.Base[1].Amount)
}

func (s *RecurrenceServiceSuite) TestCreateRecurrenceSplitSumMismatch() {
	req := baseRecurrenceRequest()
	req.SplitRules[1].Amount = 3000
	_, err := s.recurrenceService.CreateRecurrence(s.GetContext(), req)
	s.True(ierr.IsValidation(err))
}

func (s *RecurrenceServiceSuite) TestCreateRecurrenceWithoutLiableFails() {
	req := baseRecurrenceRequest()
	req.SplitRules[0].Liable = false
	_, err := s.recurrenceService.CreateRecurrence(s.GetContext(), req)
	s.True(ierr.IsValidation(err))
}

func (s *RecurrenceServiceSuite) TestCreateRecurrenceRejectsNegativeSplitPreview() {
	req := baseRecurrenceRequest()
	req.SplitRules = []dto.SplitRuleRequest{
		{RecipientID: "rcp_school", Amount: 9995, Liable: true, ApplyPaymentRules: true},
		{RecipientID: "rcp_platform", Amount: 5, ApplyPaymentRules: true},
	}
	req.PaymentRules = []dto.PaymentRuleRequest{
		{Type: types.PaymentRuleDiscountBeforeExpiration, Amount: 20, Days: 5},
	}

	_, err := s.recurrenceService.CreateRecurrence(s.GetContext(), req)
	s.True(ierr.IsNegativeSplitAmount(err))
}

func (s *RecurrenceServiceSuite) TestCreateRecurrenceRejectsUnpayableFeeShare() {
	s.GetGateway().Fees[types.PaymentMethodCreditCard] = 2000

	req := baseRecurrenceRequest()
	req.SplitRules = []dto.SplitRuleRequest{
		{RecipientID: "rcp_school", Amount: 9000, Liable: true},
		{RecipientID: "rcp_platform", Amount: 1000, ChargeProcessingFee: true},
	}

	_, err := s.recurrenceService.CreateRecurrence(s.GetContext(), req)
	s.True(ierr.IsNegativeSplitAmount(err))
}

func (s *RecurrenceServiceSuite) TestUpdateRecurrence() {
	created, err := s.recurrenceService.CreateRecurrence(s.GetContext(), baseRecurrenceRequest())
	s.Require().NoError(err)

	updated, err := s.recurrenceService.UpdateRecurrence(s.GetContext(), created.ID, dto.UpdateRecurrenceRequest{
		Name: lo.ToPtr("tuition 2027"),
	})
	s.NoError(err)
	s.Equal("tuition 2027", updated.Name)
	s.Equal(int64(10000), updated.Amount)
}

func (s *RecurrenceServiceSuite) TestUpdateRecurrenceBlockedByOpenBoleto() {
	created, err := s.recurrenceService.CreateRecurrence(s.GetContext(), baseRecurrenceRequest())
	s.Require().NoError(err)

	user, err := s.endUserService.CreateEndUser(s.GetContext(), dto.CreateEndUserRequest{
		SystemID: "stu-1",
		Name:     "Maria Souza",
		Email:    "maria@example.com",
	})
	s.Require().NoError(err)

	ch, err := s.chargeService.CreateCharge(s.GetContext(), dto.CreateChargeRequest{
		RecurrenceID: created.ID,
		EndUserID:    user.ID,
	})
	s.Require().NoError(err)
	s.Require().Len(ch.Invoices, 1)

	// a pending boleto leaves an unexpired instrument outstanding
	_, err = s.invoiceService.PayInvoice(s.GetContext(), ch.Invoices[0].Invoice.ID, dto.PayInvoiceRequest{
		PaymentMethod: types.PaymentMethodBoleto,
		Amount:        ch.Invoices[0].FinalAmount,
	})
	s.Require().NoError(err)

	_, err = s.recurrenceService.UpdateRecurrence(s.GetContext(), created.ID, dto.UpdateRecurrenceRequest{
		Name: lo.ToPtr("blocked"),
	})
	s.True(ierr.Is(err, ierr.ErrOpenBoleto))
}

func (s *RecurrenceServiceSuite) TestReactivationRefreshesActivationDate() {
	created, err := s.recurrenceService.CreateRecurrence(s.GetContext(), baseRecurrenceRequest())
	s.Require().NoError(err)
	originalActivation := created.ActivationDate

	_, err = s.recurrenceService.UpdateRecurrence(s.GetContext(), created.ID, dto.UpdateRecurrenceRequest{
		RecurrenceStatus: lo.ToPtr(types.RecurrenceStatusInactive),
	})
	s.Require().NoError(err)

	reactivated, err := s.recurrenceService.UpdateRecurrence(s.GetContext(), created.ID, dto.UpdateRecurrenceRequest{
		RecurrenceStatus: lo.ToPtr(types.RecurrenceStatusActive),
	})
	s.NoError(err)
	s.False(reactivated.ActivationDate.Before(originalActivation))
	s.Equal(types.RecurrenceStatusActive, reactivated.RecurrenceStatus)
}

func (s *RecurrenceServiceSuite) TestListRecurrencesFiltersInactive() {
	first, err := s.recurrenceService.CreateRecurrence(s.GetContext(), baseRecurrenceRequest())
	s.Require().NoError(err)

	req := baseRecurrenceRequest()
	req.Name = "dormant plan"
	second, err := s.recurrenceService.CreateRecurrence(s.GetContext(), req)
	s.Require().NoError(err)
	_, err = s.recurrenceService.UpdateRecurrence(s.GetContext(), second.ID, dto.UpdateRecurrenceRequest{
		RecurrenceStatus: lo.ToPtr(types.RecurrenceStatusInactive),
	})
	s.Require().NoError(err)

	active, err := s.recurrenceService.ListRecurrences(s.GetContext(), &types.RecurrenceFilter{FilterInactive: true})
	s.NoError(err)
	s.Equal(1, active.Pagination.Total)
	s.Equal(first.ID, active.Items[0].ID)

	all, err := s.recurrenceService.ListRecurrences(s.GetContext(), &types.RecurrenceFilter{})
	s.NoError(err)
	s.Equal(2, all.Pagination.Total)
}
