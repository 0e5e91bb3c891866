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

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	recurrenceService RecurrenceService
	endUserService    EndUserService
	chargeService     ChargeService
	invoiceService    InvoiceService
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.recurrenceService = NewRecurrenceService(params)
	s.endUserService = NewEndUserService(params)
	s.chargeService = NewChargeService(params)
	s.invoiceService = NewInvoiceService(params)
}

// setupCharge creates an active recurrence, an end user with a stored card
// and one charge with its first open invoice
func (s *InvoiceServiceSuite) setupCharge() *dto.ChargeResponse {
	rec, err := s.recurrenceService.CreateRecurrence(s.GetContext(), baseRecurrenceRequest())
	s.Require().NoError(err)

	user, err := s.endUserService.CreateEndUser(s.GetContext(), dto.CreateEndUserRequest{
		SystemID: "stu-9",
		Name:     "Ana Costa",
		Email:    "ana@example.com",
		Card: &dto.CardRequest{
			Number:         "4111111111111111",
			HolderName:     "ANA COSTA",
			ExpirationDate: "1228",
			CVV:            "123",
		},
	})
	s.Require().NoError(err)

	ch, err := s.chargeService.CreateCharge(s.GetContext(), dto.CreateChargeRequest{
		RecurrenceID: rec.ID,
		EndUserID:    user.ID,
	})
	s.Require().NoError(err)
	s.Require().Len(ch.Invoices, 1)
	return ch
}

func (s *InvoiceServiceSuite) TestPayInvoiceCreditCardAdvancesSchedule() {
	ch := s.setupCharge()
	invID := ch.Invoices[0].Invoice.ID

	paid, err := s.invoiceService.PayInvoice(s.GetContext(), invID, dto.PayInvoiceRequest{
		PaymentMethod: types.PaymentMethodCreditCard,
		Amount:        10000,
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, paid.InvoiceStatus)
	s.Equal(types.InvoiceTypeCard, paid.Type)
	s.Require().NotNil(paid.PaidAmount)
	s.Equal(int64(10000), *paid.PaidAmount)
	s.Equal(int64(10000), paid.FinalAmount)

	// the settled cycle opened the next one
	after, err := s.chargeService.GetCharge(s.GetContext(), ch.ID)
	s.NoError(err)
	s.Equal(int32(2), after.SchedulePointer)
	s.Len(after.Invoices, 2)

	// the provider received the configured split instructions
	s.Require().Len(s.GetGateway().Transactions, 1)
	splits := s.GetGateway().Transactions[0].Splits
	s.Require().Len(splits, 2)
	s.Equal(int64(6000), splits[0].Amount)
	s.Equal(int64(4000), splits[1].Amount)
	s.True(splits[0].Liable)
}

func (s *InvoiceServiceSuite) TestPayInvoiceBoletoStaysPending() {
	ch := s.setupCharge()
	invID := ch.Invoices[0].Invoice.ID

	pending, err := s.invoiceService.PayInvoice(s.GetContext(), invID, dto.PayInvoiceRequest{
		PaymentMethod: types.PaymentMethodBoleto,
		Amount:        10000,
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusWaitingPayment, pending.InvoiceStatus)
	s.Nil(pending.PaidAmount)
	s.Require().NotNil(pending.PaymentInfo)
	s.NotEmpty(pending.PaymentInfo.Code)

	// a pending settlement does not advance the schedule
	after, err := s.chargeService.GetCharge(s.GetContext(), ch.ID)
	s.NoError(err)
	s.Equal(int32(1), after.SchedulePointer)
	s.Len(after.Invoices, 1)
}

func (s *InvoiceServiceSuite) TestPayInvoiceDuplicateBoletoFails() {
	ch := s.setupCharge()
	invID := ch.Invoices[0].Invoice.ID
	req := dto.PayInvoiceRequest{PaymentMethod: types.PaymentMethodBoleto, Amount: 10000}

	_, err := s.invoiceService.PayInvoice(s.GetContext(), invID, req)
	s.Require().NoError(err)

	_, err = s.invoiceService.PayInvoice(s.GetContext(), invID, req)
	s.True(ierr.Is(err, ierr.ErrInvalidAmount))
}

func (s *InvoiceServiceSuite) TestPayInvoiceWrongAmountFails() {
	ch := s.setupCharge()

	_, err := s.invoiceService.PayInvoice(s.GetContext(), ch.Invoices[0].Invoice.ID, dto.PayInvoiceRequest{
		PaymentMethod: types.PaymentMethodCreditCard,
		Amount:        9999,
	})
	s.True(ierr.Is(err, ierr.ErrInvalidAmount))
	s.Empty(s.GetGateway().Transactions)
}

func (s *InvoiceServiceSuite) TestPayInvoiceUnconfiguredMethodFails() {
	ch := s.setupCharge()

	_, err := s.invoiceService.PayInvoice(s.GetContext(), ch.Invoices[0].Invoice.ID, dto.PayInvoiceRequest{
		PaymentMethod: types.PaymentMethodPix,
		Amount:        10000,
	})
	s.True(ierr.Is(err, ierr.ErrInvalidPaymentMethod))
}

func (s *InvoiceServiceSuite) TestPayInvoiceRefusedLeavesInvoiceOpen() {
	ch := s.setupCharge()
	s.GetGateway().NextStatus = lo.ToPtr(types.TransactionStatusRefused)

	_, err := s.invoiceService.PayInvoice(s.GetContext(), ch.Invoices[0].Invoice.ID, dto.PayInvoiceRequest{
		PaymentMethod: types.PaymentMethodCreditCard,
		Amount:        10000,
	})
	s.True(ierr.Is(err, ierr.ErrPaymentError))

	// the invoice is still payable and the schedule did not move
	after, err := s.chargeService.GetCharge(s.GetContext(), ch.ID)
	s.NoError(err)
	s.Equal(int32(1), after.SchedulePointer)
	s.Equal(types.InvoiceStatusWaitingPayment, after.Invoices[0].InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestPayInvoiceByShortID() {
	ch := s.setupCharge()

	paid, err := s.invoiceService.PayInvoice(s.GetContext(), ch.Invoices[0].ShortID, dto.PayInvoiceRequest{
		PaymentMethod: types.PaymentMethodCreditCard,
		Amount:        10000,
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, paid.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestSkipInvoiceAdvancesSchedule() {
	ch := s.setupCharge()

	skipped, err := s.invoiceService.SkipInvoice(s.GetContext(), ch.Invoices[0].Invoice.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusSkipped, skipped.InvoiceStatus)
	s.Equal(types.InvoiceTypeSkip, skipped.Type)
	s.Equal(types.PaymentMethodNone, skipped.PaymentMethod)

	after, err := s.chargeService.GetCharge(s.GetContext(), ch.ID)
	s.NoError(err)
	s.Equal(int32(2), after.SchedulePointer)
	s.Len(after.Invoices, 2)
	// skipped cycles owe nothing
	s.Equal(int64(10000), after.OpenAmount)
}

func (s *InvoiceServiceSuite) TestForceAmount() {
	ch := s.setupCharge()
	invID := ch.Invoices[0].Invoice.ID

	forced, err := s.invoiceService.ForceAmount(s.GetContext(), invID, dto.ForceAmountRequest{Amount: 5000})
	s.NoError(err)
	s.Equal(int64(5000), forced.FinalAmount)

	// payment must match the overridden amount
	paid, err := s.invoiceService.PayInvoice(s.GetContext(), invID, dto.PayInvoiceRequest{
		PaymentMethod: types.PaymentMethodCreditCard,
		Amount:        5000,
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, paid.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestRemoveForcedAmount() {
	ch := s.setupCharge()
	invID := ch.Invoices[0].Invoice.ID

	_, err := s.invoiceService.ForceAmount(s.GetContext(), invID, dto.ForceAmountRequest{Amount: 5000})
	s.Require().NoError(err)

	restored, err := s.invoiceService.ForceAmount(s.GetContext(), invID, dto.ForceAmountRequest{Amount: 0})
	s.NoError(err)
	s.Equal(int64(10000), restored.FinalAmount)

	// removing again is redundant
	_, err = s.invoiceService.ForceAmount(s.GetContext(), invID, dto.ForceAmountRequest{Amount: 0})
	s.True(ierr.Is(err, ierr.ErrInvalidPaymentMethod))
}

func (s *InvoiceServiceSuite) TestCloseCharge() {
	ch := s.setupCharge()

	s.NoError(s.invoiceService.CloseCharge(s.GetContext(), ch.ID))

	after, err := s.chargeService.GetCharge(s.GetContext(), ch.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusClosed, after.ChargeStatus)
	s.Equal(types.InvoiceStatusClosed, after.Invoices[0].InvoiceStatus)
	s.Zero(after.OpenAmount)

	// closing is idempotent
	s.NoError(s.invoiceService.CloseCharge(s.GetContext(), ch.ID))

	// a closed charge accepts no payments
	_, err = s.invoiceService.PayInvoice(s.GetContext(), ch.Invoices[0].Invoice.ID, dto.PayInvoiceRequest{
		PaymentMethod: types.PaymentMethodCreditCard,
		Amount:        10000,
	})
	s.True(ierr.Is(err, ierr.ErrChargeClosed))
}

func (s *InvoiceServiceSuite) TestPostbackPaidAdvancesSchedule() {
	ch := s.setupCharge()
	invID := ch.Invoices[0].Invoice.ID

	pending, err := s.invoiceService.PayInvoice(s.GetContext(), invID, dto.PayInvoiceRequest{
		PaymentMethod: types.PaymentMethodBoleto,
		Amount:        10000,
	})
	s.Require().NoError(err)
	s.Require().NotNil(pending.TransactionID)

	err = s.invoiceService.HandlePostback(s.GetContext(), dto.PostbackRequest{
		TransactionID: *pending.TransactionID,
		Status:        types.TransactionStatusPaid,
		SettledAmount: 10000,
	})
	s.NoError(err)

	after, err := s.chargeService.GetCharge(s.GetContext(), ch.ID)
	s.NoError(err)
	s.Equal(int32(2), after.SchedulePointer)
	s.Equal(types.InvoiceStatusPaid, after.Invoices[0].InvoiceStatus)

	// a duplicate notification is ignored
	err = s.invoiceService.HandlePostback(s.GetContext(), dto.PostbackRequest{
		TransactionID: *pending.TransactionID,
		Status:        types.TransactionStatusPaid,
		SettledAmount: 10000,
	})
	s.NoError(err)
	final, err := s.chargeService.GetCharge(s.GetContext(), ch.ID)
	s.NoError(err)
	s.Equal(int32(2), final.SchedulePointer)
}

func (s *InvoiceServiceSuite) TestPostbackChargebackIsRecorded() {
	ch := s.setupCharge()
	invID := ch.Invoices[0].Invoice.ID

	paid, err := s.invoiceService.PayInvoice(s.GetContext(), invID, dto.PayInvoiceRequest{
		PaymentMethod: types.PaymentMethodCreditCard,
		Amount:        10000,
	})
	s.Require().NoError(err)
	s.Require().NotNil(paid.TransactionID)

	err = s.invoiceService.HandlePostback(s.GetContext(), dto.PostbackRequest{
		TransactionID: *paid.TransactionID,
		Status:        types.TransactionStatusChargedback,
	})
	s.NoError(err)

	got, err := s.invoiceService.GetInvoice(s.GetContext(), invID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusChargedback, got.InvoiceStatus)
}
