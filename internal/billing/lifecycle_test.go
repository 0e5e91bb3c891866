package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paymenu/grouppay/internal/domain/charge"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
)

func testCharge(created time.Time) *charge.Charge {
	return &charge.Charge{
		ID:           "chg_test",
		RecurrenceID: "rec_test",
		EndUserID:    "eu_test",
		BaseModel: types.BaseModel{
			AccountID: "acc_test",
			Status:    types.StatusPublished,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}

func TestSettlePaid(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	inv := testInvoice(now.AddDate(0, 0, 2))

	advance, err := Settle(inv, TransactionResult{
		Status:        types.TransactionStatusPaid,
		Method:        types.PaymentMethodCreditCard,
		TransactionID: "tx_123",
		SettledAmount: 10000,
	}, now)

	require.NoError(t, err)
	assert.True(t, advance)
	assert.Equal(t, types.InvoiceTypeCard, inv.Type)
	assert.Equal(t, types.PaymentMethodCreditCard, inv.PaymentMethod)
	require.NotNil(t, inv.PaidAmount)
	assert.Equal(t, int64(10000), *inv.PaidAmount)
	require.NotNil(t, inv.TransactionID)
	assert.Equal(t, "tx_123", *inv.TransactionID)
}

func TestSettlePendingBoleto(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	inv := testInvoice(now.AddDate(0, 0, 2))
	inv.AccountID = "acc_test"

	advance, err := Settle(inv, TransactionResult{
		Status:                types.TransactionStatusWaitingPayment,
		Method:                types.PaymentMethodBoleto,
		TransactionID:         "tx_456",
		InstructionURL:        "https://provider.example/boleto/tx_456",
		InstructionCode:       "34191.79001 01043.510047",
		InstructionExpiration: now.AddDate(0, 0, 2),
	}, now)

	require.NoError(t, err)
	// pending payment keeps the cycle open
	assert.False(t, advance)
	assert.Equal(t, types.InvoiceTypeOpen, inv.Type)
	assert.Nil(t, inv.PaidAmount)
	require.NotNil(t, inv.PaymentInfo)
	assert.Equal(t, inv.ID, inv.PaymentInfo.InvoiceID)
	assert.Equal(t, "acc_test", inv.PaymentInfo.AccountID)
	assert.True(t, inv.HasOpenInstrument(now))
}

func TestSettleRefused(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	inv := testInvoice(now.AddDate(0, 0, 2))

	_, err := Settle(inv, TransactionResult{
		Status: types.TransactionStatusRefused,
		Method: types.PaymentMethodCreditCard,
	}, now)

	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrPaymentError))
	// a rejected settlement leaves the invoice untouched
	assert.Nil(t, inv.TransactionStatus)
	assert.Equal(t, types.PaymentMethodNone, inv.PaymentMethod)
}

func TestSkipResolvesCycle(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	inv := testInvoice(now.AddDate(0, 0, 2))

	Skip(inv, now)

	assert.Equal(t, types.InvoiceTypeSkip, inv.Type)
	assert.Equal(t, types.PaymentMethodNone, inv.PaymentMethod)
	assert.Equal(t, types.InvoiceStatusSkipped, ResolveStatus(inv, rec, now))
}

func TestCloseIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ch := testCharge(now.AddDate(0, 0, -30))

	Close(ch, now)
	assert.True(t, ch.IsClosed())
	pointer := ch.SchedulePointer

	Close(ch, now.Add(time.Hour))
	assert.True(t, ch.IsClosed())
	assert.Equal(t, pointer, ch.SchedulePointer)
}

func TestAdvanceOpensNextCycle(t *testing.T) {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) // Monday
	now := created
	rec := testRecurrence(10000)
	ch := testCharge(created)

	first, err := Advance(ch, rec, nil, nil, now)
	require.NoError(t, err)

	assert.Equal(t, int32(0), first.Pointer)
	assert.Equal(t, int32(1), ch.SchedulePointer)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), first.Expiration)
	require.NotNil(t, ch.CurrentInvoiceID)
	assert.Equal(t, first.ID, *ch.CurrentInvoiceID)
	require.NotNil(t, ch.NextExpiration)
	assert.Equal(t, first.Expiration, *ch.NextExpiration)
	assert.NotEmpty(t, first.ShortID)

	// paying the first cycle allows the second to open
	paid := types.TransactionStatusPaid
	first.TransactionStatus = &paid

	second, err := Advance(ch, rec, first, nil, now)
	require.NoError(t, err)
	assert.Equal(t, int32(1), second.Pointer)
	assert.Equal(t, int32(2), ch.SchedulePointer)
	assert.True(t, second.Expiration.After(first.Expiration))
}

func TestAdvanceRefusesOpenInvoice(t *testing.T) {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	ch := testCharge(created)

	first, err := Advance(ch, rec, nil, nil, created)
	require.NoError(t, err)

	_, err = Advance(ch, rec, first, nil, created)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrInvalidStatus))
	assert.Equal(t, int32(1), ch.SchedulePointer)
}

func TestAdvanceRefusesClosedCharge(t *testing.T) {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	ch := testCharge(created)
	ch.Close()

	_, err := Advance(ch, rec, nil, nil, created)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrChargeClosed))
}

func TestAdvanceAfterSkip(t *testing.T) {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	now := created
	rec := testRecurrence(10000)
	ch := testCharge(created)

	first, err := Advance(ch, rec, nil, nil, now)
	require.NoError(t, err)

	Skip(first, now)

	second, err := Advance(ch, rec, first, nil, now)
	require.NoError(t, err)
	assert.Equal(t, int32(1), second.Pointer)
}
