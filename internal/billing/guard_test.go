package billing

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
)

func TestCheckOperationPay(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	ch := testCharge(now.AddDate(0, 0, -30))
	inv := testInvoice(now.AddDate(0, 0, 2))

	op := Operation{Kind: types.InvoiceOpPay, Method: types.PaymentMethodBoleto, Amount: 10000}
	require.NoError(t, CheckOperation(op, ch, inv, rec, now))
}

func TestCheckOperationPayWrongMethod(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000) // boleto only
	ch := testCharge(now.AddDate(0, 0, -30))
	inv := testInvoice(now.AddDate(0, 0, 2))

	op := Operation{Kind: types.InvoiceOpPay, Method: types.PaymentMethodPix, Amount: 10000}
	err := CheckOperation(op, ch, inv, rec, now)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrInvalidPaymentMethod))
}

func TestCheckOperationPayAmountMismatch(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	ch := testCharge(now.AddDate(0, 0, -30))
	inv := testInvoice(now.AddDate(0, 0, 2))

	op := Operation{Kind: types.InvoiceOpPay, Method: types.PaymentMethodBoleto, Amount: 9999}
	err := CheckOperation(op, ch, inv, rec, now)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrInvalidAmount))
}

func TestCheckOperationPayBeforeWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	rec.PaymentRules = []recurrence.PaymentRule{flatRule(types.PaymentRuleStartPayment, 0, 5)}
	ch := testCharge(now.AddDate(0, 0, -30))
	inv := testInvoice(now.AddDate(0, 0, 20))

	op := Operation{Kind: types.InvoiceOpPay, Method: types.PaymentMethodBoleto, Amount: 10000}
	err := CheckOperation(op, ch, inv, rec, now)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrStartDateRule))
}

func TestCheckOperationPayAlreadyPaid(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	ch := testCharge(now.AddDate(0, 0, -30))
	inv := withTransactionStatus(testInvoice(now.AddDate(0, 0, 2)), types.TransactionStatusPaid)
	inv.PaidAmount = lo.ToPtr(int64(10000))

	op := Operation{Kind: types.InvoiceOpPay, Method: types.PaymentMethodBoleto, Amount: 10000}
	err := CheckOperation(op, ch, inv, rec, now)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrInvalidStatus))
}

func TestCheckOperationPayDuplicateBoleto(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	ch := testCharge(now.AddDate(0, 0, -30))
	inv := testInvoice(now.AddDate(0, 0, 2))
	inv.PaymentInfo = &invoice.PaymentInfo{
		InvoiceID:  inv.ID,
		Expiration: now.AddDate(0, 0, 1),
	}

	op := Operation{Kind: types.InvoiceOpPay, Method: types.PaymentMethodBoleto, Amount: 10000}
	err := CheckOperation(op, ch, inv, rec, now)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrInvalidAmount))

	// an expired instrument no longer blocks a new boleto
	inv.PaymentInfo.Expiration = now.AddDate(0, 0, -1)
	require.NoError(t, CheckOperation(op, ch, inv, rec, now))
}

func TestCheckOperationClosedCharge(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	ch := testCharge(now.AddDate(0, 0, -30))
	ch.Close()
	inv := testInvoice(now.AddDate(0, 0, 2))

	for _, kind := range []types.InvoiceOpKind{types.InvoiceOpPay, types.InvoiceOpSkip, types.InvoiceOpForceAmount} {
		op := Operation{Kind: kind, Method: types.PaymentMethodBoleto, Amount: 10000}
		err := CheckOperation(op, ch, inv, rec, now)
		require.Error(t, err, "kind %s", kind)
		assert.True(t, ierr.Is(err, ierr.ErrChargeClosed), "kind %s", kind)
	}

	// close stays allowed, it is idempotent
	require.NoError(t, CheckOperation(Operation{Kind: types.InvoiceOpClose}, ch, inv, rec, now))
}

func TestCheckOperationSkip(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	ch := testCharge(now.AddDate(0, 0, -30))

	inv := testInvoice(now.AddDate(0, 0, 2))
	require.NoError(t, CheckOperation(Operation{Kind: types.InvoiceOpSkip}, ch, inv, rec, now))

	paid := withTransactionStatus(testInvoice(now.AddDate(0, 0, 2)), types.TransactionStatusPaid)
	err := CheckOperation(Operation{Kind: types.InvoiceOpSkip}, ch, paid, rec, now)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrInvalidStatus))
}

func TestCheckOperationForceAmount(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	ch := testCharge(now.AddDate(0, 0, -30))
	inv := testInvoice(now.AddDate(0, 0, 2))

	require.NoError(t, CheckOperation(Operation{Kind: types.InvoiceOpForceAmount, Amount: 5000}, ch, inv, rec, now))

	// removing an override that does not exist is rejected
	err := CheckOperation(Operation{Kind: types.InvoiceOpForceAmount, Amount: 0}, ch, inv, rec, now)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrInvalidPaymentMethod))

	// with an override present, zero clears it
	inv.ForcedAmount = lo.ToPtr(int64(5000))
	require.NoError(t, CheckOperation(Operation{Kind: types.InvoiceOpForceAmount, Amount: 0}, ch, inv, rec, now))

	err = CheckOperation(Operation{Kind: types.InvoiceOpForceAmount, Amount: -1}, ch, inv, rec, now)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrInvalidAmount))
}
