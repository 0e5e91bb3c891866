package billing

import (
	"time"

	"github.com/paymenu/grouppay/internal/domain/charge"
	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
)

// TransactionResult is what the payment provider reported for one
// settlement attempt.
type TransactionResult struct {
	Status        types.TransactionStatus
	Method        types.PaymentMethod
	TransactionID string
	// SettledAmount is the amount actually captured, meaningful when Paid
	SettledAmount int64
	// Instruction fields carry the boleto/pix payload for pending payments
	InstructionURL        string
	InstructionCode       string
	InstructionExpiration time.Time
}

// typeForMethod maps a payment method to the invoice type recorded on a
// confirmed payment
func typeForMethod(m types.PaymentMethod) types.InvoiceType {
	switch m {
	case types.PaymentMethodCreditCard:
		return types.InvoiceTypeCard
	case types.PaymentMethodBoleto:
		return types.InvoiceTypeBoleto
	case types.PaymentMethodPix:
		return types.InvoiceTypePix
	default:
		return types.InvoiceTypeOpen
	}
}

// Settle applies a provider transaction result to the invoice. It returns
// whether the charge's schedule should advance: only a confirmed Paid
// settlement moves the pointer, a pending asynchronous payment records its
// instructions and waits.
func Settle(inv *invoice.Invoice, res TransactionResult, now time.Time) (bool, error) {
	if res.Status != types.TransactionStatusPaid && res.Status != types.TransactionStatusWaitingPayment {
		return false, ierr.NewError("unexpected transaction status on settlement").
			WithHint("Only paid and waiting_payment results settle an invoice").
			WithReportableDetails(map[string]any{
				"transaction_status": res.Status,
				"transaction_id":     res.TransactionID,
			}).
			Mark(ierr.ErrPaymentError)
	}

	status := res.Status
	inv.PaymentMethod = res.Method
	inv.TransactionStatus = &status
	if res.TransactionID != "" {
		txID := res.TransactionID
		inv.TransactionID = &txID
	}
	inv.UpdatedAt = now

	if status == types.TransactionStatusPaid {
		settled := res.SettledAmount
		inv.PaidAmount = &settled
		inv.Type = typeForMethod(res.Method)
		return true, nil
	}

	// Pending asynchronous payment: keep the cycle open and attach the
	// instructions the end user needs to finish paying
	if res.Method.IsAsynchronous() {
		inv.PaymentInfo = &invoice.PaymentInfo{
			ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_INFO),
			InvoiceID:  inv.ID,
			URL:        res.InstructionURL,
			Code:       res.InstructionCode,
			Expiration: res.InstructionExpiration,
			BaseModel: types.BaseModel{
				AccountID: inv.AccountID,
				Status:    types.StatusPublished,
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
	}
	return false, nil
}

// Skip resolves the current cycle without payment. The invoice is marked
// as skipped and the schedule advances.
func Skip(inv *invoice.Invoice, now time.Time) {
	paid := types.TransactionStatusPaid
	inv.Type = types.InvoiceTypeSkip
	inv.PaymentMethod = types.PaymentMethodNone
	inv.TransactionStatus = &paid
	inv.UpdatedAt = now
}

// Close terminates a charge's schedule. Idempotent: closing a closed
// charge changes nothing.
func Close(ch *charge.Charge, now time.Time) {
	if ch.IsClosed() {
		return
	}
	ch.Close()
	ch.UpdatedAt = now
}

// Advance opens the next billing cycle for a charge: computes the next
// expiration, creates the open invoice at the current pointer and moves
// the pointer forward. It refuses to supersede an open unpaid invoice.
func Advance(ch *charge.Charge, rec *recurrence.Recurrence, current *invoice.Invoice, holidays HolidaySet, now time.Time) (*invoice.Invoice, error) {
	if ch.IsClosed() {
		return nil, ierr.NewError("cannot advance a closed charge").
			WithHint("The charge schedule has been terminated").
			Mark(ierr.ErrChargeClosed)
	}
	if current != nil && !cycleResolved(current) {
		return nil, ierr.NewError("current invoice is still open").
			WithHint("The open invoice must be paid or skipped before the next cycle starts").
			WithReportableDetails(map[string]any{"invoice_id": current.ID}).
			Mark(ierr.ErrInvalidStatus)
	}

	expiration := NextExpiration(ch.CreatedAt, rec, ch.SchedulePointer, holidays)

	next := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		ShortID:       types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_INVOICE),
		ChargeID:      ch.ID,
		RecurrenceID:  ch.RecurrenceID,
		EndUserID:     ch.EndUserID,
		Pointer:       ch.SchedulePointer,
		Expiration:    expiration,
		PaymentMethod: types.PaymentMethodNone,
		Type:          types.InvoiceTypeOpen,
		BaseModel: types.BaseModel{
			AccountID: ch.AccountID,
			Status:    types.StatusPublished,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	ch.SchedulePointer++
	ch.NextExpiration = &expiration
	ch.CurrentInvoiceID = &next.ID
	ch.UpdatedAt = now

	return next, nil
}

// cycleResolved reports whether an invoice no longer blocks the schedule
func cycleResolved(inv *invoice.Invoice) bool {
	switch inv.Type {
	case types.InvoiceTypeSkip, types.InvoiceTypeClose:
		return true
	}
	return inv.IsPaid()
}
