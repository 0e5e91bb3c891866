package billing

import (
	"time"

	"github.com/paymenu/grouppay/internal/domain/charge"
	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
)

// Operation is a tagged request against an invoice's lifecycle. Kind picks
// the validation variant, the other fields are read per kind.
type Operation struct {
	Kind types.InvoiceOpKind
	// Method is the payment method for Pay operations
	Method types.PaymentMethod
	// Amount is the submitted payment amount for Pay, or the override for
	// ForceAmount (zero clears an existing override)
	Amount int64
}

// CheckOperation validates an operation against the invoice's current
// state before any transition runs. Each violation maps to a distinct
// error, and a rejected operation leaves everything unchanged.
func CheckOperation(op Operation, ch *charge.Charge, inv *invoice.Invoice, rec *recurrence.Recurrence, now time.Time) error {
	switch op.Kind {
	case types.InvoiceOpClose:
		// Close is idempotent, a closed charge accepts it as a no-op
		return nil
	case types.InvoiceOpPay:
		if ch.IsClosed() {
			return closedError(ch.ID)
		}
		return checkPay(op, inv, rec, now)
	case types.InvoiceOpSkip:
		if ch.IsClosed() {
			return closedError(ch.ID)
		}
		return checkSkip(inv, rec, now)
	case types.InvoiceOpForceAmount:
		if ch.IsClosed() {
			return closedError(ch.ID)
		}
		return checkForceAmount(op, inv)
	default:
		return ierr.NewError("unknown invoice operation").
			WithReportableDetails(map[string]any{"kind": op.Kind}).
			Mark(ierr.ErrInvalidOperation)
	}
}

func checkPay(op Operation, inv *invoice.Invoice, rec *recurrence.Recurrence, now time.Time) error {
	if err := op.Method.Validate(); err != nil {
		return ierr.WithError(err).
			WithHint("Pay with credit_card, boleto or pix").
			Mark(ierr.ErrInvalidPaymentMethod)
	}
	if !rec.AllowsMethod(op.Method) {
		return ierr.NewError("payment method not configured on the recurrence").
			WithHint("The recurrence does not accept this payment method").
			WithReportableDetails(map[string]any{"payment_method": op.Method}).
			Mark(ierr.ErrInvalidPaymentMethod)
	}

	switch status := ResolveStatus(inv, rec, now); status {
	case types.InvoiceStatusNext:
		return ierr.NewError("payment window has not opened yet").
			WithHint("The recurrence's start payment rule blocks payment this far ahead of the due date").
			Mark(ierr.ErrStartDateRule)
	case types.InvoiceStatusWaitingPayment, types.InvoiceStatusWaitingExpiredPayment:
		// payable
	default:
		return ierr.NewError("invoice is not payable in its current status").
			WithReportableDetails(map[string]any{"invoice_status": status}).
			Mark(ierr.ErrInvalidStatus)
	}

	if final := FinalAmount(inv, rec, now); op.Amount != final {
		return ierr.NewError("submitted amount does not match the payable amount").
			WithHint("Partial payments are not accepted").
			WithReportableDetails(map[string]any{
				"submitted_amount": op.Amount,
				"final_amount":     final,
			}).
			Mark(ierr.ErrInvalidAmount)
	}

	// A second pending boleto for the same cycle would create a duplicate
	// payable instrument
	if op.Method == types.PaymentMethodBoleto && inv.HasOpenInstrument(now) {
		return ierr.NewError("an unexpired payment instrument already exists for this invoice").
			WithHint("Wait for the existing boleto to expire or be paid").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrInvalidAmount)
	}

	return nil
}

func checkSkip(inv *invoice.Invoice, rec *recurrence.Recurrence, now time.Time) error {
	switch status := ResolveStatus(inv, rec, now); status {
	case types.InvoiceStatusWaitingPayment, types.InvoiceStatusWaitingExpiredPayment, types.InvoiceStatusNext:
		return nil
	default:
		return ierr.NewError("invoice cannot be skipped in its current status").
			WithReportableDetails(map[string]any{"invoice_status": status}).
			Mark(ierr.ErrInvalidStatus)
	}
}

func checkForceAmount(op Operation, inv *invoice.Invoice) error {
	if inv.IsPaid() {
		return ierr.NewError("cannot override the amount of a paid invoice").
			Mark(ierr.ErrInvalidStatus)
	}
	if op.Amount < 0 {
		return ierr.NewError("forced amount cannot be negative").
			WithReportableDetails(map[string]any{"amount": op.Amount}).
			Mark(ierr.ErrInvalidAmount)
	}
	// Zero clears the override, which requires one to exist
	if op.Amount == 0 && inv.ForcedAmount == nil {
		return ierr.NewError("no forced amount to remove").
			WithHint("The invoice has no amount override set").
			Mark(ierr.ErrInvalidPaymentMethod)
	}
	return nil
}

func closedError(chargeID string) error {
	return ierr.NewError("charge is closed").
		WithHint("A closed charge accepts no further operations").
		WithReportableDetails(map[string]any{"charge_id": chargeID}).
		Mark(ierr.ErrChargeClosed)
}
