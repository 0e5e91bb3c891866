package billing

import (
	"time"

	"github.com/paymenu/grouppay/internal/domain/charge"
	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	"github.com/paymenu/grouppay/internal/types"
)

// ResolveStatus derives an invoice's externally visible status. Gateway
// facts win over time; time decides everything else. Total over all valid
// inputs, never errors.
func ResolveStatus(inv *invoice.Invoice, rec *recurrence.Recurrence, now time.Time) types.InvoiceStatus {
	switch inv.Type {
	case types.InvoiceTypeSkip:
		return types.InvoiceStatusSkipped
	case types.InvoiceTypeClose:
		return types.InvoiceStatusClosed
	}

	if inv.TransactionStatus != nil {
		switch *inv.TransactionStatus {
		case types.TransactionStatusChargedback:
			return types.InvoiceStatusChargedback
		case types.TransactionStatusPaid:
			return types.InvoiceStatusPaid
		case types.TransactionStatusRefunded:
			return types.InvoiceStatusRefunded
		case types.TransactionStatusExpired:
			return types.InvoiceStatusExpired
		case types.TransactionStatusWaitingPayment:
			// fall through to the time-derived rules below
		default:
			// Processing, PendingReview, PendingRefund, Refused, Authorized
			return types.InvoiceStatusWaitingPayment
		}
	}

	if isOverdue(inv.Expiration, now) {
		if !rec.AllowPaymentAfterExpiration {
			return types.InvoiceStatusExpired
		}
		if stop := rec.GetPaymentRule(types.PaymentRuleStopPayment); stop != nil {
			if inv.Expiration.AddDate(0, 0, -stop.Days).Before(now) {
				return types.InvoiceStatusExpired
			}
		}
		return types.InvoiceStatusWaitingExpiredPayment
	}

	if start := rec.GetPaymentRule(types.PaymentRuleStartPayment); start != nil {
		if now.AddDate(0, 0, start.Days).Before(dateOf(inv.Expiration)) {
			return types.InvoiceStatusNext
		}
	}

	return types.InvoiceStatusWaitingPayment
}

// chargeStatusPriority orders invoice statuses from most to least severe
// when rolling them up to a single charge-level status.
var chargeStatusPriority = []types.InvoiceStatus{
	types.InvoiceStatusChargedback,
	types.InvoiceStatusRefunded,
	types.InvoiceStatusExpired,
	types.InvoiceStatusWaitingPayment,
	types.InvoiceStatusWaitingExpiredPayment,
}

// ResolveChargeStatus rolls a charge's invoices up to one status. A closed
// charge is Closed no matter what its invoices say.
func ResolveChargeStatus(ch *charge.Charge, invoices []*invoice.Invoice, rec *recurrence.Recurrence, now time.Time) types.InvoiceStatus {
	if ch.IsClosed() {
		return types.InvoiceStatusClosed
	}

	statuses := make(map[types.InvoiceStatus]bool, len(invoices))
	for _, inv := range invoices {
		statuses[ResolveStatus(inv, rec, now)] = true
	}

	for _, s := range chargeStatusPriority {
		if statuses[s] {
			return s
		}
	}
	return types.InvoiceStatusPaid
}

// TotalOpenAmount sums the payable amounts of a charge's outstanding
// invoices. Settled, skipped and closed cycles contribute nothing.
func TotalOpenAmount(invoices []*invoice.Invoice, rec *recurrence.Recurrence, now time.Time) int64 {
	var total int64
	for _, inv := range invoices {
		switch ResolveStatus(inv, rec, now) {
		case types.InvoiceStatusPaid, types.InvoiceStatusSkipped, types.InvoiceStatusClosed:
			continue
		default:
			total += FinalAmount(inv, rec, now)
		}
	}
	return total
}
