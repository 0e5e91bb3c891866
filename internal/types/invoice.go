package types

import (
	"fmt"

	"github.com/samber/lo"
)

// InvoiceStatus is the externally visible status of an invoice. It is derived
// on read from the persisted transaction status, the due date and the
// recurrence rules, never stored.
type InvoiceStatus string

const (
	InvoiceStatusWaitingPayment        InvoiceStatus = "waiting_payment"
	InvoiceStatusWaitingExpiredPayment InvoiceStatus = "waiting_expired_payment"
	InvoiceStatusNext                  InvoiceStatus = "next"
	InvoiceStatusPaid                  InvoiceStatus = "paid"
	InvoiceStatusExpired               InvoiceStatus = "expired"
	InvoiceStatusSkipped               InvoiceStatus = "skipped"
	InvoiceStatusClosed                InvoiceStatus = "closed"
	InvoiceStatusRefunded              InvoiceStatus = "refunded"
	InvoiceStatusChargedback           InvoiceStatus = "chargedback"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

// TransactionStatus is the payment-gateway-reported state of an invoice's
// transaction. This is a persisted fact, unlike InvoiceStatus.
type TransactionStatus string

const (
	TransactionStatusPaid           TransactionStatus = "paid"
	TransactionStatusWaitingPayment TransactionStatus = "waiting_payment"
	TransactionStatusProcessing     TransactionStatus = "processing"
	TransactionStatusPendingReview  TransactionStatus = "pending_review"
	TransactionStatusPendingRefund  TransactionStatus = "pending_refund"
	TransactionStatusRefused        TransactionStatus = "refused"
	TransactionStatusAuthorized     TransactionStatus = "authorized"
	TransactionStatusExpired        TransactionStatus = "expired"
	TransactionStatusChargedback    TransactionStatus = "chargedback"
	TransactionStatusRefunded       TransactionStatus = "refunded"
)

func (s TransactionStatus) String() string {
	return string(s)
}

func (s TransactionStatus) Validate() error {
	allowed := []TransactionStatus{
		TransactionStatusPaid,
		TransactionStatusWaitingPayment,
		TransactionStatusProcessing,
		TransactionStatusPendingReview,
		TransactionStatusPendingRefund,
		TransactionStatusRefused,
		TransactionStatusAuthorized,
		TransactionStatusExpired,
		TransactionStatusChargedback,
		TransactionStatusRefunded,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid transaction status: %s", s)
	}
	return nil
}

// InvoiceType records how a billing cycle was resolved.
type InvoiceType string

const (
	InvoiceTypeOpen   InvoiceType = "open"
	InvoiceTypeCard   InvoiceType = "card"
	InvoiceTypeBoleto InvoiceType = "boleto"
	InvoiceTypePix    InvoiceType = "pix"
	InvoiceTypeSkip   InvoiceType = "skip"
	InvoiceTypeClose  InvoiceType = "close"
)

func (t InvoiceType) String() string {
	return string(t)
}

// InvoiceOpKind tags which lifecycle operation is being validated against an
// invoice. Each kind has its own eligibility checks.
type InvoiceOpKind string

const (
	InvoiceOpPay         InvoiceOpKind = "pay"
	InvoiceOpSkip        InvoiceOpKind = "skip"
	InvoiceOpForceAmount InvoiceOpKind = "force_amount"
	InvoiceOpClose       InvoiceOpKind = "close"
)
