package invoice

import (
	"time"

	"github.com/paymenu/grouppay/internal/types"
)

// Invoice is one billing cycle of a charge. It stores only facts reported
// by the payment provider or set by lifecycle operations. The visible
// status and the amount owed are derived at read time.
type Invoice struct {
	ID string `json:"id" db:"id"`
	// ShortID is the human-facing invoice reference (FT-XXXXXXXX)
	ShortID      string `json:"short_id" db:"short_id"`
	ChargeID     string `json:"charge_id" db:"charge_id"`
	RecurrenceID string `json:"recurrence_id" db:"recurrence_id"`
	EndUserID    string `json:"end_user_id" db:"end_user_id"`
	// Pointer is the schedule position this invoice was generated for
	Pointer int32 `json:"pointer" db:"pointer"`
	// Expiration is the due date, normalized to midnight UTC and rolled
	// past holidays and weekends
	Expiration time.Time `json:"expiration" db:"expiration"`
	// TransactionStatus is the provider-reported state, nil until a payment
	// attempt has been made
	TransactionStatus *types.TransactionStatus `json:"transaction_status,omitempty" db:"transaction_status"`
	// TransactionID is the provider transaction reference
	TransactionID *string `json:"transaction_id,omitempty" db:"transaction_id"`
	// PaymentMethod is how the invoice was (or is being) paid
	PaymentMethod types.PaymentMethod `json:"payment_method" db:"payment_method"`
	// Type records how the cycle was resolved, open until settled
	Type types.InvoiceType `json:"type" db:"type"`
	// ForcedAmount overrides the recurrence amount for this cycle only
	ForcedAmount *int64 `json:"forced_amount,omitempty" db:"forced_amount"`
	// PaidAmount is the exact amount settled, recorded on full payment
	PaidAmount *int64 `json:"paid_amount,omitempty" db:"paid_amount"`

	// PaymentInfo carries the pending instructions for boleto and pix
	PaymentInfo *PaymentInfo `json:"payment_info,omitempty" db:"-"`

	types.BaseModel
}

// PaymentInfo holds the out-of-band payment instructions issued by the
// provider for asynchronous methods.
type PaymentInfo struct {
	ID        string `json:"id" db:"id"`
	InvoiceID string `json:"invoice_id" db:"invoice_id"`
	// URL is where the end user views or downloads the instructions
	URL string `json:"url" db:"url"`
	// Code is the boleto barcode or the pix copy-and-paste payload
	Code string `json:"code" db:"code"`
	// Expiration is when the instrument stops being payable
	Expiration time.Time `json:"expiration" db:"expiration"`

	types.BaseModel
}

// IsSettled reports whether a provider transaction reached a terminal or
// pending state for this invoice
func (i *Invoice) IsSettled() bool {
	return i.TransactionStatus != nil
}

// IsPaid reports whether the provider confirmed full payment
func (i *Invoice) IsPaid() bool {
	return i.TransactionStatus != nil && *i.TransactionStatus == types.TransactionStatusPaid
}

// HasOpenInstrument reports whether unexpired payment instructions exist,
// which blocks issuing a second boleto for the same cycle
func (i *Invoice) HasOpenInstrument(now time.Time) bool {
	return i.PaymentInfo != nil && i.PaymentInfo.Expiration.After(now)
}
