package dto

import (
	"github.com/paymenu/grouppay/internal/billing"
	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/types"
)

type InvoiceResponse struct {
	*invoice.Invoice
	// InvoiceStatus is derived from the transaction status and the clock
	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
	// FinalAmount is the amount currently payable
	FinalAmount int64 `json:"final_amount"`
	// Splits is the per-recipient allocation of the final amount
	Splits []billing.Allocation `json:"splits,omitempty"`
}

type PayInvoiceRequest struct {
	// InvoiceID identifies the invoice when paying over HTTP, either the
	// internal ID or the FT- short reference
	InvoiceID     string              `json:"invoice_id,omitempty"`
	PaymentMethod types.PaymentMethod `json:"payment_method" validate:"required"`
	// Amount must equal the invoice's final amount exactly
	Amount int64 `json:"amount" validate:"gt=0"`
	// Card overrides the end user's stored card for this payment
	Card *CardRequest `json:"card,omitempty"`
}

type ForceAmountRequest struct {
	InvoiceID string `json:"invoice_id,omitempty"`
	// Amount overrides the cycle amount; zero removes an existing override
	Amount int64 `json:"amount" validate:"gte=0"`
}

// InvoiceRefRequest identifies an invoice for operations that need no
// other input
type InvoiceRefRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required"`
}

type CloseChargeRequest struct {
	ChargeID string `json:"charge_id" validate:"required"`
}

// PostbackRequest is the provider's asynchronous status notification
type PostbackRequest struct {
	TransactionID string                  `json:"transaction_id" validate:"required"`
	Status        types.TransactionStatus `json:"status" validate:"required"`
	// SettledAmount accompanies paid notifications
	SettledAmount int64 `json:"settled_amount"`
}
