package dto

import (
	"github.com/paymenu/grouppay/internal/domain/charge"
	"github.com/paymenu/grouppay/internal/types"
)

type CreateChargeRequest struct {
	RecurrenceID string `json:"recurrence_id" validate:"required"`
	EndUserID    string `json:"end_user_id" validate:"required"`
}

type ChargeResponse struct {
	*charge.Charge
	// ChargeStatus is the derived rollup of the charge's invoices
	ChargeStatus types.InvoiceStatus `json:"charge_status"`
	// OpenAmount is the sum of all outstanding invoice amounts
	OpenAmount int64              `json:"open_amount"`
	Invoices   []*InvoiceResponse `json:"invoices,omitempty"`
}

type ListChargesResponse = types.ListResponse[*ChargeResponse]
