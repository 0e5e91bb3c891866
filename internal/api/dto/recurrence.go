package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paymenu/grouppay/internal/billing"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	"github.com/paymenu/grouppay/internal/types"
)

type SplitRuleRequest struct {
	RecipientID         string `json:"recipient_id" validate:"required"`
	Amount              int64  `json:"amount" validate:"gt=0"`
	Liable              bool   `json:"liable"`
	ChargeProcessingFee bool   `json:"charge_processing_fee"`
	ApplyPaymentRules   bool   `json:"apply_payment_rules"`
}

type PaymentRuleRequest struct {
	Type       types.PaymentRuleType `json:"type" validate:"required"`
	Amount     int64                 `json:"amount" validate:"gte=0"`
	Percentage decimal.Decimal       `json:"percentage"`
	Days       int                   `json:"days" validate:"gte=0"`
}

type CreateRecurrenceRequest struct {
	Name                        string                `json:"name" validate:"required"`
	Description                 string                `json:"description"`
	Amount                      int64                 `json:"amount" validate:"gt=0"`
	Interval                    int                   `json:"interval" validate:"gt=0"`
	IntervalUnit                types.IntervalUnit    `json:"interval_unit" validate:"required"`
	StartAfterDays              int                   `json:"start_after_days" validate:"gte=0"`
	AllowPaymentAfterExpiration bool                  `json:"allow_payment_after_expiration"`
	PaymentMethods              []types.PaymentMethod `json:"payment_methods" validate:"required,min=1"`
	SoftDescriptor              string                `json:"soft_descriptor"`
	SplitRules                  []SplitRuleRequest    `json:"split_rules" validate:"required,min=1"`
	PaymentRules                []PaymentRuleRequest  `json:"payment_rules"`
}

func (r *CreateRecurrenceRequest) ToRecurrence(ctx context.Context) *recurrence.Recurrence {
	base := types.GetDefaultBaseModel(ctx)
	rec := &recurrence.Recurrence{
		ID:                          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RECURRENCE),
		Name:                        r.Name,
		Description:                 r.Description,
		Amount:                      r.Amount,
		Interval:                    r.Interval,
		IntervalUnit:                r.IntervalUnit,
		StartAfterDays:              r.StartAfterDays,
		AllowPaymentAfterExpiration: r.AllowPaymentAfterExpiration,
		PaymentMethods:              r.PaymentMethods,
		RecurrenceStatus:            types.RecurrenceStatusActive,
		ActivationDate:              time.Now().UTC(),
		SoftDescriptor:              r.SoftDescriptor,
		BaseModel:                   base,
	}

	for _, s := range r.SplitRules {
		rec.SplitRules = append(rec.SplitRules, recurrence.SplitRule{
			ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SPLIT_RULE),
			RecurrenceID:        rec.ID,
			RecipientID:         s.RecipientID,
			Amount:              s.Amount,
			Liable:              s.Liable,
			ChargeProcessingFee: s.ChargeProcessingFee,
			ApplyPaymentRules:   s.ApplyPaymentRules,
			BaseModel:           base,
		})
	}
	for _, p := range r.PaymentRules {
		rec.PaymentRules = append(rec.PaymentRules, recurrence.PaymentRule{
			ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_RULE),
			RecurrenceID: rec.ID,
			Type:         p.Type,
			Amount:       p.Amount,
			Percentage:   p.Percentage,
			Days:         p.Days,
			BaseModel:    base,
		})
	}
	return rec
}

type UpdateRecurrenceRequest struct {
	Name             *string                 `json:"name,omitempty"`
	Description      *string                 `json:"description,omitempty"`
	Amount           *int64                  `json:"amount,omitempty"`
	PaymentMethods   []types.PaymentMethod   `json:"payment_methods,omitempty"`
	RecurrenceStatus *types.RecurrenceStatus `json:"recurrence_status,omitempty"`
	SplitRules       []SplitRuleRequest      `json:"split_rules,omitempty"`
	PaymentRules     []PaymentRuleRequest    `json:"payment_rules,omitempty"`
}

// EditRecurrenceRequest is the HTTP shape of an update, carrying the
// target recurrence in the body
type EditRecurrenceRequest struct {
	RecurrenceID string `json:"recurrence_id" validate:"required"`
	UpdateRecurrenceRequest
}

// SplitPreview dry-runs the allocation engine against a recurrence before
// it is saved, so misconfigured splits fail at creation time
type SplitPreview struct {
	// Base is the allocation with no payment rules applied
	Base []billing.Allocation `json:"base"`
	// WithDiscounts applies every discount rule as if all qualified
	WithDiscounts []billing.Allocation `json:"with_discounts,omitempty"`
	// WithFines applies the fine rules as if one day overdue
	WithFines []billing.Allocation `json:"with_fines,omitempty"`
}

type RecurrenceResponse struct {
	*recurrence.Recurrence
}

type CreateRecurrenceResponse struct {
	*RecurrenceResponse
	Preview *SplitPreview `json:"preview,omitempty"`
}

type ListRecurrencesResponse = types.ListResponse[*RecurrenceResponse]
