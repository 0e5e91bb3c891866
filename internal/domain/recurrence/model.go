package recurrence

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
)

// Recurrence is the billing template: how much, how often, who receives
// which share and which timing rules adjust the amount.
type Recurrence struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	// Amount is the base cycle amount in minor currency units
	Amount int64 `json:"amount" db:"amount"`
	// Interval is the number of IntervalUnits between expirations
	Interval     int                `json:"interval" db:"interval"`
	IntervalUnit types.IntervalUnit `json:"interval_unit" db:"interval_unit"`
	// StartAfterDays offsets the first expiration from charge creation
	StartAfterDays int `json:"start_after_days" db:"start_after_days"`
	// AllowPaymentAfterExpiration keeps overdue invoices payable, with fines
	AllowPaymentAfterExpiration bool `json:"allow_payment_after_expiration" db:"allow_payment_after_expiration"`
	// PaymentMethods lists the methods end users may pay with
	PaymentMethods []types.PaymentMethod `json:"payment_methods" db:"-"`
	// RecurrenceStatus gates whether the sweeper advances charges
	RecurrenceStatus types.RecurrenceStatus `json:"recurrence_status" db:"recurrence_status"`
	// ActivationDate is when the recurrence last became active
	ActivationDate time.Time `json:"activation_date" db:"activation_date"`
	// GroupID is set while the recurrence is assigned to a group
	GroupID *string `json:"group_id,omitempty" db:"group_id"`
	// SoftDescriptor appears on the end user's card statement
	SoftDescriptor string `json:"soft_descriptor" db:"soft_descriptor"`

	SplitRules   []SplitRule   `json:"split_rules" db:"-"`
	PaymentRules []PaymentRule `json:"payment_rules" db:"-"`

	types.BaseModel
}

// SplitRule allocates a fixed share of each invoice to one recipient.
type SplitRule struct {
	ID           string `json:"id" db:"id"`
	RecurrenceID string `json:"recurrence_id" db:"recurrence_id"`
	// RecipientID is the provider-side recipient receiving this share
	RecipientID string `json:"recipient_id" db:"recipient_id"`
	// Amount is the absolute share in minor units
	Amount int64 `json:"amount" db:"amount"`
	// Liable marks the recipient who absorbs rounding remainders and
	// chargebacks. Exactly one split rule per recurrence is liable.
	Liable bool `json:"liable" db:"liable"`
	// ChargeProcessingFee marks the recipient as bearing gateway fees
	ChargeProcessingFee bool `json:"charge_processing_fee" db:"charge_processing_fee"`
	// ApplyPaymentRules opts this recipient into discount and fine deltas
	ApplyPaymentRules bool `json:"apply_payment_rules" db:"apply_payment_rules"`

	types.BaseModel
}

// PaymentRule is a timing-based adjustment to the invoice amount, or a
// window rule bounding when payment is accepted.
type PaymentRule struct {
	ID           string                `json:"id" db:"id"`
	RecurrenceID string                `json:"recurrence_id" db:"recurrence_id"`
	Type         types.PaymentRuleType `json:"type" db:"type"`
	// Amount is a flat adjustment in minor units, exclusive with Percentage
	Amount int64 `json:"amount" db:"amount"`
	// Percentage is applied to the base amount, exclusive with Amount
	Percentage decimal.Decimal `json:"percentage" db:"percentage"`
	// Days parameterizes the rule: lead days for discounts and the
	// start window, grace days for the stop window
	Days int `json:"days" db:"days"`

	types.BaseModel
}

// IsPercentage reports whether the rule adjusts by a percentage of the base
func (r PaymentRule) IsPercentage() bool {
	return !r.Percentage.IsZero()
}

func (r *Recurrence) IsActive() bool {
	return r.RecurrenceStatus == types.RecurrenceStatusActive
}

// AllowsMethod reports whether the given payment method is configured
func (r *Recurrence) AllowsMethod(m types.PaymentMethod) bool {
	return lo.Contains(r.PaymentMethods, m)
}

// GetPaymentRule returns the first rule of the given type, or nil
func (r *Recurrence) GetPaymentRule(t types.PaymentRuleType) *PaymentRule {
	for i := range r.PaymentRules {
		if r.PaymentRules[i].Type == t {
			return &r.PaymentRules[i]
		}
	}
	return nil
}

// GetPaymentRules returns every rule of the given type
func (r *Recurrence) GetPaymentRules(t types.PaymentRuleType) []PaymentRule {
	return lo.Filter(r.PaymentRules, func(rule PaymentRule, _ int) bool {
		return rule.Type == t
	})
}

// LiableSplit returns the liable split rule, or nil when misconfigured
func (r *Recurrence) LiableSplit() *SplitRule {
	for i := range r.SplitRules {
		if r.SplitRules[i].Liable {
			return &r.SplitRules[i]
		}
	}
	return nil
}

// Validate enforces the structural invariants of a recurrence: positive
// amount, split shares summing exactly to the amount and a single liable
// recipient.
func (r *Recurrence) Validate() error {
	if r.Name == "" {
		return ierr.NewError("recurrence name is required").
			WithHint("Provide a non-empty recurrence name").
			Mark(ierr.ErrValidation)
	}
	if r.Amount <= 0 {
		return ierr.NewError("recurrence amount must be positive").
			WithHint("Amount is expressed in minor currency units and must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	if r.Interval <= 0 {
		return ierr.NewError("recurrence interval must be positive").
			WithHint("Interval counts how many units pass between expirations").
			Mark(ierr.ErrValidation)
	}
	if err := r.IntervalUnit.Validate(); err != nil {
		return ierr.WithError(err).
			WithHint("Interval unit must be monthly, weekly or yearly").
			Mark(ierr.ErrValidation)
	}
	if r.StartAfterDays < 0 {
		return ierr.NewError("start after days cannot be negative").
			WithHint("The first expiration offset must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	if len(r.PaymentMethods) == 0 {
		return ierr.NewError("at least one payment method is required").
			WithHint("Configure credit_card, boleto or pix").
			Mark(ierr.ErrValidation)
	}
	for _, m := range r.PaymentMethods {
		if err := m.Validate(); err != nil {
			return ierr.WithError(err).
				WithHint("Payment methods must be credit_card, boleto or pix").
				Mark(ierr.ErrValidation)
		}
	}

	if err := r.validateSplits(); err != nil {
		return err
	}
	return r.validateRules()
}

func (r *Recurrence) validateSplits() error {
	if len(r.SplitRules) == 0 {
		return ierr.NewError("at least one split rule is required").
			WithHint("Every recurrence needs a recipient to receive the funds").
			Mark(ierr.ErrValidation)
	}

	var sum int64
	liableCount := 0
	seen := make(map[string]bool, len(r.SplitRules))
	for _, s := range r.SplitRules {
		if s.RecipientID == "" {
			return ierr.NewError("split rule recipient is required").
				WithHint("Each split rule must name a recipient").
				Mark(ierr.ErrValidation)
		}
		if seen[s.RecipientID] {
			return ierr.NewError("duplicate split rule recipient").
				WithHint("Each recipient may appear in at most one split rule").
				WithReportableDetails(map[string]any{"recipient_id": s.RecipientID}).
				Mark(ierr.ErrValidation)
		}
		seen[s.RecipientID] = true
		if s.Amount <= 0 {
			return ierr.NewError("split rule amount must be positive").
				WithReportableDetails(map[string]any{"recipient_id": s.RecipientID, "amount": s.Amount}).
				Mark(ierr.ErrValidation)
		}
		sum += s.Amount
		if s.Liable {
			liableCount++
		}
	}

	if sum != r.Amount {
		return ierr.NewError("split rule amounts must sum to the recurrence amount").
			WithHint("The recipient shares must add up exactly to the cycle amount").
			WithReportableDetails(map[string]any{"amount": r.Amount, "split_sum": sum}).
			Mark(ierr.ErrValidation)
	}
	if liableCount != 1 {
		return ierr.NewError("exactly one split rule must be liable").
			WithHint("Mark a single recipient as liable for remainders and chargebacks").
			WithReportableDetails(map[string]any{"liable_count": liableCount}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *Recurrence) validateRules() error {
	for _, rule := range r.PaymentRules {
		if err := rule.Type.Validate(); err != nil {
			return ierr.WithError(err).
				WithHint("Unknown payment rule type").
				Mark(ierr.ErrValidation)
		}
		if rule.Days < 0 {
			return ierr.NewError("payment rule days cannot be negative").
				WithReportableDetails(map[string]any{"type": rule.Type, "days": rule.Days}).
				Mark(ierr.ErrValidation)
		}
		if rule.Amount < 0 || rule.Percentage.IsNegative() {
			return ierr.NewError("payment rule adjustment cannot be negative").
				WithReportableDetails(map[string]any{"type": rule.Type}).
				Mark(ierr.ErrValidation)
		}
		if rule.Amount > 0 && rule.IsPercentage() {
			return ierr.NewError("payment rule cannot set both amount and percentage").
				WithReportableDetails(map[string]any{"type": rule.Type}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
