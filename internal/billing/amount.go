package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	"github.com/paymenu/grouppay/internal/types"
)

var half = decimal.New(5, -1)

// roundHalfUp rounds to the nearest integer with ties going toward
// positive infinity. Kept exact for compatibility with settled history.
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}

// dateOf truncates an instant to midnight UTC
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isOverdue compares calendar dates, not instants. An invoice due today is
// not overdue.
func isOverdue(expiration, now time.Time) bool {
	return dateOf(expiration).Before(dateOf(now))
}

// ruleAdjustment resolves a payment rule to a concrete amount against the
// given base: the flat amount verbatim, or the percentage of base rounded
// half up.
func ruleAdjustment(rule recurrence.PaymentRule, base int64) int64 {
	if rule.IsPercentage() {
		return roundHalfUp(
			rule.Percentage.
				Mul(decimal.NewFromInt(base)).
				Div(decimal.NewFromInt(100)),
		)
	}
	return rule.Amount
}

// dailyFineAmount accrues the per-day rate over the elapsed fractional days
// since expiration, rounded half up once. Not compounded.
func dailyFineAmount(rule recurrence.PaymentRule, base int64, expiration, now time.Time) int64 {
	elapsed := now.Sub(expiration).Hours() / 24
	if elapsed <= 0 {
		return 0
	}

	var rate decimal.Decimal
	if rule.IsPercentage() {
		rate = rule.Percentage.
			Mul(decimal.NewFromInt(base)).
			Div(decimal.NewFromInt(100))
	} else {
		rate = decimal.NewFromInt(rule.Amount)
	}
	return roundHalfUp(rate.Mul(decimal.NewFromFloat(elapsed)))
}

// discountQualifies reports whether a discount rule applies when paying at
// the given instant. The +1 credits the due date itself as a discount day.
func discountQualifies(rule recurrence.PaymentRule, expiration, now time.Time) bool {
	daysUntil := expiration.Sub(now).Hours() / 24
	return daysUntil+1 > float64(rule.Days)
}

// FinalAmount computes the integer amount currently payable for an invoice.
// Settled invoices return their paid amount verbatim, everything else is
// derived from the base amount, the payment rules and the clock.
func FinalAmount(inv *invoice.Invoice, rec *recurrence.Recurrence, now time.Time) int64 {
	if inv.PaidAmount != nil {
		return *inv.PaidAmount
	}

	base := rec.Amount
	if inv.ForcedAmount != nil {
		base = *inv.ForcedAmount
	}

	if isOverdue(inv.Expiration, now) {
		if !rec.AllowPaymentAfterExpiration {
			return base
		}
		amount := base
		if fine := rec.GetPaymentRule(types.PaymentRuleExpirationFine); fine != nil {
			amount += ruleAdjustment(*fine, base)
		}
		if daily := rec.GetPaymentRule(types.PaymentRuleDailyFine); daily != nil {
			amount += dailyFineAmount(*daily, base, inv.Expiration, now)
		}
		return amount
	}

	amount := base
	for _, rule := range rec.GetPaymentRules(types.PaymentRuleDiscountBeforeExpiration) {
		if discountQualifies(rule, inv.Expiration, now) {
			amount -= ruleAdjustment(rule, base)
		}
	}
	return amount
}
