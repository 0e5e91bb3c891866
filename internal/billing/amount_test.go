package billing

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/paymenu/grouppay/internal/domain/invoice"
	"github.com/paymenu/grouppay/internal/domain/recurrence"
	"github.com/paymenu/grouppay/internal/types"
)

func testRecurrence(amount int64) *recurrence.Recurrence {
	return &recurrence.Recurrence{
		ID:                          "rec_test",
		Name:                        "monthly plan",
		Amount:                      amount,
		Interval:                    1,
		IntervalUnit:                types.IntervalUnitMonthly,
		AllowPaymentAfterExpiration: true,
		PaymentMethods:              []types.PaymentMethod{types.PaymentMethodBoleto},
		RecurrenceStatus:            types.RecurrenceStatusActive,
	}
}

func testInvoice(expiration time.Time) *invoice.Invoice {
	return &invoice.Invoice{
		ID:            "inv_test",
		ChargeID:      "chg_test",
		RecurrenceID:  "rec_test",
		Expiration:    expiration,
		PaymentMethod: types.PaymentMethodNone,
		Type:          types.InvoiceTypeOpen,
	}
}

func flatRule(t types.PaymentRuleType, amount int64, days int) recurrence.PaymentRule {
	return recurrence.PaymentRule{Type: t, Amount: amount, Days: days}
}

func pctRule(t types.PaymentRuleType, pct string, days int) recurrence.PaymentRule {
	return recurrence.PaymentRule{Type: t, Percentage: decimal.RequireFromString(pct), Days: days}
}

func TestFinalAmountBase(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	inv := testInvoice(now.AddDate(0, 0, 5))

	assert.Equal(t, int64(10000), FinalAmount(inv, rec, now))
}

func TestFinalAmountForcedOverride(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	inv := testInvoice(now.AddDate(0, 0, 5))
	inv.ForcedAmount = lo.ToPtr(int64(7500))

	assert.Equal(t, int64(7500), FinalAmount(inv, rec, now))
}

func TestFinalAmountPaidIsImmutable(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	rec.PaymentRules = []recurrence.PaymentRule{flatRule(types.PaymentRuleExpirationFine, 500, 0)}

	inv := testInvoice(now.AddDate(0, 0, -10))
	inv.PaidAmount = lo.ToPtr(int64(9000))

	// settled invoices return the paid amount verbatim, rules are irrelevant
	assert.Equal(t, int64(9000), FinalAmount(inv, rec, now))
}

func TestFinalAmountExpirationFineFlat(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	rec.PaymentRules = []recurrence.PaymentRule{flatRule(types.PaymentRuleExpirationFine, 500, 0)}

	inv := testInvoice(now.AddDate(0, 0, -3))
	assert.Equal(t, int64(10500), FinalAmount(inv, rec, now))
}

func TestFinalAmountExpirationFinePercentage(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	rec.PaymentRules = []recurrence.PaymentRule{pctRule(types.PaymentRuleExpirationFine, "2.5", 0)}

	inv := testInvoice(now.AddDate(0, 0, -1))
	// 2.5% of 10000 = 250
	assert.Equal(t, int64(10250), FinalAmount(inv, rec, now))
}

func TestFinalAmountLatePaymentForbidden(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	rec.AllowPaymentAfterExpiration = false
	rec.PaymentRules = []recurrence.PaymentRule{flatRule(types.PaymentRuleExpirationFine, 500, 0)}

	inv := testInvoice(now.AddDate(0, 0, -3))
	assert.Equal(t, int64(10000), FinalAmount(inv, rec, now))
}

func TestFinalAmountDailyFineAccrues(t *testing.T) {
	expiration := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	rec.PaymentRules = []recurrence.PaymentRule{flatRule(types.PaymentRuleDailyFine, 100, 0)}

	inv := testInvoice(expiration)

	// 3 whole days overdue
	now := expiration.AddDate(0, 0, 3)
	assert.Equal(t, int64(10300), FinalAmount(inv, rec, now))

	// fractional days round half up: 3.5 days * 100 = 350
	now = expiration.Add(84 * time.Hour)
	assert.Equal(t, int64(10350), FinalAmount(inv, rec, now))
}

func TestFinalAmountFineMonotonicity(t *testing.T) {
	expiration := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	rec.PaymentRules = []recurrence.PaymentRule{
		flatRule(types.PaymentRuleExpirationFine, 500, 0),
		flatRule(types.PaymentRuleDailyFine, 37, 0),
	}
	inv := testInvoice(expiration)

	prev := int64(0)
	for d := 1; d <= 30; d++ {
		amount := FinalAmount(inv, rec, expiration.AddDate(0, 0, d))
		assert.GreaterOrEqual(t, amount, prev, "overdue day %d", d)
		prev = amount
	}
}

func TestFinalAmountDiscountPercentage(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	rec.PaymentRules = []recurrence.PaymentRule{pctRule(types.PaymentRuleDiscountBeforeExpiration, "10", 5)}

	// due in 6 days: 6+1 > 5 qualifies, discount = 1000
	inv := testInvoice(now.AddDate(0, 0, 6))
	assert.Equal(t, int64(9000), FinalAmount(inv, rec, now))

	// due in 3 days: 3+1 <= 5 does not qualify
	inv = testInvoice(now.AddDate(0, 0, 3))
	assert.Equal(t, int64(10000), FinalAmount(inv, rec, now))
}

func TestFinalAmountDiscountsCumulative(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	rec.PaymentRules = []recurrence.PaymentRule{
		flatRule(types.PaymentRuleDiscountBeforeExpiration, 300, 10),
		flatRule(types.PaymentRuleDiscountBeforeExpiration, 200, 5),
	}

	// due in 15 days: both qualify
	inv := testInvoice(now.AddDate(0, 0, 15))
	assert.Equal(t, int64(9500), FinalAmount(inv, rec, now))

	// due in 7 days: only the 5-day rule qualifies
	inv = testInvoice(now.AddDate(0, 0, 7))
	assert.Equal(t, int64(9800), FinalAmount(inv, rec, now))
}

func TestFinalAmountDiscountMonotonicity(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := testRecurrence(10000)
	rec.PaymentRules = []recurrence.PaymentRule{
		flatRule(types.PaymentRuleDiscountBeforeExpiration, 100, 3),
		flatRule(types.PaymentRuleDiscountBeforeExpiration, 100, 7),
		flatRule(types.PaymentRuleDiscountBeforeExpiration, 100, 14),
	}

	// the earlier the payment relative to the due date, the lower the amount
	prev := FinalAmount(testInvoice(now.AddDate(0, 0, 1)), rec, now)
	for d := 2; d <= 20; d++ {
		amount := FinalAmount(testInvoice(now.AddDate(0, 0, d)), rec, now)
		assert.LessOrEqual(t, amount, prev, "due in %d days", d)
		prev = amount
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"2.4", 2},
		{"2.5", 3},
		{"2.6", 3},
		{"-2.5", -2}, // ties go toward positive infinity
		{"0", 0},
		{"10.0001", 10},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, roundHalfUp(decimal.RequireFromString(c.in)), "round(%s)", c.in)
	}
}
