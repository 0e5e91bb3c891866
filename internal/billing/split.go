package billing

import (
	"time"

	"github.com/paymenu/grouppay/internal/domain/recurrence"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
)

// Allocation is one recipient's computed share of an invoice total.
type Allocation struct {
	RecipientID string `json:"recipient_id"`
	Amount      int64  `json:"amount"`
	Liable      bool   `json:"liable"`
	ChargeFee   bool   `json:"charge_fee"`
}

// ComputeSplits apportions the payable total across the recurrence's split
// recipients. Discount and fine deltas are distributed evenly across the
// recipients opted into payment rules, and the liable recipient absorbs the
// integer remainder so the allocations always sum exactly to total.
func ComputeSplits(total int64, rec *recurrence.Recurrence, expiration, now time.Time) ([]Allocation, error) {
	// Work on copies, never on the recurrence's canonical configuration
	allocs := make([]Allocation, len(rec.SplitRules))
	liableIdx := -1
	for i, s := range rec.SplitRules {
		allocs[i] = Allocation{
			RecipientID: s.RecipientID,
			Amount:      s.Amount,
			Liable:      s.Liable,
			ChargeFee:   s.ChargeProcessingFee,
		}
		if s.Liable {
			liableIdx = i
		}
	}
	if liableIdx < 0 {
		return nil, ierr.NewError("no liable recipient configured").
			WithHint("Exactly one split rule must be marked liable").
			Mark(ierr.ErrValidation)
	}

	selected := selectedIndexes(rec, liableIdx)
	base := rec.Amount

	for _, delta := range ruleDeltas(rec, base, expiration, now) {
		per := delta / int64(len(selected))
		for _, idx := range selected {
			allocs[idx].Amount += per
		}
	}

	for _, a := range allocs {
		if a.Amount < 1 {
			return nil, negativeSplitError(a.RecipientID, a.Amount)
		}
	}

	// Remainder reconciliation: the liable recipient absorbs whatever the
	// even division left over, so the sum always equals total exactly.
	var sum int64
	for _, a := range allocs {
		sum += a.Amount
	}
	allocs[liableIdx].Amount += total - sum
	if allocs[liableIdx].Amount < 1 {
		return nil, negativeSplitError(allocs[liableIdx].RecipientID, allocs[liableIdx].Amount)
	}

	return allocs, nil
}

// selectedIndexes returns the recipients opted into payment rule deltas,
// falling back to the liable recipient when nobody opted in.
func selectedIndexes(rec *recurrence.Recurrence, liableIdx int) []int {
	var selected []int
	for i, s := range rec.SplitRules {
		if s.ApplyPaymentRules {
			selected = append(selected, i)
		}
	}
	if len(selected) == 0 {
		selected = []int{liableIdx}
	}
	return selected
}

// ruleDeltas resolves the applicable payment rules to signed amounts:
// negative for discounts, positive for fines. Fines apply only when the
// invoice is overdue and late payment is allowed, discounts only before
// the due date.
func ruleDeltas(rec *recurrence.Recurrence, base int64, expiration, now time.Time) []int64 {
	var deltas []int64
	if isOverdue(expiration, now) {
		if !rec.AllowPaymentAfterExpiration {
			return nil
		}
		if fine := rec.GetPaymentRule(types.PaymentRuleExpirationFine); fine != nil {
			deltas = append(deltas, ruleAdjustment(*fine, base))
		}
		if daily := rec.GetPaymentRule(types.PaymentRuleDailyFine); daily != nil {
			if accrued := dailyFineAmount(*daily, base, expiration, now); accrued > 0 {
				deltas = append(deltas, accrued)
			}
		}
		return deltas
	}

	for _, rule := range rec.GetPaymentRules(types.PaymentRuleDiscountBeforeExpiration) {
		if discountQualifies(rule, expiration, now) {
			deltas = append(deltas, -ruleAdjustment(rule, base))
		}
	}
	return deltas
}

// ApplyFeeShares deducts the gateway tax from the fee-bearing recipients,
// proportionally to each one's share of the fee-bearers' combined amount.
// The last fee bearer absorbs the division remainder. Mutates allocs.
func ApplyFeeShares(allocs []Allocation, tax int64) error {
	if tax <= 0 {
		return nil
	}

	var feeIdx []int
	var feeSum int64
	for i, a := range allocs {
		if a.ChargeFee {
			feeIdx = append(feeIdx, i)
			feeSum += a.Amount
		}
	}
	if len(feeIdx) == 0 || feeSum <= 0 {
		return nil
	}

	var assigned int64
	for n, idx := range feeIdx {
		share := tax * allocs[idx].Amount / feeSum
		if n == len(feeIdx)-1 {
			share = tax - assigned
		}
		assigned += share

		if allocs[idx].Amount-share < 1 {
			return negativeSplitError(allocs[idx].RecipientID, allocs[idx].Amount-share)
		}
		allocs[idx].Amount -= share
	}
	return nil
}

func negativeSplitError(recipientID string, amount int64) error {
	return ierr.NewError("split allocation dropped below one minor unit").
		WithHint("Adjust the rules or split shares so every recipient keeps a positive amount").
		WithReportableDetails(map[string]any{
			"recipient_id": recipientID,
			"amount":       amount,
		}).
		Mark(ierr.ErrNegativeSplitAmount)
}
