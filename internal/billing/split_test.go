package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paymenu/grouppay/internal/domain/recurrence"
	ierr "github.com/paymenu/grouppay/internal/errors"
	"github.com/paymenu/grouppay/internal/types"
)

func splitRecurrence(amount int64, splits ...recurrence.SplitRule) *recurrence.Recurrence {
	rec := testRecurrence(amount)
	rec.SplitRules = splits
	return rec
}

func sumAllocations(allocs []Allocation) int64 {
	var sum int64
	for _, a := range allocs {
		sum += a.Amount
	}
	return sum
}

func TestComputeSplitsNoRules(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := splitRecurrence(10000,
		recurrence.SplitRule{RecipientID: "rcp_a", Amount: 6000, Liable: true},
		recurrence.SplitRule{RecipientID: "rcp_b", Amount: 4000},
	)

	allocs, err := ComputeSplits(10000, rec, now.AddDate(0, 0, 5), now)
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, Allocation{RecipientID: "rcp_a", Amount: 6000, Liable: true}, allocs[0])
	assert.Equal(t, Allocation{RecipientID: "rcp_b", Amount: 4000}, allocs[1])
}

func TestComputeSplitsConservation(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := splitRecurrence(10000,
		recurrence.SplitRule{RecipientID: "rcp_a", Amount: 3333, Liable: true, ApplyPaymentRules: true},
		recurrence.SplitRule{RecipientID: "rcp_b", Amount: 3333, ApplyPaymentRules: true},
		recurrence.SplitRule{RecipientID: "rcp_c", Amount: 3334, ApplyPaymentRules: true},
	)
	rec.PaymentRules = []recurrence.PaymentRule{
		flatRule(types.PaymentRuleDiscountBeforeExpiration, 1000, 5),
	}
	expiration := now.AddDate(0, 0, 10)

	// allocations must sum exactly to whatever total the caller fixes
	for _, total := range []int64{9000, 9001, 9002, 8999, 10000} {
		allocs, err := ComputeSplits(total, rec, expiration, now)
		require.NoError(t, err)
		assert.Equal(t, total, sumAllocations(allocs), "total %d", total)
	}
}

func TestComputeSplitsLiableAbsorbsRemainder(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := splitRecurrence(10000,
		recurrence.SplitRule{RecipientID: "rcp_a", Amount: 5000, Liable: true, ApplyPaymentRules: true},
		recurrence.SplitRule{RecipientID: "rcp_b", Amount: 5000, ApplyPaymentRules: true},
	)
	rec.PaymentRules = []recurrence.PaymentRule{
		// 1001 does not divide evenly by two recipients
		flatRule(types.PaymentRuleDiscountBeforeExpiration, 1001, 5),
	}

	allocs, err := ComputeSplits(8999, rec, now.AddDate(0, 0, 10), now)
	require.NoError(t, err)

	// non-liable share is fixed: 5000 - 500; liable takes the rest
	assert.Equal(t, int64(4500), allocs[1].Amount)
	assert.Equal(t, int64(4499), allocs[0].Amount)
	assert.Equal(t, int64(8999), sumAllocations(allocs))
}

func TestComputeSplitsFineDistribution(t *testing.T) {
	expiration := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := expiration.AddDate(0, 0, 4)
	rec := splitRecurrence(10000,
		recurrence.SplitRule{RecipientID: "rcp_a", Amount: 6000, Liable: true, ApplyPaymentRules: true},
		recurrence.SplitRule{RecipientID: "rcp_b", Amount: 4000, ApplyPaymentRules: true},
	)
	rec.PaymentRules = []recurrence.PaymentRule{
		flatRule(types.PaymentRuleExpirationFine, 500, 0),
	}

	allocs, err := ComputeSplits(10500, rec, expiration, now)
	require.NoError(t, err)
	assert.Equal(t, int64(6250), allocs[0].Amount)
	assert.Equal(t, int64(4250), allocs[1].Amount)
	assert.Equal(t, int64(10500), sumAllocations(allocs))
}

func TestComputeSplitsFallbackToLiable(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := splitRecurrence(10000,
		recurrence.SplitRule{RecipientID: "rcp_a", Amount: 6000, Liable: true},
		recurrence.SplitRule{RecipientID: "rcp_b", Amount: 4000},
	)
	rec.PaymentRules = []recurrence.PaymentRule{
		flatRule(types.PaymentRuleDiscountBeforeExpiration, 1000, 5),
	}

	// nobody opted into payment rules, the liable recipient takes the
	// whole discount
	allocs, err := ComputeSplits(9000, rec, now.AddDate(0, 0, 10), now)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), allocs[0].Amount)
	assert.Equal(t, int64(4000), allocs[1].Amount)
}

func TestComputeSplitsNegativeShare(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := splitRecurrence(10000,
		recurrence.SplitRule{RecipientID: "rcp_a", Amount: 9900, Liable: true},
		recurrence.SplitRule{RecipientID: "rcp_b", Amount: 100, ApplyPaymentRules: true},
	)
	rec.PaymentRules = []recurrence.PaymentRule{
		flatRule(types.PaymentRuleDiscountBeforeExpiration, 500, 5),
	}

	_, err := ComputeSplits(9500, rec, now.AddDate(0, 0, 10), now)
	require.Error(t, err)
	assert.True(t, ierr.IsNegativeSplitAmount(err))
}

func TestComputeSplitsNoLiable(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := splitRecurrence(10000,
		recurrence.SplitRule{RecipientID: "rcp_a", Amount: 10000},
	)

	_, err := ComputeSplits(10000, rec, now.AddDate(0, 0, 10), now)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestComputeSplitsDoesNotMutateConfiguration(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := splitRecurrence(10000,
		recurrence.SplitRule{RecipientID: "rcp_a", Amount: 6000, Liable: true, ApplyPaymentRules: true},
		recurrence.SplitRule{RecipientID: "rcp_b", Amount: 4000, ApplyPaymentRules: true},
	)
	rec.PaymentRules = []recurrence.PaymentRule{
		flatRule(types.PaymentRuleDiscountBeforeExpiration, 1000, 5),
	}

	_, err := ComputeSplits(9000, rec, now.AddDate(0, 0, 10), now)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), rec.SplitRules[0].Amount)
	assert.Equal(t, int64(4000), rec.SplitRules[1].Amount)
}

func TestApplyFeeShares(t *testing.T) {
	allocs := []Allocation{
		{RecipientID: "rcp_a", Amount: 6000, Liable: true, ChargeFee: true},
		{RecipientID: "rcp_b", Amount: 3000, ChargeFee: true},
		{RecipientID: "rcp_c", Amount: 1000},
	}

	require.NoError(t, ApplyFeeShares(allocs, 300))

	// proportional to 6000:3000 of the 9000 fee-bearing sum
	assert.Equal(t, int64(5800), allocs[0].Amount)
	assert.Equal(t, int64(2900), allocs[1].Amount)
	// non fee-bearing recipient untouched
	assert.Equal(t, int64(1000), allocs[2].Amount)
}

func TestApplyFeeSharesRemainderToLastBearer(t *testing.T) {
	allocs := []Allocation{
		{RecipientID: "rcp_a", Amount: 5000, ChargeFee: true},
		{RecipientID: "rcp_b", Amount: 5000, ChargeFee: true},
	}

	require.NoError(t, ApplyFeeShares(allocs, 101))
	assert.Equal(t, int64(101), 10000-sumAllocations(allocs))
}

func TestApplyFeeSharesNegative(t *testing.T) {
	allocs := []Allocation{
		{RecipientID: "rcp_a", Amount: 100, ChargeFee: true},
	}

	err := ApplyFeeShares(allocs, 100)
	require.Error(t, err)
	assert.True(t, ierr.IsNegativeSplitAmount(err))
}

func TestApplyFeeSharesNoBearers(t *testing.T) {
	allocs := []Allocation{
		{RecipientID: "rcp_a", Amount: 100},
	}

	require.NoError(t, ApplyFeeShares(allocs, 100))
	assert.Equal(t, int64(100), allocs[0].Amount)
}
