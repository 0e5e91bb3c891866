package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/paymenu/grouppay/internal/types"
)

func TestNextExpirationMonthly(t *testing.T) {
	rec := testRecurrence(10000)
	rec.StartAfterDays = 5

	// Monday 2026-03-02 + 5 days = Saturday 2026-03-07, rolls to Monday
	start := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)

	due := NextExpiration(start, rec, 0, nil)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), due)

	// second cycle: one month after the unrolled base date
	due = NextExpiration(start, rec, 1, nil)
	assert.Equal(t, time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC), due)
}

func TestNextExpirationWeekly(t *testing.T) {
	rec := testRecurrence(10000)
	rec.IntervalUnit = types.IntervalUnitWeekly
	rec.Interval = 2

	start := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) // Wednesday

	due := NextExpiration(start, rec, 3, nil)
	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), due)
}

func TestNextExpirationYearly(t *testing.T) {
	rec := testRecurrence(10000)
	rec.IntervalUnit = types.IntervalUnitYearly

	start := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	due := NextExpiration(start, rec, 2, nil)
	assert.Equal(t, time.Date(2028, 3, 6, 0, 0, 0, 0, time.UTC), due)
}

func TestNextExpirationSkipsHolidays(t *testing.T) {
	rec := testRecurrence(10000)

	// Thursday, with Thursday and Friday as holidays: rolls over the
	// weekend to Monday
	start := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	holidays := NewHolidaySet([]time.Time{
		time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
	})

	due := NextExpiration(start, rec, 0, holidays)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), due)
}

func TestNextExpirationNormalizesToMidnightUTC(t *testing.T) {
	rec := testRecurrence(10000)

	start := time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC) // Wednesday
	due := NextExpiration(start, rec, 0, nil)

	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), due)
	assert.Equal(t, time.UTC, due.Location())
}
