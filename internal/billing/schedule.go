package billing

import (
	"time"

	"github.com/paymenu/grouppay/internal/domain/recurrence"
	"github.com/paymenu/grouppay/internal/types"
)

// HolidaySet answers whether a calendar date is a configured holiday.
// Keys are midnight UTC dates.
type HolidaySet map[time.Time]bool

// NewHolidaySet normalizes a list of holiday dates into a lookup set
func NewHolidaySet(dates []time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[dateOf(d)] = true
	}
	return set
}

// NextExpiration computes the due date of the given cycle: the charge
// start offset by StartAfterDays, advanced cycle intervals, normalized to
// midnight UTC and rolled forward past holidays and weekends.
func NextExpiration(start time.Time, rec *recurrence.Recurrence, cycle int32, holidays HolidaySet) time.Time {
	due := dateOf(start).AddDate(0, 0, rec.StartAfterDays)

	steps := rec.Interval * int(cycle)
	switch rec.IntervalUnit {
	case types.IntervalUnitYearly:
		due = due.AddDate(steps, 0, 0)
	case types.IntervalUnitWeekly:
		due = due.AddDate(0, 0, 7*steps)
	default:
		due = due.AddDate(0, steps, 0)
	}

	for holidays[due] || due.Weekday() == time.Saturday || due.Weekday() == time.Sunday {
		due = due.AddDate(0, 0, 1)
	}
	return due
}
