package ledger

import (
	"time"

	"github.com/openleave/lms-backend-go/internal/domain/leave"
)

// ResetPolicy decides when a user's balance baseline is restored and which
// approved records still count toward it afterwards.
type ResetPolicy interface {
	// ShouldReset reports whether the marker should advance to the current
	// year. lastResetYear is zero for a user never reset before.
	ShouldReset(lastResetYear int, now time.Time) bool

	// Counts reports whether an approved record still consumes balance
	// given the user's last reset year.
	Counts(record leave.LeaveRecord, lastResetYear int) bool
}

// CalendarYearPolicy resets on the first access in a calendar year later
// than the recorded marker; approved records that ended in earlier years
// then stop consuming balance.
type CalendarYearPolicy struct{}

func (CalendarYearPolicy) ShouldReset(lastResetYear int, now time.Time) bool {
	return now.Year() > lastResetYear
}

func (CalendarYearPolicy) Counts(record leave.LeaveRecord, lastResetYear int) bool {
	if lastResetYear == 0 {
		return true
	}
	return record.EndDate.Year() >= lastResetYear
}

// NoResetPolicy never restores the baseline; every approved record counts
// forever.
type NoResetPolicy struct{}

func (NoResetPolicy) ShouldReset(int, time.Time) bool { return false }

func (NoResetPolicy) Counts(leave.LeaveRecord, int) bool { return true }
