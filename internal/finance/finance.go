// Package finance holds the pure loan-book calculations: interest accrual,
// overdue detection and collection priority. Every function takes the
// evaluation instant explicitly instead of reading the wall clock, so results
// are deterministic and safe to call concurrently.
package finance

import (
	"math"
	"time"

	"debtdesk-backend/internal/models"
)

const hoursPerDay = 24

// PriorityLevel represents collection priority for a loan
type PriorityLevel string

const (
	PriorityHigh   PriorityLevel = "high"
	PriorityMedium PriorityLevel = "medium"
	PriorityLow    PriorityLevel = "low"
)

// Escalation thresholds. Either axis alone is enough to escalate.
const (
	highPriorityDays      = 30
	highPriorityBalance   = 1_000_000
	mediumPriorityDays    = 7
	mediumPriorityBalance = 500_000
)

// AccruedInterest computes simple (non-compounding) interest prorated daily
// over a 365-day year: principal x (rate/100) x days / 365. A zero, negative
// or absent input yields 0 rather than an error.
func AccruedInterest(principal, annualRatePercent float64, days int) float64 {
	if principal <= 0 || annualRatePercent <= 0 || days <= 0 {
		return 0
	}
	return principal * (annualRatePercent / 100) * float64(days) / 365
}

// DaysElapsed returns whole days between from and now, fractional days
// truncated. Returns 0 when now is not after from.
func DaysElapsed(from, now time.Time) int {
	if !now.After(from) {
		return 0
	}
	return int(now.Sub(from).Hours() / hoursPerDay)
}

// CurrentBalance returns the loan's outstanding amount at the given instant:
// the persisted balance plus interest accrued since the booked date. Loans
// that are not open are frozen and report 0.
func CurrentBalance(loan *models.Loan, now time.Time) float64 {
	if loan == nil || !loan.IsOpen() {
		return 0
	}
	days := DaysElapsed(loan.BookedDate, now)
	return loan.Balance + AccruedInterest(loan.Principal, loan.InterestRate, days)
}

// IsOverdue reports whether an open loan's due date has passed. The
// comparison is strict: a loan due exactly at now is not overdue, and
// non-open loans are never overdue.
func IsOverdue(loan *models.Loan, now time.Time) bool {
	if loan == nil || !loan.IsOpen() {
		return false
	}
	return loan.DueDate.Before(now)
}

// DaysOverdue returns how many days past due the loan is, rounding partial
// days up so any time past the due date counts as a full day overdue.
// This is intentionally asymmetric with DaysElapsed, which truncates:
// interest accrues only on completed days while collections escalate on
// any part of a day.
func DaysOverdue(loan *models.Loan, now time.Time) int {
	if !IsOverdue(loan, now) {
		return 0
	}
	return int(math.Ceil(now.Sub(loan.DueDate).Hours() / hoursPerDay))
}

// Priority classifies a loan for collection follow-up. Open loans escalate on
// either overdue severity or outstanding amount; everything else is low.
// The persisted balance is used, not the projection with accrued interest.
func Priority(loan *models.Loan, now time.Time) PriorityLevel {
	if loan == nil || !loan.IsOpen() {
		return PriorityLow
	}

	overdueDays := DaysOverdue(loan, now)

	if overdueDays > highPriorityDays || loan.Balance > highPriorityBalance {
		return PriorityHigh
	}
	if overdueDays > mediumPriorityDays || loan.Balance > mediumPriorityBalance {
		return PriorityMedium
	}
	return PriorityLow
}
