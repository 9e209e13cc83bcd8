package finance

import (
	"strings"
	"time"

	"debtdesk-backend/internal/models"
)

// FilterAll is the wildcard value for the status and loan-type criteria.
const FilterAll = "all"

// DateRange bounds loans by booked date. A zero Start or End leaves that
// side unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Filter is the dashboard's search and filter configuration. The zero value
// (empty search, empty status/type, zero range) matches every loan.
type Filter struct {
	SearchTerm string
	Status     string
	LoanType   string
	DateRange  DateRange
}

// Matches reports whether a loan satisfies every criterion of the filter.
// It is a pure predicate over its arguments: no shared state, no ordering
// dependency between loans, so callers may evaluate loans in any order or
// in parallel.
func Matches(loan *models.Loan, filter Filter) bool {
	if loan == nil {
		return false
	}
	return matchesSearch(loan, filter.SearchTerm) &&
		matchesStatus(loan, filter.Status) &&
		matchesType(loan, filter.LoanType) &&
		matchesDateRange(loan, filter.DateRange)
}

// Apply evaluates the filter independently against each loan and returns
// the ones that match, preserving input order.
func Apply(loans []*models.Loan, filter Filter) []*models.Loan {
	matched := make([]*models.Loan, 0, len(loans))
	for _, loan := range loans {
		if Matches(loan, filter) {
			matched = append(matched, loan)
		}
	}
	return matched
}

// matchesSearch does a case-insensitive substring match against the loan's
// searchable fields. A hit on any single field is sufficient.
func matchesSearch(loan *models.Loan, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}

	fields := []string{
		loan.ID,
		loan.CustomerID,
		loan.Description,
		string(loan.Type),
	}
	if loan.Customer != nil {
		fields = append(fields,
			loan.Customer.FirstName,
			loan.Customer.LastName,
			loan.Customer.Phone,
			loan.Customer.Email,
		)
	}

	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesStatus(loan *models.Loan, status string) bool {
	if status == "" || status == FilterAll {
		return true
	}
	return string(loan.Status) == status
}

func matchesType(loan *models.Loan, loanType string) bool {
	if loanType == "" || loanType == FilterAll {
		return true
	}
	return string(loan.Type) == loanType
}

// matchesDateRange compares the loan's booked date against the range.
// Bounds are inclusive.
func matchesDateRange(loan *models.Loan, r DateRange) bool {
	if !r.Start.IsZero() && loan.BookedDate.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && loan.BookedDate.After(r.End) {
		return false
	}
	return true
}
