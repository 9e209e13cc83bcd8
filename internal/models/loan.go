package models

import (
	"time"
)

// LoanStatus represents loan status
type LoanStatus string

const (
	LoanStatusOpen      LoanStatus = "open"
	LoanStatusClosed    LoanStatus = "closed"
	LoanStatusDefaulted LoanStatus = "defaulted"
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusCancelled LoanStatus = "cancelled"
)

// LoanType represents loan type
type LoanType string

const (
	LoanTypeBusiness    LoanType = "Business"
	LoanTypePersonal    LoanType = "Personal"
	LoanTypeEmergency   LoanType = "Emergency"
	LoanTypeEducation   LoanType = "Education"
	LoanTypeMedical     LoanType = "Medical"
	LoanTypeAgriculture LoanType = "Agriculture"
)

// Loan represents a loan in the collection book.
//
// Balance is the last persisted outstanding amount, authoritative as of
// BookedDate. Interest accrued since then is computed for display only and
// never written back; balance mutation happens server-side through status
// transitions.
type Loan struct {
	ID           string     `json:"id" db:"id"`
	CustomerID   string     `json:"customerId" db:"customer_id"`
	Type         LoanType   `json:"type" db:"type"`
	Description  string     `json:"description" db:"description"`
	Principal    float64    `json:"principal" db:"principal"`
	InterestRate float64    `json:"interestRate" db:"interest_rate"` // annual %, simple
	UpfrontFee   float64    `json:"upfrontFee" db:"upfront_fee"`
	Balance      float64    `json:"balance" db:"balance"`
	Status       LoanStatus `json:"status" db:"status"`
	BookedDate   time.Time  `json:"bookedDate" db:"booked_date"`
	DueDate      time.Time  `json:"dueDate" db:"due_date"`
	ClosedDate   *time.Time `json:"closedDate,omitempty" db:"closed_date"`
	Tenure       int        `json:"tenure" db:"tenure"` // in days
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`

	// Joined data
	Customer *Customer  `json:"customer,omitempty"`
	Notes    []LoanNote `json:"notes,omitempty"`
}

// Customer represents a borrower profile. Display data only, no derived logic.
type Customer struct {
	ID            string    `json:"id" db:"id"`
	FirstName     string    `json:"firstName" db:"first_name"`
	LastName      string    `json:"lastName" db:"last_name"`
	Phone         string    `json:"phone" db:"phone"`
	Email         string    `json:"email" db:"email"`
	Address       string    `json:"address" db:"address"`
	Employer      *string   `json:"employer,omitempty" db:"employer"`
	Occupation    *string   `json:"occupation,omitempty" db:"occupation"`
	MonthlyIncome *float64  `json:"monthlyIncome,omitempty" db:"monthly_income"`
	BankName      *string   `json:"bankName,omitempty" db:"bank_name"`
	AccountNumber *string   `json:"accountNumber,omitempty" db:"account_number"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// FullName returns the customer's display name.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// LoanNote represents a collection note on a loan. Append-only.
type LoanNote struct {
	ID        string    `json:"id" db:"id"`
	LoanID    string    `json:"loanId" db:"loan_id"`
	Content   string    `json:"content" db:"content"`
	CreatedBy string    `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NoteRequest represents the body of an add-note call
type NoteRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// StatusUpdateRequest represents the body of a status transition call
type StatusUpdateRequest struct {
	Status LoanStatus `json:"status" validate:"required"`
}

// LoanStats represents dashboard summary statistics
type LoanStats struct {
	TotalLoans       int     `json:"totalLoans"`
	OpenLoans        int     `json:"openLoans"`
	TotalOutstanding float64 `json:"totalOutstanding"`
	ClosedLoans      int     `json:"closedLoans"`
}

// IsOpen checks if the loan is open
func (l *Loan) IsOpen() bool {
	return l.Status == LoanStatusOpen
}

// IsClosed checks if the loan is closed
func (l *Loan) IsClosed() bool {
	return l.Status == LoanStatusClosed
}

// IsValidStatus reports whether s is one of the accepted loan statuses.
func IsValidStatus(s LoanStatus) bool {
	switch s {
	case LoanStatusOpen, LoanStatusClosed, LoanStatusDefaulted,
		LoanStatusPending, LoanStatusCancelled:
		return true
	}
	return false
}

// IsValidLoanType reports whether t is one of the accepted loan types.
func IsValidLoanType(t LoanType) bool {
	switch t {
	case LoanTypeBusiness, LoanTypePersonal, LoanTypeEmergency,
		LoanTypeEducation, LoanTypeMedical, LoanTypeAgriculture:
		return true
	}
	return false
}
