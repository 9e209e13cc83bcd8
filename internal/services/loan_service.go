package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"debtdesk-backend/internal/finance"
	"debtdesk-backend/internal/models"
	"debtdesk-backend/internal/utils"
)

// LoanService handles loan-related business logic
type LoanService struct {
	db *sql.DB
}

// NewLoanService creates a new loan service
func NewLoanService(db *sql.DB) *LoanService {
	return &LoanService{db: db}
}

const loanColumns = `
	l.id, l.customer_id, l.type, l.description, l.principal, l.interest_rate,
	l.upfront_fee, l.balance, l.status, l.booked_date, l.due_date,
	l.closed_date, l.tenure, l.created_at, l.updated_at
`

const customerColumns = `
	c.id, c.first_name, c.last_name, c.phone, c.email, c.address,
	c.employer, c.occupation, c.monthly_income, c.bank_name, c.account_number,
	c.created_at
`

// ListLoans retrieves all loans with their customer profiles and applies the
// filter in memory with the pure evaluator, so the list endpoint and any
// client-side filtering agree on semantics.
func (s *LoanService) ListLoans(filter finance.Filter) ([]*models.Loan, error) {
	query := `
		SELECT ` + loanColumns + `, ` + customerColumns + `
		FROM loans l
		INNER JOIN customers c ON l.customer_id = c.id
		ORDER BY l.due_date ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoanWithCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loans: %w", err)
	}

	return finance.Apply(loans, filter), nil
}

// GetLoanByID retrieves a loan with its customer profile and notes
func (s *LoanService) GetLoanByID(loanID string) (*models.Loan, error) {
	query := `
		SELECT ` + loanColumns + `, ` + customerColumns + `
		FROM loans l
		INNER JOIN customers c ON l.customer_id = c.id
		WHERE l.id = ?
	`

	row := s.db.QueryRow(query, loanID)
	loan, err := scanLoanWithCustomer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("loan not found")
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	notes, err := s.getLoanNotes(loanID)
	if err != nil {
		return nil, err
	}
	loan.Notes = notes

	return loan, nil
}

// UpdateLoanStatus transitions a loan to a new status. Closing a loan stamps
// the closed date and zeroes the persisted balance; the server owns that
// mutation, clients only ever request the transition.
func (s *LoanService) UpdateLoanStatus(loanID string, status models.LoanStatus) (*models.Loan, error) {
	if !models.IsValidStatus(status) {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	loan, err := s.GetLoanByID(loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status == status {
		return loan, nil
	}
	if loan.IsClosed() {
		return nil, fmt.Errorf("loan is already closed")
	}

	now := time.Now()
	var closedDate *time.Time
	balance := loan.Balance
	if status == models.LoanStatusClosed {
		closedDate = &now
		balance = 0
	} else {
		closedDate = loan.ClosedDate
	}

	_, err = s.db.Exec(`
		UPDATE loans SET status = ?, balance = ?, closed_date = ?, updated_at = ?
		WHERE id = ?
	`, status, balance, closedDate, now, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to update loan status: %w", err)
	}

	loan.Status = status
	loan.Balance = balance
	loan.ClosedDate = closedDate
	loan.UpdatedAt = now
	return loan, nil
}

// AddNote appends a collection note to a loan
func (s *LoanService) AddNote(loanID string, req *models.NoteRequest, createdBy string) (*models.LoanNote, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	// Make sure the loan exists before appending
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM loans WHERE id = ?", loanID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check loan: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("loan not found")
	}

	note := &models.LoanNote{
		ID:        uuid.New().String(),
		LoanID:    loanID,
		Content:   req.Content,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(`
		INSERT INTO loan_notes (id, loan_id, content, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, note.ID, note.LoanID, note.Content, note.CreatedBy, note.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}

	return note, nil
}

// GetDashboardStats aggregates the summary statistics for the dashboard.
// Outstanding totals only count open loans; closed loans are frozen at zero.
func (s *LoanService) GetDashboardStats() (*models.LoanStats, error) {
	stats := &models.LoanStats{}
	err := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'open' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'open' THEN balance ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'closed' THEN 1 ELSE 0 END), 0)
		FROM loans
	`).Scan(&stats.TotalLoans, &stats.OpenLoans, &stats.TotalOutstanding, &stats.ClosedLoans)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	return stats, nil
}

func (s *LoanService) getLoanNotes(loanID string) ([]models.LoanNote, error) {
	rows, err := s.db.Query(`
		SELECT id, loan_id, content, created_by, created_at
		FROM loan_notes WHERE loan_id = ?
		ORDER BY created_at ASC
	`, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan notes: %w", err)
	}
	defer rows.Close()

	var notes []models.LoanNote
	for rows.Next() {
		var note models.LoanNote
		err := rows.Scan(&note.ID, &note.LoanID, &note.Content, &note.CreatedBy, &note.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLoanWithCustomer(row scanner) (*models.Loan, error) {
	loan := &models.Loan{}
	customer := &models.Customer{}

	err := row.Scan(
		&loan.ID, &loan.CustomerID, &loan.Type, &loan.Description,
		&loan.Principal, &loan.InterestRate, &loan.UpfrontFee, &loan.Balance,
		&loan.Status, &loan.BookedDate, &loan.DueDate, &loan.ClosedDate,
		&loan.Tenure, &loan.CreatedAt, &loan.UpdatedAt,
		&customer.ID, &customer.FirstName, &customer.LastName, &customer.Phone,
		&customer.Email, &customer.Address, &customer.Employer,
		&customer.Occupation, &customer.MonthlyIncome, &customer.BankName,
		&customer.AccountNumber, &customer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	loan.Customer = customer
	return loan, nil
}
