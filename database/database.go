package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

// Initialize creates and returns a database connection
func Initialize(databaseURL string) (*sql.DB, error) {
	// Add SQLite-specific parameters for better concurrent access
	if !strings.Contains(databaseURL, "?") && databaseURL != ":memory:" {
		databaseURL += "?_busy_timeout=30000&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=1"
	}

	db, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = memory",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			log.Printf("Warning: failed to set pragma %s: %v", pragma, err)
		}
	}

	return db, nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'viewer',
	is_active BOOLEAN NOT NULL DEFAULT true,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createCustomersTable = `
CREATE TABLE IF NOT EXISTS customers (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	employer TEXT,
	occupation TEXT,
	monthly_income REAL,
	bank_name TEXT,
	account_number TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createLoansTable = `
CREATE TABLE IF NOT EXISTS loans (
	id TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	type TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	principal REAL NOT NULL,
	interest_rate REAL NOT NULL DEFAULT 0,
	upfront_fee REAL NOT NULL DEFAULT 0,
	balance REAL NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'pending',
	booked_date TIMESTAMP NOT NULL,
	due_date TIMESTAMP NOT NULL,
	closed_date TIMESTAMP,
	tenure INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (customer_id) REFERENCES customers(id)
)`

const createLoanNotesTable = `
CREATE TABLE IF NOT EXISTS loan_notes (
	id TEXT PRIMARY KEY,
	loan_id TEXT NOT NULL,
	content TEXT NOT NULL,
	created_by TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (loan_id) REFERENCES loans(id)
)`

var createIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_loans_customer_id ON loans(customer_id)",
	"CREATE INDEX IF NOT EXISTS idx_loans_status ON loans(status)",
	"CREATE INDEX IF NOT EXISTS idx_loans_booked_date ON loans(booked_date)",
	"CREATE INDEX IF NOT EXISTS idx_loan_notes_loan_id ON loan_notes(loan_id)",
}

// Migrate runs database migrations
func Migrate(db *sql.DB) error {
	migrations := []string{
		createUsersTable,
		createCustomersTable,
		createLoansTable,
		createLoanNotesTable,
	}
	migrations = append(migrations, createIndexes...)

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// SeedAdminUser creates the bootstrap admin account if no user with the
// given username exists yet.
func SeedAdminUser(db *sql.DB, username, password string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&count); err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now()
	_, err = db.Exec(`
		INSERT INTO users (id, username, email, first_name, last_name, password_hash, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 'admin', true, ?, ?)
	`, uuid.New().String(), username, "", "System", "Administrator", string(hash), now, now)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Printf("Seeded admin user %q", username)
	return nil
}
