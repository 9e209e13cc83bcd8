// Package client provides a typed client for the loan dashboard REST API.
// Every call is fire-and-await: a failed request surfaces its error to the
// caller with no retry, timeout beyond the transport's, or cancellation
// logic of its own.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"debtdesk-backend/internal/models"
)

// Session is the client-held authentication state: the bearer token obtained
// at login and the user profile that came with it. It is established by
// Login and cleared by Logout; the client persists nothing else.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// LoanQuery mirrors the list endpoint's query filters. Empty fields and the
// "all" wildcard are omitted from the request.
type LoanQuery struct {
	Search    string
	Status    string
	Type      string
	StartDate string
	EndDate   string
}

// Gateway is the dashboard's API contract
type Gateway interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context) error
	ListLoans(ctx context.Context, query LoanQuery) ([]*models.Loan, error)
	GetLoan(ctx context.Context, loanID string) (*models.Loan, error)
	UpdateLoanStatus(ctx context.Context, loanID string, status models.LoanStatus) (*models.Loan, error)
	AddNote(ctx context.Context, loanID, content string) (*models.LoanNote, error)
	DashboardStats(ctx context.Context) (*models.LoanStats, error)
}

// Client is the HTTP implementation of Gateway
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// New creates a client for the API at baseURL, e.g. "http://localhost:8080/api"
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Session returns the current session, or nil when not logged in
func (c *Client) Session() *Session {
	return c.session
}

// envelope is the server's standard response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// Login authenticates and establishes the session used by subsequent calls
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	body := map[string]string{"username": username, "password": password}

	var data struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &data); err != nil {
		return nil, err
	}

	c.session = &Session{Token: data.Token, User: data.User}
	return c.session, nil
}

// Logout revokes the token server-side and clears the session. The local
// session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	c.session = nil
	return err
}

// ListLoans fetches loans matching the query filters
func (c *Client) ListLoans(ctx context.Context, query LoanQuery) ([]*models.Loan, error) {
	params := url.Values{}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	if query.Status != "" && query.Status != "all" {
		params.Set("status", query.Status)
	}
	if query.Type != "" && query.Type != "all" {
		params.Set("type", query.Type)
	}
	if query.StartDate != "" {
		params.Set("startDate", query.StartDate)
	}
	if query.EndDate != "" {
		params.Set("endDate", query.EndDate)
	}

	var loans []*models.Loan
	if err := c.do(ctx, http.MethodGet, "/loans", params, nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// GetLoan fetches a single loan with its customer profile and notes
func (c *Client) GetLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	var loan models.Loan
	if err := c.do(ctx, http.MethodGet, "/loans/"+url.PathEscape(loanID), nil, nil, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// UpdateLoanStatus requests a status transition and returns the updated loan
func (c *Client) UpdateLoanStatus(ctx context.Context, loanID string, status models.LoanStatus) (*models.Loan, error) {
	body := map[string]models.LoanStatus{"status": status}

	var loan models.Loan
	if err := c.do(ctx, http.MethodPut, "/loans/"+url.PathEscape(loanID)+"/status", nil, body, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// AddNote appends a collection note to a loan
func (c *Client) AddNote(ctx context.Context, loanID, content string) (*models.LoanNote, error) {
	body := map[string]string{"content": content}

	var note models.LoanNote
	if err := c.do(ctx, http.MethodPost, "/loans/"+url.PathEscape(loanID)+"/notes", nil, body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DashboardStats fetches the summary statistics
func (c *Client) DashboardStats(ctx context.Context) (*models.LoanStats, error) {
	var stats models.LoanStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// do performs a single request and decodes the response envelope's data
// field into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %s", method, path, msg)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}
