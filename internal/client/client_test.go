package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debtdesk-backend/internal/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, New(server.URL + "/api")
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status < 300,
		"data":    data,
	})
}

func TestLoginEstablishesSession(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "admin", body["username"])
		require.Equal(t, "admin123", body["password"])

		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"token": "token-abc",
			"user":  &models.User{ID: "user-1", Username: "admin", Role: models.UserRoleAdmin},
		})
	})

	session, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "token-abc", session.Token)
	assert.Equal(t, "admin", session.User.Username)
	assert.Same(t, session, c.Session())
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "invalid credentials",
		})
	})

	_, err := c.Login(context.Background(), "admin", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	assert.Nil(t, c.Session())
}

func TestBearerTokenSentAfterLogin(t *testing.T) {
	var sawAuth string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			writeEnvelope(w, http.StatusOK, map[string]interface{}{
				"token": "token-abc",
				"user":  &models.User{Username: "admin"},
			})
			return
		}
		sawAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, []*models.Loan{})
	})

	_, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	_, err = c.ListLoans(context.Background(), LoanQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-abc", sawAuth)
}

func TestListLoansQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		writeEnvelope(w, http.StatusOK, []*models.Loan{{ID: "loan-1"}})
	})

	loans, err := c.ListLoans(context.Background(), LoanQuery{
		Search:    "chidi",
		Status:    "open",
		Type:      "all",
		StartDate: "2024-01-01",
	})
	require.NoError(t, err)
	require.Len(t, loans, 1)

	assert.Equal(t, []string{"chidi"}, gotQuery["search"])
	assert.Equal(t, []string{"open"}, gotQuery["status"])
	assert.Equal(t, []string{"2024-01-01"}, gotQuery["startDate"])
	// "all" is a wildcard, not a filter
	assert.NotContains(t, gotQuery, "type")
	assert.NotContains(t, gotQuery, "endDate")
}

func TestGetLoan(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/loans/loan-1", r.URL.Path)
		writeEnvelope(w, http.StatusOK, &models.Loan{ID: "loan-1", Status: models.LoanStatusOpen})
	})

	loan, err := c.GetLoan(context.Background(), "loan-1")
	require.NoError(t, err)
	assert.Equal(t, "loan-1", loan.ID)
}

func TestUpdateLoanStatus(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/loans/loan-1/status", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "closed", body["status"])

		writeEnvelope(w, http.StatusOK, &models.Loan{ID: "loan-1", Status: models.LoanStatusClosed})
	})

	loan, err := c.UpdateLoanStatus(context.Background(), "loan-1", models.LoanStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusClosed, loan.Status)
}

func TestAddNote(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/loans/loan-1/notes", r.URL.Path)
		writeEnvelope(w, http.StatusCreated, &models.LoanNote{ID: "note-1", Content: "called customer"})
	})

	note, err := c.AddNote(context.Background(), "loan-1", "called customer")
	require.NoError(t, err)
	assert.Equal(t, "note-1", note.ID)
}

func TestDashboardStats(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/dashboard/stats", r.URL.Path)
		writeEnvelope(w, http.StatusOK, &models.LoanStats{TotalLoans: 5, OpenLoans: 3, TotalOutstanding: 650000})
	})

	stats, err := c.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalLoans)
	assert.Equal(t, 3, stats.OpenLoans)
}

func TestLogoutClearsSessionEvenOnServerError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			writeEnvelope(w, http.StatusOK, map[string]interface{}{
				"token": "token-abc",
				"user":  &models.User{Username: "admin"},
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "boom"})
	})

	_, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.NotNil(t, c.Session())

	err = c.Logout(context.Background())
	assert.Error(t, err)
	assert.Nil(t, c.Session())
}

func TestServerErrorMessageSurfaced(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "Loan not found",
		})
	})

	_, err := c.GetLoan(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Loan not found")
}
