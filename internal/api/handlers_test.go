package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"debtdesk-backend/database"
	"debtdesk-backend/internal/middleware"
	"debtdesk-backend/internal/models"
	"debtdesk-backend/internal/services"
)

type HandlerTestSuite struct {
	suite.Suite
	db          *sql.DB
	router      *gin.Engine
	authService *services.AuthService
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *HandlerTestSuite) SetupTest() {
	db, err := sql.Open("sqlite3", ":memory:")
	suite.Require().NoError(err)
	db.SetMaxOpenConns(1)
	suite.Require().NoError(database.Migrate(db))
	suite.db = db

	suite.authService = services.NewAuthService("test-secret", 3600)
	userService := services.NewUserService(db)
	loanService := services.NewLoanService(db)

	authMiddleware := middleware.NewAuthMiddleware(suite.authService)
	authHandlers := NewAuthHandlers(userService, suite.authService)
	loanHandlers := NewLoanHandlers(loanService)

	router := gin.New()
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/auth/login", authHandlers.Login)

		authed := apiGroup.Group("")
		authed.Use(authMiddleware.AuthRequired())
		{
			authed.POST("/auth/logout", authHandlers.Logout)
			authed.GET("/auth/me", authHandlers.Me)
			authed.GET("/loans", loanHandlers.GetLoans)
			authed.GET("/loans/:id", loanHandlers.GetLoan)
			authed.PUT("/loans/:id/status",
				authMiddleware.RequireRoles("admin", "manager", "collector"),
				loanHandlers.UpdateLoanStatus)
			authed.POST("/loans/:id/notes",
				authMiddleware.RequireRoles("admin", "manager", "collector", "agent"),
				loanHandlers.AddNote)
			authed.GET("/dashboard/stats", loanHandlers.GetDashboardStats)
		}
	}
	suite.router = router

	suite.seedData()
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.db.Close()
}

func (suite *HandlerTestSuite) seedData() {
	suite.insertUser("user-admin", "admin", "admin123", models.UserRoleAdmin)
	suite.insertUser("user-viewer", "viewer_01", "viewer123", models.UserRoleViewer)

	now := time.Now()
	_, err := suite.db.Exec(`
		INSERT INTO customers (id, first_name, last_name, phone, email, address, created_at)
		VALUES ('cust-1', 'Chidi', 'Okafor', '08012345678', 'chidi@example.com', '', ?)
	`, now)
	suite.Require().NoError(err)

	_, err = suite.db.Exec(`
		INSERT INTO loans (id, customer_id, type, description, principal, interest_rate,
			upfront_fee, balance, status, booked_date, due_date, tenure, created_at, updated_at)
		VALUES
			('loan-1', 'cust-1', 'Business', 'Shop restocking', 500000, 12, 0, 450000, 'open', ?, ?, 90, ?, ?),
			('loan-2', 'cust-1', 'Personal', 'School fees', 200000, 10, 0, 0, 'closed', ?, ?, 180, ?, ?)
	`, now.AddDate(0, 0, -60), now.AddDate(0, 0, 30), now, now,
		now.AddDate(0, -8, 0), now.AddDate(0, -2, 0), now, now)
	suite.Require().NoError(err)
}

func (suite *HandlerTestSuite) insertUser(id, username, password string, role models.UserRole) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	suite.Require().NoError(err)

	now := time.Now()
	_, err = suite.db.Exec(`
		INSERT INTO users (id, username, email, first_name, last_name, password_hash, role, is_active, created_at, updated_at)
		VALUES (?, ?, '', 'Test', 'User', ?, ?, true, ?, ?)
	`, id, username, string(hash), role, now, now)
	suite.Require().NoError(err)
}

func (suite *HandlerTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) login(username, password string) string {
	w := suite.request(http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.Data)
	return resp.Data.Token
}

func (suite *HandlerTestSuite) TestLoginSuccess() {
	w := suite.request(http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "admin",
		"password": "admin123",
	})
	suite.Equal(http.StatusOK, w.Code)

	var resp AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Success)
	suite.NotEmpty(resp.Data.Token)
	suite.Equal("admin", resp.Data.User.Username)
	// Password hash never leaves the server
	suite.NotContains(w.Body.String(), "password_hash")
}

func (suite *HandlerTestSuite) TestLoginInvalidCredentials() {
	w := suite.request(http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "admin",
		"password": "wrong-password",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestRequestsWithoutTokenAreRejected() {
	for _, path := range []string{"/api/loans", "/api/loans/loan-1", "/api/dashboard/stats", "/api/auth/me"} {
		w := suite.request(http.MethodGet, path, "", nil)
		suite.Equal(http.StatusUnauthorized, w.Code, path)
	}
}

func (suite *HandlerTestSuite) TestLogoutRevokesToken() {
	token := suite.login("admin", "admin123")

	w := suite.request(http.MethodPost, "/api/auth/logout", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/loans", token, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestGetLoans() {
	token := suite.login("admin", "admin123")

	w := suite.request(http.MethodGet, "/api/loans", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    []*models.Loan `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Data, 2)
}

func (suite *HandlerTestSuite) TestGetLoansFiltered() {
	token := suite.login("admin", "admin123")

	w := suite.request(http.MethodGet, "/api/loans?status=open&search=chidi", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Data []*models.Loan `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Data, 1)
	suite.Equal("loan-1", resp.Data[0].ID)
}

func (suite *HandlerTestSuite) TestGetLoansRejectsBadDate() {
	token := suite.login("admin", "admin123")

	w := suite.request(http.MethodGet, "/api/loans?startDate=not-a-date", token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetLoanNotFound() {
	token := suite.login("admin", "admin123")

	w := suite.request(http.MethodGet, "/api/loans/no-such-loan", token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateLoanStatus() {
	token := suite.login("admin", "admin123")

	w := suite.request(http.MethodPut, "/api/loans/loan-1/status", token, gin.H{"status": "closed"})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data *models.Loan `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(models.LoanStatusClosed, resp.Data.Status)
	suite.Zero(resp.Data.Balance)
	suite.NotNil(resp.Data.ClosedDate)
}

func (suite *HandlerTestSuite) TestViewerCannotUpdateStatusOrAddNotes() {
	token := suite.login("viewer_01", "viewer123")

	w := suite.request(http.MethodPut, "/api/loans/loan-1/status", token, gin.H{"status": "closed"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPost, "/api/loans/loan-1/notes", token, gin.H{"content": "hello"})
	suite.Equal(http.StatusForbidden, w.Code)

	// Reading is still allowed
	w = suite.request(http.MethodGet, "/api/loans", token, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestAddNote() {
	token := suite.login("admin", "admin123")

	w := suite.request(http.MethodPost, "/api/loans/loan-1/notes", token, gin.H{
		"content": "Customer promised payment on Friday",
	})
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data *models.LoanNote `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("admin", resp.Data.CreatedBy)

	// The note shows up on the loan detail
	w = suite.request(http.MethodGet, "/api/loans/loan-1", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	var detail struct {
		Data *models.Loan `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &detail))
	suite.Require().Len(detail.Data.Notes, 1)
}

func (suite *HandlerTestSuite) TestDashboardStats() {
	token := suite.login("admin", "admin123")

	w := suite.request(http.MethodGet, "/api/dashboard/stats", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Data *models.LoanStats `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.Data.TotalLoans)
	suite.Equal(1, resp.Data.OpenLoans)
	suite.Equal(1, resp.Data.ClosedLoans)
	suite.InDelta(450000, resp.Data.TotalOutstanding, 1e-6)
}

func (suite *HandlerTestSuite) TestMe() {
	token := suite.login("admin", "admin123")

	w := suite.request(http.MethodGet, "/api/auth/me", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	var resp AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("admin", resp.Data.User.Username)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
