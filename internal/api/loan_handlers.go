package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"debtdesk-backend/internal/finance"
	"debtdesk-backend/internal/models"
	"debtdesk-backend/internal/services"
	"debtdesk-backend/internal/utils"
)

// LoanHandlers handles loan endpoints
type LoanHandlers struct {
	loanService *services.LoanService
}

// NewLoanHandlers creates loan handlers
func NewLoanHandlers(loanService *services.LoanService) *LoanHandlers {
	return &LoanHandlers{loanService: loanService}
}

// GetLoans lists loans matching the query filters:
// search, status, type, startDate, endDate.
func (h *LoanHandlers) GetLoans(c *gin.Context) {
	filter := finance.Filter{
		SearchTerm: c.Query("search"),
		Status:     c.Query("status"),
		LoanType:   c.Query("type"),
	}

	if start := c.Query("startDate"); start != "" {
		t, err := utils.ParseDate(start)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid startDate: " + err.Error(),
			})
			return
		}
		filter.DateRange.Start = t
	}
	if end := c.Query("endDate"); end != "" {
		t, err := utils.ParseDate(end)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid endDate: " + err.Error(),
			})
			return
		}
		filter.DateRange.End = t
	}

	loans, err := h.loanService.ListLoans(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch loans",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    loans,
	})
}

// GetLoan returns a single loan with customer profile and notes
func (h *LoanHandlers) GetLoan(c *gin.Context) {
	loan, err := h.loanService.GetLoanByID(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    loan,
	})
}

// UpdateLoanStatus transitions a loan to a new status
func (h *LoanHandlers) UpdateLoanStatus(c *gin.Context) {
	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	loan, err := h.loanService.UpdateLoanStatus(c.Param("id"), req.Status)
	if err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Loan status updated",
		"data":    loan,
	})
}

// AddNote appends a collection note to a loan
func (h *LoanHandlers) AddNote(c *gin.Context) {
	var req models.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	note, err := h.loanService.AddNote(c.Param("id"), &req, c.GetString("username"))
	if err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Note added",
		"data":    note,
	})
}

// GetDashboardStats returns the dashboard summary statistics
func (h *LoanHandlers) GetDashboardStats(c *gin.Context) {
	stats, err := h.loanService.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch dashboard stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
