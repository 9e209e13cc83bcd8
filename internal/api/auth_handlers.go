package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"debtdesk-backend/internal/models"
	"debtdesk-backend/internal/services"
)

// AuthResponse is the standard response envelope for auth endpoints
type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Error   string    `json:"error,omitempty"`
	Data    *AuthData `json:"data,omitempty"`
}

// AuthData carries the token and user profile returned on login
type AuthData struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthHandlers handles authentication endpoints
type AuthHandlers struct {
	userService *services.UserService
	authService *services.AuthService
}

// NewAuthHandlers creates auth handlers
func NewAuthHandlers(userService *services.UserService, authService *services.AuthService) *AuthHandlers {
	return &AuthHandlers{
		userService: userService,
		authService: authService,
	}
}

// Login handles user authentication
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthResponse{
			Success: false,
			Error:   "Invalid request data: " + err.Error(),
		})
		return
	}

	user, err := h.userService.AuthenticateUser(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Data: &AuthData{
			User:  user,
			Token: token,
		},
	})
}

// Logout revokes the caller's token. Logout without a token still succeeds
// so client-side cleanup can proceed.
func (h *AuthHandlers) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token != "" && token != authHeader {
		h.authService.BlacklistToken(token)
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "Logout successful",
	})
}

// Me returns the authenticated user's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	userID := c.GetString("userID")
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, AuthResponse{
			Success: false,
			Error:   "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Data:    &AuthData{User: user},
	})
}
