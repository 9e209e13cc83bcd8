package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"debtdesk-backend/config"
	"debtdesk-backend/database"
	"debtdesk-backend/internal/api"
	"debtdesk-backend/internal/middleware"
	"debtdesk-backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := database.SeedAdminUser(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}

	// Services
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpiration)
	userService := services.NewUserService(db)
	loanService := services.NewLoanService(db)

	// Sweep revoked tokens periodically
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			authService.CleanupExpiredTokens()
		}
	}()

	// Router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg))
	router.Use(middleware.SecurityMiddleware(&middleware.SecurityConfig{
		MaxRequestSize:    1 * 1024 * 1024,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   time.Duration(cfg.RateLimitWindow) * time.Second,
	}))

	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandlers := api.NewAuthHandlers(userService, authService)
	loanHandlers := api.NewLoanHandlers(loanService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	})

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

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on port %s (%s)", cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown:", err)
	}
	log.Println("Server stopped")
}

// corsMiddleware allows the dashboard origin(s) to call the API
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := cfg.AllowAllOrigins
		if !allowed {
			for _, o := range cfg.AllowedOrigins {
				if o == origin {
					allowed = true
					break
				}
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
