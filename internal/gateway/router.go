package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/branch-teller-ledger/internal/gateway/handler"
	"github.com/branch-teller-ledger/internal/gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	sessionHandler *handler.SessionHandler,
	customerHandler *handler.CustomerHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Teller workflow sessions
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionHandler.Create)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.DELETE("/:id", sessionHandler.Delete)
			sessions.POST("/:id/account", sessionHandler.SubmitAccount)
			sessions.POST("/:id/withdraw", sessionHandler.SelectWithdraw)
			sessions.POST("/:id/reset-pin", sessionHandler.SelectPINReset)
			sessions.POST("/:id/amount", sessionHandler.SubmitAmount)
			sessions.POST("/:id/otp", sessionHandler.SubmitOTP)
			sessions.POST("/:id/pin", sessionHandler.SubmitPIN)
			sessions.POST("/:id/cancel", sessionHandler.Cancel)
		}

		// Customer administration and passbook rendering
		customers := v1.Group("/customers")
		{
			customers.POST("", customerHandler.Create)
			customers.GET("/:id", customerHandler.GetByAccountID)
			customers.GET("/:id/entries", customerHandler.GetEntries)
			customers.POST("/:id/passbook", customerHandler.RenderPassbook)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
