package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/donation-wallet/internal/api_gateway/handler"
	"github.com/donation-wallet/internal/api_gateway/middleware"
	"github.com/gin-gonic/gin"
)

// routeHandlers groups the handlers mounted by setupRouter
type routeHandlers struct {
	auth     *handler.AuthHandler
	user     *handler.UserHandler
	donation *handler.DonationHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	h routeHandlers,
	verifier middleware.TokenVerifier,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	requireAuth := middleware.RequireAuth(logger, verifier)

	api := r.Group("/api")
	{
		// Session operations
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.auth.Register)
			authGroup.POST("/login", h.auth.Login)
			authGroup.GET("/me", requireAuth, h.auth.Me)
		}

		// Profiles are public, updates are not
		users := api.Group("/users")
		{
			users.PUT("/update", requireAuth, h.user.UpdateProfile)
			users.GET("/:username", h.user.GetProfile)
		}

		api.GET("/wallet", requireAuth, h.donation.GetWallet)

		donations := api.Group("/donations", requireAuth)
		{
			donations.POST("", h.donation.Create)
			donations.GET("/selected", h.donation.GetSelected)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
