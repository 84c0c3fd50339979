package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/donation-wallet/internal/api_gateway/middleware"
	"github.com/donation-wallet/internal/broadcast"
	"github.com/donation-wallet/internal/config"
	"github.com/gin-gonic/gin"
)

// Server is the standalone overlay HTTP server
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// NewServer wires the overlay route behind the shared middleware chain
func NewServer(log *slog.Logger, cfg *config.Config, fetcher Fetcher) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	renderer := NewRenderer(fetcher, cfg.Overlay.RevealStep, cfg.Overlay.RevealDuration, log)
	h := NewHandler(renderer, cfg.Wallet.Currency, log)

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(log))

	r.GET(broadcast.OverlayPath, h.Show)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	return &Server{
		logger: log,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Overlay.Port),
			Handler:      r,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		httpRouter: r,
	}
}

// Handler exposes the configured router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start overlay server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server, bounded by the given context
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping overlay server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop overlay server: %w", err)
	}
	return nil
}
