package overlay

import (
	"log/slog"
	"net/http"

	"github.com/donation-wallet/internal/api_gateway/middleware"
	"github.com/donation-wallet/internal/broadcast"
	"github.com/gin-gonic/gin"
)

// Handler serves the overlay page
type Handler struct {
	renderer *Renderer
	currency string
	logger   *slog.Logger
}

// NewHandler creates a new overlay handler
func NewHandler(renderer *Renderer, currency string, logger *slog.Logger) *Handler {
	return &Handler{
		renderer: renderer,
		currency: currency,
		logger:   logger,
	}
}

// Show handles GET /wallet/overlay?ids=<reference>
func (h *Handler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	reference := c.Query(broadcast.QueryParam)

	frame := h.renderer.Render(ctx, reference)

	page, err := renderPage(frame, h.currency)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render overlay page",
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		c.String(http.StatusInternalServerError, "overlay unavailable")
		return
	}

	h.logger.DebugContext(ctx, "overlay rendered",
		"correlation_id", middleware.GetCorrelationID(c),
		"state", frame.State.String(),
		"requested", len(frame.IDs),
		"shown", len(frame.Donations),
	)

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
