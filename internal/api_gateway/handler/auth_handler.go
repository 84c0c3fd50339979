package handler

import (
	"log/slog"

	"github.com/donation-wallet/internal/api_gateway/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and session lookup
type AuthHandler struct {
	authService service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(logger *slog.Logger, authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates an account and returns a session token
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, h.logger, "register", err)
		return
	}

	RespondCreated(c, mapAuthResult(result))
}

// Login exchanges credentials for a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.logger, "login", err)
		return
	}

	RespondOK(c, mapAuthResult(result))
}

// Me returns the session owner
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	u, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, "me", err)
		return
	}

	RespondOK(c, gin.H{"user": mapUserToResponse(u)})
}
