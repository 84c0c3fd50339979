package handler

import (
	"log/slog"

	"github.com/donation-wallet/internal/api_gateway/service"
	"github.com/gin-gonic/gin"
)

// UserHandler handles profile requests
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(logger *slog.Logger, userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetProfile returns the public profile for a username
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.userService.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondServiceError(c, h.logger, "get_profile", err)
		return
	}

	RespondOK(c, gin.H{"user": mapUserToPublicProfile(u)})
}

// UpdateProfile changes the caller's bio and profile picture
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Bio == nil && req.ProfilePic == nil {
		RespondBadRequest(c, "No profile fields to update")
		return
	}

	u, err := h.userService.UpdateProfile(c.Request.Context(), userID, req.Bio, req.ProfilePic)
	if err != nil {
		respondServiceError(c, h.logger, "update_profile", err)
		return
	}

	RespondOK(c, gin.H{"user": mapUserToResponse(u)})
}
