package handler

import (
	"errors"
	"log/slog"

	"github.com/donation-wallet/internal/api_gateway/middleware"
	"github.com/donation-wallet/internal/api_gateway/service"
	"github.com/donation-wallet/internal/auth"
	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondServiceError maps domain and service errors onto the response
// envelope. Anything unrecognised is logged and answered with a 500.
func respondServiceError(c *gin.Context, logger *slog.Logger, op string, err error) {
	var duplicate user.ErrDuplicateUser

	switch {
	case errors.As(err, &duplicate):
		RespondConflict(c, duplicate.Field+" is already taken")
	case errors.Is(err, user.ErrUserNotFound{}):
		RespondNotFound(c, "User not found")
	case errors.Is(err, auth.ErrInvalidCredentials):
		RespondUnauthorized(c, "Invalid email or password")
	case errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, user.ErrEmptyName),
		errors.Is(err, user.ErrInvalidUsername),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, shared.ErrInvalidAmount),
		errors.Is(err, shared.ErrSelfDonation),
		errors.Is(err, service.ErrRecipientRequired),
		errors.Is(err, service.ErrEmptySelection):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, service.ErrQueueUnavailable):
		RespondServiceUnavailable(c, "Donations cannot be accepted right now")
	default:
		logger.Error("Request failed",
			"operation", op,
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		RespondInternalError(c)
	}
}

// currentUser reads the id stored by the auth middleware and answers 401
// when it is missing.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
	}
	return id, ok
}
