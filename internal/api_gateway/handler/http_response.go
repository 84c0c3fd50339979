package handler

import (
	"net/http"

	"github.com/donation-wallet/internal/api_gateway/middleware"
	"github.com/gin-gonic/gin"
)

// Error codes carried in the envelope
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

// Response is the envelope every API answer is wrapped in. Exactly one of
// Data and Error is set.
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respond(c *gin.Context, statusCode int, r Response) {
	r.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, r)
}

func respondError(c *gin.Context, statusCode int, code, message string) {
	respond(c, statusCode, Response{Error: &ErrorInfo{Code: code, Message: message}})
}

func RespondOK(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, Response{Data: data})
}

func RespondCreated(c *gin.Context, data interface{}) {
	respond(c, http.StatusCreated, Response{Data: data})
}

// RespondAccepted answers a donation that was queued but not yet credited
func RespondAccepted(c *gin.Context, data interface{}) {
	respond(c, http.StatusAccepted, Response{Data: data})
}

func RespondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeBadRequest, message)
}

func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	respondError(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	respondError(c, http.StatusNotFound, CodeNotFound, message)
}

// RespondConflict reports a taken email or username
func RespondConflict(c *gin.Context, message string) {
	respondError(c, http.StatusConflict, CodeConflict, message)
}

func RespondInternalError(c *gin.Context) {
	respondError(c, http.StatusInternalServerError, CodeInternal, "An internal server error occurred")
}

// RespondServiceUnavailable sends a 503 when the donation queue is unreachable
func RespondServiceUnavailable(c *gin.Context, message string) {
	respondError(c, http.StatusServiceUnavailable, CodeUnavailable, message)
}
