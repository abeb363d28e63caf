package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"luxera/internal/logger"
	"luxera/internal/services"
)

// User-facing texts. Provider and database errors are never echoed.
const (
	msgGeneric          = "Something went wrong. Please try again later."
	msgDeliveryFailed   = "Failed to send verification code. Please try again later."
	msgCodeSent         = "If an account exists, a verification code has been sent."
	msgCodeVerified     = "OTP verified. Please set a new password."
	msgPasswordUpdated  = "Password updated successfully. Please log in."
	msgStartAgain       = "Please request a password reset first."
	msgResetUnavailable = "Reset request has expired or already been used. Please request again."
	msgInvalidCode      = "Invalid or expired OTP. Please request a new one."
	msgExpiredCode      = "OTP has expired. Please request a new one."
)

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	// Next names the step the client should show: forgot, verify or reset.
	Next string `json:"next,omitempty"`
}

// flashFor returns the message a redirect-style failure leaves in the
// session for the next page.
func flashFor(err error) string {
	switch {
	case errors.Is(err, services.ErrNoPendingReset):
		return msgStartAgain
	case errors.Is(err, services.ErrResetExpiredOrUsed):
		return msgResetUnavailable
	}
	return ""
}

func respondError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Please correct the highlighted fields.", Fields: ve.Fields})
	case errors.Is(err, services.ErrExpiredCode):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: msgExpiredCode, Fields: map[string]string{"otp": msgExpiredCode}, Next: "verify"})
	case errors.Is(err, services.ErrInvalidOrExpiredCode):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: msgInvalidCode, Fields: map[string]string{"otp": msgInvalidCode}, Next: "verify"})
	case errors.Is(err, services.ErrNoPendingReset):
		c.JSON(http.StatusConflict, ErrorResponse{Error: msgStartAgain, Next: "forgot"})
	case errors.Is(err, services.ErrResetExpiredOrUsed):
		c.JSON(http.StatusGone, ErrorResponse{Error: msgResetUnavailable, Next: "forgot"})
	case errors.Is(err, services.ErrDeliveryFailed):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: msgDeliveryFailed, Next: "forgot"})

	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Email or password not matched"})
	case errors.Is(err, services.ErrAccountBlocked):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "This account has been blocked. Please contact support."})
	case errors.Is(err, services.ErrAlreadyActive):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "This account is already active. You can login directly."})
	case errors.Is(err, services.ErrInvalidRefreshToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired refresh token"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})

	default:
		logger.FromContext(c.Request.Context(), nil).Error().Err(err).Msg("[http] unhandled error")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgGeneric})
	}
}

func badRequest(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context(), nil).Info().Err(err).Msg("[http] bind failed")
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
}
