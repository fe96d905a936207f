package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hamrorooms/rooms-api/internal/domain/apperr"
	"github.com/hamrorooms/rooms-api/pkg/response"
)

// fail maps a workflow error to its HTTP status and a safe message.
// Upstream causes never reach the client.
func fail(c *gin.Context, err error) {
	msg := "internal server error"
	switch {
	case errors.Is(err, apperr.ErrValidation):
		msg = "all fields are required"
	case errors.Is(err, apperr.ErrConflict):
		msg = "user already exists"
	case errors.Is(err, apperr.ErrInvalidOTP):
		msg = "invalid OTP"
	case errors.Is(err, apperr.ErrNotFound):
		msg = "not found"
	case errors.Is(err, apperr.ErrUnverified):
		msg = "user not verified, please verify your account"
	case errors.Is(err, apperr.ErrAuth):
		msg = "invalid email or password"
	}
	response.Error[any](c, apperr.Status(err), msg, nil)
}
