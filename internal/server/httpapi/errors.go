package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgUnauthenticated    = "Unauthenticated"
	msgUserExists         = "User already exists"
	msgNotFound           = "Not found"
	msgUnavailable        = "Service temporarily unavailable"
	msgInternal           = "Internal server error"
	retryAfterSeconds     = "5"
)

// handleError turns any error into {success:false, message}. Only
// validation messages are passed through; everything else gets a fixed text.
func (s *HTTPServer) handleError(c fiber.Ctx, err error) error {
	status, message := fiber.StatusInternalServerError, msgInternal

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status, message = fe.Code, fe.Message
	case errors.Is(err, common.ErrorValidation):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorInvalidCredentials):
		status, message = fiber.StatusUnauthorized, msgInvalidCredentials
	case common.IsUnauthenticated(err):
		status, message = fiber.StatusUnauthorized, msgUnauthenticated
	case errors.Is(err, common.ErrorAlreadyExists):
		status, message = fiber.StatusConflict, msgUserExists
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrorFeatureDisabled):
		status, message = fiber.StatusNotFound, msgNotFound
	case errors.Is(err, common.ErrorUpstream):
		status, message = fiber.StatusServiceUnavailable, msgUnavailable
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
	}

	if status >= fiber.StatusInternalServerError {
		s.logger.Error(c.Context(), "request failed",
			"path", c.Path(), "request_id", requestid.FromContext(c), "error", err)
	}

	return c.Status(status).JSON(messageResponse{Success: false, Message: message})
}
