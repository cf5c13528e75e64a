package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/dmitrijs2005/secretkeeper/internal/server/models"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// protectedHandler receives the identity resolved from the bearer token.
// Handlers behind the gate never read a user id from the request.
type protectedHandler func(c fiber.Ctx, user *models.User) error

// authenticated is the authorization gate. Missing, malformed, forged and
// expired tokens all end in the same 401.
func (s *HTTPServer) authenticated(h protectedHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		user, err := s.auth.ResolveToken(c.Context(), bearerToken(c))
		if err != nil {
			return err
		}
		return h(c, user)
	}
}

func bearerToken(c fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(common.AuthHeaderName))
	prefix := common.AuthHeaderPrefix
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// requestLogger writes one line per request. It renders chain errors itself
// so the logged status is the one the client receives.
func (s *HTTPServer) requestLogger(c fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := s.handleError(c, err); herr != nil {
			return herr
		}
	}

	s.logger.Info(c.Context(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start).String(),
		"request_id", requestid.FromContext(c),
	)
	return nil
}
