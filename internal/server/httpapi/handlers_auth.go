package httpapi

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/dmitrijs2005/secretkeeper/internal/server/models"
	"github.com/dmitrijs2005/secretkeeper/internal/server/services"
	"github.com/gofiber/fiber/v3"
)

func (s *HTTPServer) handleRoot(c fiber.Ctx) error {
	return c.SendString("Server is running")
}

func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return err
		}
		return fmt.Errorf("%w: invalid request body", common.ErrorValidation)
	}
	return nil
}

func (s *HTTPServer) handleRegister(c fiber.Ctx) error {
	var req credentialsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	sess, err := s.auth.Register(c.Context(), req.identifier(), req.Password)
	if err != nil {
		return err
	}

	return c.JSON(newSessionResponse(sess))
}

func (s *HTTPServer) handleLogin(c fiber.Ctx) error {
	var req credentialsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	sess, err := s.auth.Login(c.Context(), req.identifier(), req.Password)
	if err != nil {
		return err
	}

	return c.JSON(newSessionResponse(sess))
}

// handleLogout only acknowledges: tokens are stateless and the client
// drops its copy.
func (s *HTTPServer) handleLogout(c fiber.Ctx, user *models.User) error {
	s.logger.Info(c.Context(), "logout", "user_id", user.ID)
	return c.JSON(messageResponse{Success: true, Message: "Logged out successfully"})
}

func (s *HTTPServer) handleCheckAuth(c fiber.Ctx, user *models.User) error {
	return c.JSON(fiber.Map{
		"authenticated": true,
		"user":          newUserResponse(user),
	})
}

func (s *HTTPServer) handleProviderRedirect(c fiber.Ctx) error {
	if !s.auth.ProviderEnabled() {
		return common.ErrorFeatureDisabled
	}

	target, err := s.auth.BeginProviderLogin(c.Context())
	if err != nil {
		s.logger.Warn(c.Context(), "provider login not started", "error", err)
		return s.redirectLoginFailure(c)
	}

	return c.Redirect().Status(fiber.StatusFound).To(target)
}

// handleProviderCallback never shows the browser an error body: every
// failure lands on the frontend login page.
func (s *HTTPServer) handleProviderCallback(c fiber.Ctx) error {
	if !s.auth.ProviderEnabled() {
		return common.ErrorFeatureDisabled
	}

	if denied := c.Query("error"); denied != "" {
		s.logger.Warn(c.Context(), "provider login denied", "error", denied)
		return s.redirectLoginFailure(c)
	}

	sess, err := s.auth.CompleteProviderLogin(c.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		s.logger.Warn(c.Context(), "provider login failed", "error", err)
		return s.redirectLoginFailure(c)
	}

	return c.Redirect().Status(fiber.StatusFound).
		To(s.frontendURL + "/auth/callback?token=" + url.QueryEscape(sess.Token))
}

func (s *HTTPServer) redirectLoginFailure(c fiber.Ctx) error {
	return c.Redirect().Status(fiber.StatusFound).To(s.frontendURL + "/login?error=auth_failed")
}

func newSessionResponse(sess *services.Session) sessionResponse {
	return sessionResponse{
		Success:   true,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      newUserResponse(sess.User),
	}
}
