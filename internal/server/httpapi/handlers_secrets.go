package httpapi

import (
	"fmt"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/dmitrijs2005/secretkeeper/internal/server/models"
	"github.com/gofiber/fiber/v3"
)

func (s *HTTPServer) handleListSecrets(c fiber.Ctx, user *models.User) error {
	list, err := s.secrets.List(c.Context(), user.ID)
	if err != nil {
		return err
	}

	resp := secretsResponse{Secrets: make([]secretResponse, 0, len(list))}
	for _, item := range list {
		resp.Secrets = append(resp.Secrets, secretResponse{ID: item.ID, Secret: item.Text})
	}
	return c.JSON(resp)
}

// handleSubmitSecret creates when secretId is absent and updates otherwise.
func (s *HTTPServer) handleSubmitSecret(c fiber.Ctx, user *models.User) error {
	var req submitRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	secret, err := s.secrets.Save(c.Context(), user.ID, req.SecretID.Value, req.Secret)
	if err != nil {
		return err
	}

	return c.JSON(submitResponse{Success: true, SecretID: secret.ID})
}

func (s *HTTPServer) handleDeleteSecret(c fiber.Ctx, user *models.User) error {
	var req deleteRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.SecretID.Value == nil {
		return fmt.Errorf("%w: secretId is required", common.ErrorValidation)
	}

	if err := s.secrets.Delete(c.Context(), user.ID, *req.SecretID.Value); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

func (s *HTTPServer) handleExportSecrets(c fiber.Ctx, user *models.User) error {
	exp, err := s.exports.Export(c.Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(exportResponse{Success: true, URL: exp.URL, ExpiresAt: exp.ExpiresAt})
}
