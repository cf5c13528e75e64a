// Package secrets stores user-owned notes. Every statement carries the owner
// filter, so another user's secret is indistinguishable from a missing one.
package secrets

import (
	"context"

	"github.com/dmitrijs2005/secretkeeper/internal/server/models"
)

type Repository interface {
	// List returns the user's secrets, newest first.
	List(ctx context.Context, userID string) ([]*models.Secret, error)
	Create(ctx context.Context, userID, text string) (*models.Secret, error)
	// Update and Delete return common.ErrorNotFound when no row with id is
	// owned by userID.
	Update(ctx context.Context, userID string, id int64, text string) (*models.Secret, error)
	Delete(ctx context.Context, userID string, id int64) error
}
