// Package users declares the credential store contract and its PostgreSQL
// implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/secretkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts a user with a fresh id. It fails with
	// common.ErrorAlreadyExists when the email is taken.
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	// FindOrCreateDelegated returns the user with email, creating a
	// provider-only account (no password) if none exists. It is a single
	// atomic statement, so concurrent first logins resolve to one row.
	FindOrCreateDelegated(ctx context.Context, email string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
