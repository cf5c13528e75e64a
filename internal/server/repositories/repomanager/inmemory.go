package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/secretkeeper/internal/dbx"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/inmemory"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/oauthstates"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/secrets"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/users"
)

// InMemoryRepositoryManager ignores the DB handle and hands out the same
// process-local repositories every time.
type InMemoryRepositoryManager struct {
	users       *inmemory.UserRepository
	secrets     *inmemory.SecretRepository
	oauthStates *inmemory.OAuthStateRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:       inmemory.NewUserRepository(),
		secrets:     inmemory.NewSecretRepository(),
		oauthStates: inmemory.NewOAuthStateRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Secrets(dbx.DBTX) secrets.Repository { return m.secrets }

func (m *InMemoryRepositoryManager) OAuthStates(dbx.DBTX) oauthstates.Repository {
	return m.oauthStates
}
