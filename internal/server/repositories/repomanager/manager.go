package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/secretkeeper/internal/dbx"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/oauthstates"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/secrets"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DB handle and owns the
// schema lifecycle.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Secrets(db dbx.DBTX) secrets.Repository
	OAuthStates(db dbx.DBTX) oauthstates.Repository
}
