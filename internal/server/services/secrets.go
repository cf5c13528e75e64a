package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/secretkeeper/internal/server/config"
	"github.com/dmitrijs2005/secretkeeper/internal/server/models"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/repomanager"
)

// SecretService runs user-scoped secret operations. The userID argument must
// come from a resolved session, never from request input.
type SecretService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	timeouts    storeTimeouts
}

func NewSecretService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SecretService {
	return &SecretService{
		db:          db,
		repomanager: m,
		timeouts:    storeTimeouts{store: cfg.StoreTimeout, upstream: cfg.UpstreamTimeout},
	}
}

func (s *SecretService) List(ctx context.Context, userID string) ([]*models.Secret, error) {
	rctx, cancel := s.timeouts.read(ctx)
	defer cancel()

	list, err := s.repomanager.Secrets(s.db).List(rctx, userID)
	if err != nil {
		return nil, storeError("list secrets", err)
	}
	return list, nil
}

func (s *SecretService) Create(ctx context.Context, userID, text string) (*models.Secret, error) {
	if err := validateSecretText(text); err != nil {
		return nil, err
	}

	wctx, cancel := s.timeouts.write(ctx)
	defer cancel()

	secret, err := s.repomanager.Secrets(s.db).Create(wctx, userID, text)
	if err != nil {
		return nil, storeError("create secret", err)
	}
	return secret, nil
}

func (s *SecretService) Update(ctx context.Context, userID string, id int64, text string) (*models.Secret, error) {
	if err := validateSecretID(id); err != nil {
		return nil, err
	}
	if err := validateSecretText(text); err != nil {
		return nil, err
	}

	wctx, cancel := s.timeouts.write(ctx)
	defer cancel()

	secret, err := s.repomanager.Secrets(s.db).Update(wctx, userID, id, text)
	if err != nil {
		return nil, storeError("update secret", err)
	}
	return secret, nil
}

// Save creates a secret when id is nil and updates it otherwise.
func (s *SecretService) Save(ctx context.Context, userID string, id *int64, text string) (*models.Secret, error) {
	if id == nil {
		return s.Create(ctx, userID, text)
	}
	return s.Update(ctx, userID, *id, text)
}

func (s *SecretService) Delete(ctx context.Context, userID string, id int64) error {
	if err := validateSecretID(id); err != nil {
		return err
	}

	wctx, cancel := s.timeouts.write(ctx)
	defer cancel()

	return storeError("delete secret", s.repomanager.Secrets(s.db).Delete(wctx, userID, id))
}
