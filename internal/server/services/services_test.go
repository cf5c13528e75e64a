package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/logging"
	"github.com/dmitrijs2005/secretkeeper/internal/server/auth"
	"github.com/dmitrijs2005/secretkeeper/internal/server/config"
	"github.com/dmitrijs2005/secretkeeper/internal/server/oauth"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.PasswordHashCost = bcrypt.MinCost
	return cfg
}

type fakeProvider struct {
	identity *oauth.Identity
	err      error
	delay    time.Duration
	codes    []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example/auth?state=" + state
}

func (f *fakeProvider) Identify(ctx context.Context, code string) (*oauth.Identity, error) {
	f.codes = append(f.codes, code)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fixture struct {
	cfg     *config.Config
	rm      *repomanager.InMemoryRepositoryManager
	auth    *AuthService
	secrets *SecretService
}

func newFixture(t *testing.T, provider *fakeProvider) *fixture {
	t.Helper()
	cfg := testConfig()
	rm := repomanager.NewInMemoryRepositoryManager()
	var p oauth.Provider
	if provider != nil {
		p = provider
	}
	return &fixture{
		cfg:     cfg,
		rm:      rm,
		auth:    NewAuthService(nil, rm, cfg, auth.NewBcryptHasher(cfg.PasswordHashCost), p, logging.Nop()),
		secrets: NewSecretService(nil, rm, cfg),
	}
}
