package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/dmitrijs2005/secretkeeper/internal/logging"
	"github.com/dmitrijs2005/secretkeeper/internal/server/auth"
	"github.com/dmitrijs2005/secretkeeper/internal/server/config"
	"github.com/dmitrijs2005/secretkeeper/internal/server/models"
	"github.com/dmitrijs2005/secretkeeper/internal/server/oauth"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/repomanager"
)

// Session is what a successful sign-in hands back to the client.
type Session struct {
	Token     string
	User      *models.User
	ExpiresAt time.Time
}

// AuthService resolves users through the local and delegated strategies,
// issues tokens and turns presented tokens back into users.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	issuer      *auth.Issuer
	provider    oauth.Provider
	timeouts    storeTimeouts
	stateTTL    time.Duration
	dummyHash   string
	logger      logging.Logger
}

// NewAuthService wires the service. provider may be nil, which disables
// delegated login.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	hasher auth.PasswordHasher, provider oauth.Provider, logger logging.Logger) *AuthService {

	s := &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		issuer:      auth.NewIssuer([]byte(cfg.SecretKey), cfg.TokenValidityDuration),
		provider:    provider,
		timeouts:    storeTimeouts{store: cfg.StoreTimeout, upstream: cfg.UpstreamTimeout},
		stateTTL:    cfg.OAuthStateTTL,
		logger:      logger.With("module", "auth"),
	}

	// Unknown emails and provider-only accounts still pay for one
	// comparison so response time does not reveal which case applied.
	if h, err := hasher.Hash([]byte("timing-equalizer")); err == nil {
		s.dummyHash = h
	}

	return s
}

// ProviderEnabled reports whether delegated login is configured.
func (s *AuthService) ProviderEnabled() bool {
	return s.provider != nil
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*Session, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	wctx, cancel := s.timeouts.write(ctx)
	defer cancel()

	user, err := s.repomanager.Users(s.db).Create(wctx, email, hash)
	if err != nil {
		return nil, storeError("create user", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login runs the local strategy and issues a token on success. Every
// credential failure comes back as common.ErrorInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		var failure *common.AuthFailure
		if errors.As(err, &failure) {
			s.logger.Warn(ctx, "local authentication failed", "reason", failure.Reason)
		}
		return nil, err
	}

	return s.issue(user)
}

// Authenticate is the local strategy: exactly one lookup by email, then a
// password check. Failures are *common.AuthFailure carrying the reason.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		s.burnComparison(password)
		return nil, &common.AuthFailure{Reason: common.ReasonNotFound}
	}

	rctx, cancel := s.timeouts.read(ctx)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetByEmail(rctx, normalized)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnComparison(password)
			return nil, &common.AuthFailure{Reason: common.ReasonNotFound}
		}
		return nil, storeError("get user", err)
	}

	if !user.HasPassword() {
		s.burnComparison(password)
		return nil, &common.AuthFailure{Reason: common.ReasonNoPassword}
	}

	ok, err := s.hasher.Verify([]byte(password), user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash unusable", "user_id", user.ID, "error", err)
		return nil, &common.AuthFailure{Reason: common.ReasonHashError, Err: err}
	}
	if !ok {
		return nil, &common.AuthFailure{Reason: common.ReasonBadPassword}
	}

	return user, nil
}

func (s *AuthService) burnComparison(password string) {
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify([]byte(password), s.dummyHash)
	}
}

// BeginProviderLogin records a one-time state and returns the provider
// consent URL carrying it.
func (s *AuthService) BeginProviderLogin(ctx context.Context) (string, error) {
	if s.provider == nil {
		return "", common.ErrorFeatureDisabled
	}

	state, err := common.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	wctx, cancel := s.timeouts.write(ctx)
	defer cancel()

	if err := s.repomanager.OAuthStates(s.db).Create(wctx, state, s.stateTTL); err != nil {
		return "", storeError("store oauth state", err)
	}

	return s.provider.AuthCodeURL(state), nil
}

// CompleteProviderLogin is the delegated strategy. It consumes state,
// exchanges code with the provider and links the verified email to an
// existing account or creates a provider-only one.
func (s *AuthService) CompleteProviderLogin(ctx context.Context, state, code string) (*Session, error) {
	if s.provider == nil {
		return nil, common.ErrorFeatureDisabled
	}
	if state == "" {
		return nil, fmt.Errorf("%w: missing oauth state", common.ErrorValidation)
	}

	wctx, cancel := s.timeouts.write(ctx)
	ok, err := s.repomanager.OAuthStates(s.db).Consume(wctx, state)
	cancel()
	if err != nil {
		return nil, storeError("consume oauth state", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: unknown or expired oauth state", common.ErrorValidation)
	}

	pctx, cancel := s.timeouts.provider(ctx)
	identity, err := s.provider.Identify(pctx, code)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: provider timed out", common.ErrorUpstream)
		}
		return nil, fmt.Errorf("%s identify: %w", s.provider.Name(), err)
	}

	email, err := NormalizeEmail(identity.Email)
	if err != nil {
		return nil, err
	}

	wctx, cancel = s.timeouts.write(ctx)
	defer cancel()

	user, err := s.repomanager.Users(s.db).FindOrCreateDelegated(wctx, email)
	if err != nil {
		return nil, storeError("find or create delegated user", err)
	}

	s.logger.Info(ctx, "delegated login", "provider", s.provider.Name(), "user_id", user.ID)
	return s.issue(user)
}

// ResolveToken is the authorization gate's check. Any failure, including a
// valid token for a user that no longer exists, is common.ErrorUnauthenticated
// unless the store itself is unavailable.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthenticated
	}

	claims, err := s.issuer.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthenticated, err)
	}

	rctx, cancel := s.timeouts.read(ctx)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetByID(rctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: subject no longer exists", common.ErrorUnauthenticated)
		}
		return nil, storeError("get user", err)
	}

	return user, nil
}

// PurgeExpiredStates deletes OAuth states nobody came back for.
func (s *AuthService) PurgeExpiredStates(ctx context.Context) (int64, error) {
	wctx, cancel := s.timeouts.write(ctx)
	defer cancel()

	n, err := s.repomanager.OAuthStates(s.db).PurgeExpired(wctx)
	if err != nil {
		return 0, storeError("purge oauth states", err)
	}
	return n, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, err := s.issuer.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: sign token: %v", common.ErrorInternal, err)
	}
	return &Session{
		Token:     token,
		User:      user,
		ExpiresAt: time.Now().Add(s.issuer.Validity()),
	}, nil
}
