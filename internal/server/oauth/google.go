package oauth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"golang.org/x/oauth2"
)

// GoogleConfig holds client credentials and endpoint URLs. The URLs are
// configurable so tests and self-hosted OIDC servers can stand in for Google.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
}

type GoogleProvider struct {
	oauth2Config *oauth2.Config
	oidc         *oidc.Provider
}

func NewGoogleProvider(ctx context.Context, cfg GoogleConfig) *GoogleProvider {
	provider := (&oidc.ProviderConfig{
		IssuerURL:   "https://accounts.google.com",
		AuthURL:     cfg.AuthURL,
		TokenURL:    cfg.TokenURL,
		UserInfoURL: cfg.UserInfoURL,
	}).NewProvider(ctx)

	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{oidc.ScopeOpenID, "profile", "email"},
		},
		oidc: provider,
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Identify fails with common.ErrorUpstream when the provider cannot be
// reached or rejects the code, and with ErrMissingEmail/ErrEmailUnverified
// when the profile cannot be trusted for account lookup.
func (p *GoogleProvider) Identify(ctx context.Context, code string) (*Identity, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", common.ErrorValidation)
	}

	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", common.ErrorUpstream, err)
	}

	info, err := p.oidc.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %v", common.ErrorUpstream, err)
	}

	if info.Email == "" {
		return nil, ErrMissingEmail
	}
	if !info.EmailVerified {
		return nil, ErrEmailUnverified
	}

	return &Identity{
		Subject:       info.Subject,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
	}, nil
}
