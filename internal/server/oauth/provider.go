// Package oauth talks to the delegated identity provider: it builds the
// consent redirect and turns an authorization code into a verified email.
package oauth

import (
	"context"
	"errors"
)

var (
	ErrMissingEmail    = errors.New("provider returned no email")
	ErrEmailUnverified = errors.New("provider email is not verified")
)

// Identity is what the provider vouches for after a successful exchange.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
}

type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	// Identify exchanges code for a token and reads the profile with it.
	Identify(ctx context.Context, code string) (*Identity, error)
}
