// Package auth holds the password hasher and the bearer token issuer.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the subject twice: in the registered "sub" claim and in
// "id", which is what browser clients read.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// Issuer signs and validates HS256 tokens with a fixed lifetime.
type Issuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewIssuer(secret []byte, validity time.Duration) *Issuer {
	return &Issuer{secret: secret, validity: validity, now: time.Now}
}

// Validity returns the lifetime stamped into every token.
func (i *Issuer) Validity() time.Duration {
	return i.validity
}

func (i *Issuer) GenerateToken(userID, email string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		UserID: userID,
		Email:  email,
	})

	return token.SignedString(i.secret)
}

// ParseToken validates signature, algorithm and expiry. Expired tokens map
// to common.ErrTokenExpired, everything else to common.ErrInvalidToken.
func (i *Issuer) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" || claims.Subject != claims.UserID {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
