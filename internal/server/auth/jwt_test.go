package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("super-secret"), time.Hour)

	tok, err := iss.GenerateToken("user-123", "a@x.com")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := iss.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Subject != "user-123" || claims.UserID != "user-123" || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("lifetime mismatch: %v", got)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("secret"), 24*time.Hour)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return start }

	tok, err := iss.GenerateToken("u1", "a@x.com")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	iss.now = func() time.Time { return start.Add(24*time.Hour + time.Second) }
	_, err = iss.ParseToken(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
	if !common.IsUnauthenticated(err) {
		t.Fatalf("expired token must count as unauthenticated")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer([]byte("right-secret"), time.Hour).GenerateToken("u2", "b@x.com")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = NewIssuer([]byte("wrong-secret"), time.Hour).ParseToken(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer([]byte("s"), time.Hour).ParseToken("not-a-jwt")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u3",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "u3",
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer(secret, time.Hour).ParseToken(hs512); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("HS512 must be rejected, got %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := NewIssuer(secret, time.Hour).ParseToken(none); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("alg=none must be rejected, got %v", err)
	}
}

func TestParseToken_RequiresExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u4"},
		UserID:           "u4",
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewIssuer(secret, time.Hour).ParseToken(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("token without exp must be rejected, got %v", err)
	}
}
