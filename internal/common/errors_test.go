package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthFailure_MatchesInvalidCredentials(t *testing.T) {
	for _, reason := range []string{ReasonNotFound, ReasonBadPassword, ReasonNoPassword, ReasonHashError} {
		err := fmt.Errorf("login: %w", &AuthFailure{Reason: reason})
		assert.ErrorIs(t, err, ErrorInvalidCredentials, reason)
		assert.Equal(t, "login: invalid credentials", err.Error(), "reason must not leak into the message")

		var af *AuthFailure
		if assert.True(t, errors.As(err, &af)) {
			assert.Equal(t, reason, af.Reason)
		}
	}
}

func TestAuthFailure_UnwrapsCause(t *testing.T) {
	cause := errors.New("crypto/bcrypt: hashedSecret too short")
	err := &AuthFailure{Reason: ReasonHashError, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "bcrypt")
}

func TestIsUnauthenticated(t *testing.T) {
	assert.True(t, IsUnauthenticated(ErrorUnauthenticated))
	assert.True(t, IsUnauthenticated(fmt.Errorf("parse: %w", ErrInvalidToken)))
	assert.True(t, IsUnauthenticated(ErrTokenExpired))
	assert.False(t, IsUnauthenticated(ErrorInternal))
	assert.False(t, IsUnauthenticated(nil))
}
