// Package common defines shared constants and sentinel errors used across
// the server layers of SecretKeeper. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal        = errors.New("internal error")
	ErrorValidation      = errors.New("validation error")
	ErrorUpstream        = errors.New("upstream unavailable")
	ErrorUnauthenticated = errors.New("unauthenticated")

	// ErrorInvalidCredentials is the only credential error that leaves the
	// service layer; the concrete reason travels in *AuthFailure.
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Token errors. Both are reported to clients as ErrorUnauthenticated.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrorFeatureDisabled = errors.New("feature disabled")
)

// Reasons recorded on AuthFailure. They are meant for logs and audit only.
const (
	ReasonNotFound    = "not_found"
	ReasonBadPassword = "bad_password"
	ReasonNoPassword  = "no_password"
	ReasonHashError   = "hash_error"
)

// AuthFailure describes why a local credential check failed.
// It matches ErrorInvalidCredentials under errors.Is and its message never
// includes the reason.
type AuthFailure struct {
	Reason string
	Err    error
}

func (e *AuthFailure) Error() string {
	return ErrorInvalidCredentials.Error()
}

func (e *AuthFailure) Is(target error) bool {
	return target == ErrorInvalidCredentials
}

func (e *AuthFailure) Unwrap() error {
	return e.Err
}

// IsUnauthenticated reports whether err means the caller presented no usable
// session artifact.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrorUnauthenticated) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired)
}
