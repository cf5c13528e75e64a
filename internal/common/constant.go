// Package common contains shared constants and sentinel errors used across
// SecretKeeper components.
package common

const (
	// AuthHeaderName carries the bearer token on protected requests.
	AuthHeaderName = "Authorization"

	// AuthHeaderPrefix precedes the token in AuthHeaderName.
	AuthHeaderPrefix = "Bearer "

	// RequestIDHeaderName is the correlation id echoed on every response.
	RequestIDHeaderName = "X-Request-ID"
)
