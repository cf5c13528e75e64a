// Package oauthstates persists the one-time CSRF state values issued before
// redirecting a browser to the identity provider.
package oauthstates

import (
	"context"
	"time"
)

// Repository defines operations for issuing and consuming OAuth states.
type Repository interface {
	// Create stores state valid until now+validity.
	Create(ctx context.Context, state string, validity time.Duration) error

	// Consume deletes state and reports whether it existed and was still
	// valid. A state can be consumed at most once.
	Consume(ctx context.Context, state string) (bool, error)

	// PurgeExpired removes expired states and returns how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
