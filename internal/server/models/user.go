// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. An empty PasswordHash marks an account that can only
// sign in through the delegated identity provider.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

// HasPassword reports whether the account accepts local sign-in.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
