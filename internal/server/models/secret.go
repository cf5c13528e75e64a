package models

import "time"

type Secret struct {
	ID        int64     `db:"secret_id" json:"secret_id"`
	UserID    string    `db:"user_id" json:"-"`
	Text      string    `db:"secret" json:"secret"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
