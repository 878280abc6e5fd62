package model

import (
	"time"
)

const DefaultRole = "user"

type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"` // lowercased
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
