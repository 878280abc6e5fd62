package model

import (
	"time"
)

// Session is a short-lived signed bearer credential proving authentication.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
