package model

import (
	"time"
)

// Security event kinds recorded by the audit log.
const (
	EventEmailMismatch = "email_mismatch"
	EventTokenReuse    = "token_reuse"
	EventLoginSuccess  = "login_success"
)

// SecurityEvent is an immutable record of a security-relevant outcome.
type SecurityEvent struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Email     string    `json:"email"`
	OriginIP  string    `json:"origin_ip"`
	Timestamp time.Time `json:"timestamp"`
}
