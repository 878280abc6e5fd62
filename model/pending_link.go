package model

import (
	"time"
)

// PendingLink is one outstanding (or recently consumed) magic-link request.
// It is addressed by the hash of its token, never by the raw token itself.
type PendingLink struct {
	TokenHash  string     `json:"token_hash"`
	Email      string     `json:"email"` // lowercased
	OriginIP   string     `json:"origin_ip"`
	IssuedAt   time.Time  `json:"issued_at"`
	Used       bool       `json:"used"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	UsedFromIP *string    `json:"used_from_ip,omitempty"`
}
