package magiclink

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/templui/magiclink/model"
)

// DefaultSessionExpiry is the default validity window for minted sessions.
const DefaultSessionExpiry = 8 * time.Hour

// Claims is the payload of a minted session credential.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SessionIssuer mints signed bearer session credentials for authenticated
// users. The signing secret is handed in by the composing application and
// never inspected elsewhere in this package.
type SessionIssuer struct {
	secret   []byte
	issuer   string
	audience string
	expiry   time.Duration
}

// NewSessionIssuer creates a SessionIssuer. Issuer and audience are bound to
// the deploying application's identity. A zero expiry falls back to
// DefaultSessionExpiry.
func NewSessionIssuer(secret, issuer, audience string, expiry time.Duration) *SessionIssuer {
	if expiry <= 0 {
		expiry = DefaultSessionExpiry
	}
	return &SessionIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		expiry:   expiry,
	}
}

// Mint signs a session credential for the user.
func (i *SessionIssuer) Mint(user *model.User) (*model.Session, error) {
	now := time.Now()
	expiresAt := now.Add(i.expiry)

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	return &model.Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify parses and validates a session credential, checking signature,
// expiry, issuer and audience.
func (i *SessionIssuer) Verify(signed string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(i.issuer), jwt.WithAudience(i.audience))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
