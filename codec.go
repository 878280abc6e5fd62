package magiclink

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// IssueToken returns a raw 32-byte random token (base64url-encoded) and its
// storage hash. The raw token goes into the emailed link and must not be
// persisted anywhere; only the hash is stored.
func IssueToken() (raw, hash string, err error) {
	b := make([]byte, 32)
	_, err = rand.Read(b)
	if err != nil {
		return "", "", err
	}
	raw = base64.RawURLEncoding.EncodeToString(b)
	return raw, HashToken(raw), nil
}

// HashToken converts a raw token into its hex-encoded sha256 storage hash.
// Deterministic, so a presented token can be looked up without ever storing
// it in reversible form.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
