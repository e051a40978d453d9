package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// resetTokenLifetime bounds how long a setup/reset link stays usable.
const resetTokenLifetime = time.Hour

// NewResetToken generates a single-use setup/reset token. The raw value goes
// into the emailed link; only the sha256 digest is stored.
func NewResetToken() (raw string, hash string, expires time.Time, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, err
	}
	raw = hex.EncodeToString(buf)
	return raw, HashToken(raw), time.Now().Add(resetTokenLifetime), nil
}

// HashToken returns the hex sha256 digest of a raw token, the at-rest form.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// TokenExpired reports whether a stored token expiry has passed.
func TokenExpired(expires *time.Time) bool {
	return expires == nil || time.Now().After(*expires)
}
