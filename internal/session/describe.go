package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Info is what can be read out of a JWT session token without the signing key.
type Info struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Describe decodes token claims without verifying the signature. The result
// is informational only; the server remains the judge of validity.
// It returns false for tokens that are not JWTs.
func Describe(token string) (Info, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Info{}, false
	}

	var info Info
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		info.Subject = sub
	} else if id, ok := claims["id"].(string); ok {
		info.Subject = id
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, true
}

// Expired reports whether the decoded expiry lies before now.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && i.ExpiresAt.Before(now)
}
