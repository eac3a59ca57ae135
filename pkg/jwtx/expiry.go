package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IsExpiringSoon reports whether token's exp claim falls within threshold of
// now. The signature is NOT checked: use this only to prompt a client to
// rotate early, never to grant or deny access. Unparsable tokens and tokens
// without exp report false.
func IsExpiringSoon(token string, threshold time.Duration, now time.Time) bool {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Sub(now) <= threshold
}
