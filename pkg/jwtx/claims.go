package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. These provide sensible security defaults but
// can be overridden per deployment.
const (
	// DefaultAccessTokenTTL is the default lifetime for API access tokens.
	DefaultAccessTokenTTL = 1 * time.Hour

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour

	// DefaultSessionTTL is the lifetime of browser session tokens minted by
	// the login flow.
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// Kind tells the three token families apart. Each kind is signed with its own
// secret and carries its kind as a claim.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
	KindSession Kind = "session"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindAccess, KindRefresh, KindSession:
		return true
	}
	return false
}

// Claims are the claims carried by every token we mint. Nothing in here is
// trusted until the signature has been verified.
type Claims struct {
	jwt.RegisteredClaims

	// Kind is the token family, checked against the key used to verify.
	Kind Kind `json:"kind"`
}

// NewClaims builds minimally-correct claims. A ttl of zero or less produces
// a token without an exp claim.
func NewClaims(kind Kind, subject, issuer string, ttl time.Duration, now time.Time) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        NewJTI(),
		},
		Kind: kind,
	}
	if ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return c
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. It is what
// makes two tokens minted for the same subject in the same second differ.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateSubject ensures the token names a principal.
func (c *Claims) ValidateSubject() error {
	if c.Subject == "" {
		return ErrMissingSubject
	}
	return nil
}

// ValidateKind ensures the token was minted for the expected family.
func (c *Claims) ValidateKind(expected Kind) error {
	if c.Kind != expected {
		return ErrKindMismatch
	}
	return nil
}

// ValidateExpiryAt checks exp and nbf against now, allowing leeway for clock skew.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}

// Expiry returns the exp claim, or the zero time if the token never expires.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
