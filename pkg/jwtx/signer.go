package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Pair is an access and refresh token minted together for one subject.
type Pair struct {
	Subject          string
	AccessToken      string
	RefreshToken     string
	IssuedAt         time.Time
	AccessExpiresAt  time.Time // zero if the access token never expires
	RefreshExpiresAt time.Time // zero if the refresh token never expires
}

// SignerOptions configures a Signer.
type SignerOptions struct {
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	SessionTTL time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Signer mints HS256 tokens. It holds one secret per Kind.
type Signer struct {
	keys Keys
	opts SignerOptions
}

// NewSigner validates keys and returns a Signer.
func NewSigner(keys Keys, opts SignerOptions) (*Signer, error) {
	if err := keys.Validate(); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Signer{keys: keys, opts: opts}, nil
}

// Sign mints a token of the given kind for subject.
func (s *Signer) Sign(kind Kind, subject string, ttl time.Duration) (string, Claims, error) {
	if subject == "" {
		return "", Claims{}, ErrMissingSubject
	}

	key, err := s.keys.secret(kind)
	if err != nil {
		return "", Claims{}, err
	}

	claims := NewClaims(kind, subject, s.opts.Issuer, ttl, s.opts.Now().UTC())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(key)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, claims, nil
}

// IssuePair mints a fresh access and refresh token for subject. Every call
// yields new values, even for the same subject within the same second.
func (s *Signer) IssuePair(subject string) (Pair, error) {
	access, ac, err := s.Sign(KindAccess, subject, s.opts.AccessTTL)
	if err != nil {
		return Pair{}, err
	}

	refresh, rc, err := s.Sign(KindRefresh, subject, s.opts.RefreshTTL)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		Subject:          subject,
		AccessToken:      access,
		RefreshToken:     refresh,
		IssuedAt:         ac.IssuedAt.Time,
		AccessExpiresAt:  ac.Expiry(),
		RefreshExpiresAt: rc.Expiry(),
	}, nil
}

// SignSession mints a browser session token. The login flow that talks to
// the identity provider is the only intended caller.
func (s *Signer) SignSession(subject string) (string, error) {
	tok, _, err := s.Sign(KindSession, subject, s.opts.SessionTTL)
	return tok, err
}
