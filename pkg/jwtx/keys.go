package jwtx

import (
	"errors"
	"fmt"
)

// MinSecretLength is the minimum accepted HMAC secret length in bytes.
// HS256 keys shorter than the hash output only weaken the MAC.
const MinSecretLength = 32

var (
	ErrMissingKey  = errors.New("jwtx: signing key not configured")
	ErrWeakKey     = errors.New("jwtx: signing key too short")
	ErrSharedKey   = errors.New("jwtx: signing keys must be distinct")
	ErrUnknownKind = errors.New("jwtx: unknown token kind")
)

// Keys holds the process-wide signing secrets. Loaded once at startup and
// read-only afterwards.
//
// Access and refresh tokens are signed with independent secrets so a leaked
// refresh secret cannot mint access tokens. Session may be empty when the
// process does not authenticate browser sessions.
type Keys struct {
	Access  []byte
	Refresh []byte
	Session []byte
}

// Validate checks presence, length and separation of the configured secrets.
func (k Keys) Validate() error {
	named := []struct {
		name     string
		key      []byte
		required bool
	}{
		{"access", k.Access, true},
		{"refresh", k.Refresh, true},
		{"session", k.Session, false},
	}

	for _, n := range named {
		if len(n.key) == 0 {
			if n.required {
				return fmt.Errorf("%w: %s", ErrMissingKey, n.name)
			}
			continue
		}
		if len(n.key) < MinSecretLength {
			return fmt.Errorf("%w: %s needs at least %d bytes", ErrWeakKey, n.name, MinSecretLength)
		}
	}

	if string(k.Access) == string(k.Refresh) {
		return fmt.Errorf("%w: access and refresh", ErrSharedKey)
	}
	if len(k.Session) > 0 && (string(k.Session) == string(k.Access) || string(k.Session) == string(k.Refresh)) {
		return fmt.Errorf("%w: session", ErrSharedKey)
	}

	return nil
}

// secret returns the key matching kind.
func (k Keys) secret(kind Kind) ([]byte, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}

	key := k.Access
	switch kind {
	case KindRefresh:
		key = k.Refresh
	case KindSession:
		key = k.Session
	}

	if len(key) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, kind)
	}
	return key, nil
}
