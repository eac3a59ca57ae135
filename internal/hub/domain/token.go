package domain

import "time"

// TokenPair is the current access/refresh pair of a subject. A subject has at
// most one live pair; issuing a new one supersedes the previous.
type TokenPair struct {
	SubjectID        string
	AccessToken      string
	RefreshToken     string
	IssuedAt         time.Time
	AccessExpiresAt  time.Time // zero: never expires
	RefreshExpiresAt time.Time // zero: never expires
	UpdatedAt        time.Time
}
