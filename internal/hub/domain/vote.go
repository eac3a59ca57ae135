package domain

import (
	"fmt"
	"strings"
)

// Actor is the member casting a vote, as identified by the front end.
type Actor struct {
	ID       string
	Username string
	Avatar   string
}

// VoteRequest asks for a target's callback to be notified of a vote.
type VoteRequest struct {
	Type     TargetType
	TargetID string
	User     Actor
}

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

const (
	maxIDLength       = 64
	maxUsernameLength = 64
	maxAvatarLength   = 256
)

// Validate checks required fields and bounds.
func (r VoteRequest) Validate() error {
	switch {
	case r.Type == "":
		return &ValidationError{Field: "type", Reason: "required"}
	case !r.Type.Valid():
		return &ValidationError{Field: "type", Reason: `must be "bot" or "server"`}
	}

	for _, f := range []struct {
		name, value string
		max         int
		required    bool
	}{
		{"targetId", r.TargetID, maxIDLength, true},
		{"user.id", r.User.ID, maxIDLength, true},
		{"user.username", r.User.Username, maxUsernameLength, true},
		{"user.avatar", r.User.Avatar, maxAvatarLength, false},
	} {
		if strings.TrimSpace(f.value) == "" {
			if f.required {
				return &ValidationError{Field: f.name, Reason: "required"}
			}
			continue
		}
		if len(f.value) > f.max {
			return &ValidationError{Field: f.name, Reason: fmt.Sprintf("longer than %d bytes", f.max)}
		}
	}
	return nil
}
