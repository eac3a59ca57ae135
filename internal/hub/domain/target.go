package domain

import "time"

type TargetType string

const (
	TargetBot    TargetType = "bot"
	TargetServer TargetType = "server"
)

// Valid reports whether t is a known listing type.
func (t TargetType) Valid() bool {
	return t == TargetBot || t == TargetServer
}

// VoteTarget is a bot or server listing that receives vote notifications.
type VoteTarget struct {
	Type         TargetType
	ID           string
	Name         string
	CallbackURL  string // empty: nothing to notify
	SharedSecret string // empty: deliveries are unsigned
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t VoteTarget) HasCallback() bool { return t.CallbackURL != "" }

func (t VoteTarget) HasSecret() bool { return t.SharedSecret != "" }
