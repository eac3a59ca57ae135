package hubsdk

import "time"

// Header set on /v1/tokens/self when the access token should be rotated.
const HeaderExpiringSoon = "X-Token-Expiring-Soon"

// TokenPairResponse is returned by issuance and refresh. The pair is shown
// once; the server stores it sealed.
type TokenPairResponse struct {
	AccessToken      string     `json:"accessToken"`
	RefreshToken     string     `json:"refreshToken"`
	AccessExpiresAt  *time.Time `json:"accessExpiresAt,omitempty"`
	RefreshExpiresAt *time.Time `json:"refreshExpiresAt,omitempty"`
}

// RefreshRequest is the body of POST /v1/tokens/refresh.
type RefreshRequest struct {
	Token string `json:"token"`
}

// SelfResponse describes the access token presented to /v1/tokens/self.
type SelfResponse struct {
	Subject      string     `json:"subject"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	ExpiringSoon bool       `json:"expiringSoon"`
}

type CSRFResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// VoteRequest is the body of POST /v1/votes/notify.
type VoteRequest struct {
	Type     string   `json:"type"` // "bot" | "server"
	TargetID string   `json:"targetId"`
	User     VoteUser `json:"user"`
}

type VoteUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// VoteResponse is the uniform dispatch result. Skipped means the target has
// no callback configured and nothing was sent.
type VoteResponse struct {
	Success        bool   `json:"success"`
	Skipped        bool   `json:"skipped,omitempty"`
	Reason         string `json:"reason,omitempty"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
	UpstreamBody   string `json:"upstreamBody,omitempty"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
}
