package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated covers every token verification failure. Callers
	// should not tell the reasons apart in responses.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrTargetNotFound = errors.New("target_not_found")
)

// Delivery failure reasons reported to the caller.
const (
	ReasonTimeout         = "timeout"
	ReasonUpstreamStatus  = "upstream_status"
	ReasonUnreachable     = "unreachable"
	ReasonInvalidCallback = "invalid_callback"
)

// DeliveryError is a failed outbound notification. Reason, UpstreamStatus and
// UpstreamBody are safe to return to the caller; Err is for logs only.
type DeliveryError struct {
	Reason         string
	UpstreamStatus int    // zero when no response was received
	UpstreamBody   string // truncated
	Err            error
}

func (e *DeliveryError) Error() string {
	if e.UpstreamStatus != 0 {
		return fmt.Sprintf("delivery failed: %s (%d)", e.Reason, e.UpstreamStatus)
	}
	return "delivery failed: " + e.Reason
}

func (e *DeliveryError) Unwrap() error { return e.Err }
