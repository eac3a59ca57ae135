package hubsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dchubs/hub/pkg/httpx"
)

// APIError is an error body of the form {"error": message}. The server
// writes it; the client parses it back.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// WriteError writes e as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	httpx.WriteError(w, e.StatusCode, e.Message)
}

// Is matches APIErrors by status and message, so a parsed response can be
// compared against the predefined values with errors.Is.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.StatusCode == e.StatusCode && t.Message == e.Message
}

func NewAPIError(status int, message string) *APIError {
	return &APIError{StatusCode: status, Message: message}
}

var (
	ErrInvalidJSON      = NewAPIError(http.StatusBadRequest, "Invalid JSON body")
	ErrNotAuthenticated = NewAPIError(http.StatusUnauthorized, "Not authenticated")
	ErrInvalidToken     = NewAPIError(http.StatusUnauthorized, "Invalid or expired token")
	ErrInvalidCSRF      = NewAPIError(http.StatusForbidden, "Invalid CSRF token")
	ErrForbiddenOrigin  = NewAPIError(http.StatusForbidden, "Forbidden origin")
	ErrTargetNotFound   = NewAPIError(http.StatusNotFound, "Target not found")
	ErrTooManyRequests  = NewAPIError(http.StatusTooManyRequests, "Too many requests")
	ErrServerError      = NewAPIError(http.StatusInternalServerError, "Internal server error")
)

// ValidationError is a 400 naming the offending field.
func ValidationError(field, reason string) *APIError {
	return NewAPIError(http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", field, reason))
}

// DeliveryError is a vote that reached a known target but could not be
// relayed to its callback (502).
type DeliveryError struct {
	Reason         string
	UpstreamStatus int
	UpstreamBody   string // truncated by the server
}

func (e *DeliveryError) Error() string {
	if e.UpstreamStatus != 0 {
		return fmt.Sprintf("delivery failed: %s (upstream %d)", e.Reason, e.UpstreamStatus)
	}
	return "delivery failed: " + e.Reason
}

// WriteError writes the 502 body {success:false, reason, upstreamStatus?, upstreamBody?}.
func (e *DeliveryError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusBadGateway, VoteResponse{
		Success:        false,
		Reason:         e.Reason,
		UpstreamStatus: e.UpstreamStatus,
		UpstreamBody:   e.UpstreamBody,
	})
}

// parseErrorResponse turns a non-2xx response into *DeliveryError or
// *APIError. It returns nil for 2xx.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusBadGateway {
		var vr VoteResponse
		if err := json.Unmarshal(body, &vr); err == nil && vr.Reason != "" {
			return &DeliveryError{Reason: vr.Reason, UpstreamStatus: vr.UpstreamStatus, UpstreamBody: vr.UpstreamBody}
		}
	}

	var e APIError
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		e.StatusCode = resp.StatusCode
		return &e
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
