package hubsdk

import (
	"context"
	"net/http"
)

// CSRF fetches a fresh CSRF token. The cookie half lands in the client's jar;
// the token is cached for later guarded calls and returned.
func (c *Client) CSRF(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/csrf", nil, nil)
	if err != nil {
		return "", err
	}

	var out CSRFResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.csrf = out.CSRFToken
	c.mu.Unlock()
	return out.CSRFToken, nil
}
