package hubsdk

import (
	"context"
	"net/http"
	"strconv"
)

// IssueTokens exchanges a browser session token for a new API token pair.
// Any previous pair for the subject stops working.
func (c *Client) IssueTokens(ctx context.Context, sessionToken string) (*Session, error) {
	headers, err := c.guardedHeaders(ctx)
	if err != nil {
		return nil, err
	}
	headers["Authorization"] = "Session " + sessionToken

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/tokens", nil, headers)
	if err != nil {
		return nil, err
	}

	var pair TokenPairResponse
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, &pair), nil
}

// Refresh rotates a token pair. The presented refresh token is spent.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPairResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/tokens/refresh", RefreshRequest{Token: refreshToken}, nil)
	if err != nil {
		return nil, err
	}

	var pair TokenPairResponse
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Self describes accessToken. ExpiringSoon mirrors the
// X-Token-Expiring-Soon header.
func (c *Client) Self(ctx context.Context, accessToken string) (*SelfResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/tokens/self", nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return nil, err
	}

	soon, _ := strconv.ParseBool(resp.Header.Get(HeaderExpiringSoon))

	var out SelfResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	out.ExpiringSoon = out.ExpiringSoon || soon
	return &out, nil
}

// Revoke drops the session subject's API token pair.
func (c *Client) Revoke(ctx context.Context, sessionToken string) error {
	headers, err := c.guardedHeaders(ctx)
	if err != nil {
		return err
	}
	headers["Authorization"] = "Session " + sessionToken

	resp, err := c.doRequest(ctx, http.MethodDelete, "/v1/tokens", nil, headers)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
