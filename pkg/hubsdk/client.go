package hubsdk

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"
)

// Client talks to the hub API. It is safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Origin is sent on state-changing requests. Defaults to BaseURL, which
	// the server always admits as same-origin.
	Origin string

	mu   sync.Mutex
	csrf string
}

// NewClient returns a client with a cookie jar and a 10s timeout.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil) // only errors on a bad PublicSuffixList
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
		Origin: baseURL,
	}
}

// csrfToken returns the cached CSRF token, fetching one on first use.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	tok := c.csrf
	c.mu.Unlock()
	if tok != "" {
		return tok, nil
	}
	return c.CSRF(ctx)
}

// guardedHeaders are the headers a state-changing browser-style request
// needs to get past the origin and CSRF guards.
func (c *Client) guardedHeaders(ctx context.Context) (map[string]string, error) {
	tok, err := c.csrfToken(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Origin":       c.Origin,
		"x-csrf-token": tok,
		"Content-Type": "application/json",
	}, nil
}
