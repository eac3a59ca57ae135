package hubsdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// refreshSkew rotates the pair this long before the access token expires.
const refreshSkew = 30 * time.Second

// Session holds an API token pair and rotates it when it is about to expire.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time // zero: never expires
}

func newSession(c *Client, p *TokenPairResponse) *Session {
	s := &Session{client: c}
	s.update(p)
	return s
}

func (s *Session) update(p *TokenPairResponse) {
	s.accessToken = p.AccessToken
	s.refreshToken = p.RefreshToken
	s.expiresAt = time.Time{}
	if p.AccessExpiresAt != nil {
		s.expiresAt = p.AccessExpiresAt.Add(-refreshSkew)
	}
}

func (s *Session) fresh() bool {
	return s.expiresAt.IsZero() || time.Now().Before(s.expiresAt)
}

// getValidToken returns the access token, rotating the pair first when it
// is about to expire.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.fresh() {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have rotated already.
	if s.fresh() {
		return s.accessToken, nil
	}
	if err := s.refreshLocked(ctx); err != nil {
		return "", err
	}
	return s.accessToken, nil
}

// Refresh rotates the pair now.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	if s.refreshToken == "" {
		return errors.New("no refresh token available")
	}
	pair, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}
	s.update(pair)
	return nil
}

// Self describes the session's access token.
func (s *Session) Self(ctx context.Context) (*SelfResponse, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.Self(ctx, token)
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}
