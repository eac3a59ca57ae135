package hub_test

import (
	"testing"

	"github.com/dchubs/hub/pkg/hubsdk"
	"github.com/stretchr/testify/require"
)

// TestTokenLifecycle walks issuance, use, rotation and revocation.
func TestTokenLifecycle(t *testing.T) {
	hub := setupHubContainer(t)
	client := hubsdk.NewClient(hub.BaseURL)
	ctx := t.Context()
	session := sessionToken(t, "user-1")

	s, err := client.IssueTokens(ctx, session)
	require.NoError(t, err)
	require.NotEmpty(t, s.AccessToken())
	require.NotEmpty(t, s.RefreshToken())

	self, err := s.Self(ctx)
	require.NoError(t, err)
	require.Equal(t, "user-1", self.Subject)
	require.False(t, self.ExpiringSoon)

	// Rotation spends the refresh token and supersedes the access token.
	oldAccess, oldRefresh := s.AccessToken(), s.RefreshToken()
	require.NoError(t, s.Refresh(ctx))
	require.NotEqual(t, oldRefresh, s.RefreshToken())

	_, err = client.Refresh(ctx, oldRefresh)
	assertAPIError(t, err, hubsdk.ErrInvalidToken)
	_, err = client.Self(ctx, oldAccess)
	assertAPIError(t, err, hubsdk.ErrNotAuthenticated)

	self, err = s.Self(ctx)
	require.NoError(t, err)
	require.Equal(t, "user-1", self.Subject)

	// Revocation kills both tokens.
	require.NoError(t, client.Revoke(ctx, session))
	_, err = client.Self(ctx, s.AccessToken())
	assertAPIError(t, err, hubsdk.ErrNotAuthenticated)
	_, err = client.Refresh(ctx, s.RefreshToken())
	assertAPIError(t, err, hubsdk.ErrInvalidToken)
}

// TestReissueSupersedes checks a second issuance invalidates the first pair.
func TestReissueSupersedes(t *testing.T) {
	hub := setupHubContainer(t)
	client := hubsdk.NewClient(hub.BaseURL)
	ctx := t.Context()
	session := sessionToken(t, "user-2")

	first, err := client.IssueTokens(ctx, session)
	require.NoError(t, err)
	second, err := client.IssueTokens(ctx, session)
	require.NoError(t, err)

	_, err = first.Self(ctx)
	assertAPIError(t, err, hubsdk.ErrNotAuthenticated)
	_, err = second.Self(ctx)
	require.NoError(t, err)
}

// TestSubjectsAreIndependent checks rotating one subject leaves others alone.
func TestSubjectsAreIndependent(t *testing.T) {
	hub := setupHubContainer(t)
	client := hubsdk.NewClient(hub.BaseURL)
	ctx := t.Context()

	alice, err := client.IssueTokens(ctx, sessionToken(t, "alice"))
	require.NoError(t, err)
	bob, err := client.IssueTokens(ctx, sessionToken(t, "bob"))
	require.NoError(t, err)

	require.NoError(t, alice.Refresh(ctx))

	self, err := bob.Self(ctx)
	require.NoError(t, err)
	require.Equal(t, "bob", self.Subject)
}

func TestCLISessionMint(t *testing.T) {
	hub := setupHubContainer(t)
	client := hubsdk.NewClient(hub.BaseURL)

	// A session minted by the operator CLI is accepted by the server.
	tok := hub.hubCLI(t, "session", "mint", "--subject", "cli-user")
	s, err := client.IssueTokens(t.Context(), trimLine(tok))
	require.NoError(t, err)

	self, err := s.Self(t.Context())
	require.NoError(t, err)
	require.Equal(t, "cli-user", self.Subject)
}
