package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dchubs/hub/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func testEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HUB_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("ENV", "dev")
	t.Setenv("HUB_DATABASE_FILE", filepath.Join(t.TempDir(), "hub.db"))
	t.Setenv("HUB_ACCESS_SECRET", strings.Repeat("a", 32))
	t.Setenv("HUB_REFRESH_SECRET", strings.Repeat("r", 32))
	t.Setenv("HUB_SESSION_SECRET", strings.Repeat("s", 32))
	t.Setenv("HUB_SEALING_KEY", strings.Repeat("k", 32))
	t.Setenv("HUB_ISSUER", "dchubs-cli-test")
	t.Setenv("HUB_CACHE_DRIVER", "memory")
}

func TestSecret(t *testing.T) {
	out, err := run(t, "secret")
	require.NoError(t, err)

	raw, err := hex.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)
	require.Len(t, raw, 32)

	_, err = run(t, "secret", "--bytes", "8")
	require.Error(t, err)
}

func TestMigrate(t *testing.T) {
	testEnv(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	require.Equal(t, "schema version 1 (dirty=false)\n", out)

	// Idempotent.
	out, err = run(t, "migrate")
	require.NoError(t, err)
	require.Equal(t, "schema version 1 (dirty=false)\n", out)
}

func TestSessionMint(t *testing.T) {
	testEnv(t)

	out, err := run(t, "session", "mint", "--subject", "user-1")
	require.NoError(t, err)

	keys := jwtx.Keys{
		Access:  []byte(strings.Repeat("a", 32)),
		Refresh: []byte(strings.Repeat("r", 32)),
		Session: []byte(strings.Repeat("s", 32)),
	}
	claims, err := jwtx.NewVerifierHS256(keys, jwtx.VerifyOptions{Issuer: "dchubs-cli-test"}).
		Verify(strings.TrimSpace(out), jwtx.KindSession)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)

	t.Run("requires a configured key", func(t *testing.T) {
		t.Setenv("HUB_SESSION_SECRET", "")
		_, err := run(t, "session", "mint", "--subject", "user-1")
		require.ErrorContains(t, err, "HUB_SESSION_SECRET")
	})

	t.Run("requires a subject", func(t *testing.T) {
		_, err := run(t, "session", "mint")
		require.Error(t, err)
	})
}

func TestTargets(t *testing.T) {
	testEnv(t)

	_, err := run(t, "targets", "put",
		"--type", "bot", "--id", "42", "--name", "Helper",
		"--callback", "https://example.com/hook", "--secret", "s3cret")
	require.NoError(t, err)

	out, err := run(t, "targets", "get", "--type", "bot", "--id", "42")
	require.NoError(t, err)
	require.NotContains(t, out, "s3cret")

	var view targetView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, "Helper", view.Name)
	require.Equal(t, "https://example.com/hook", view.CallbackURL)
	require.True(t, view.HasSecret)

	_, err = run(t, "targets", "get", "--type", "server", "--id", "42")
	require.Error(t, err)

	_, err = run(t, "targets", "put", "--type", "guild", "--id", "1")
	require.Error(t, err)

	t.Run("requires a sealing key", func(t *testing.T) {
		t.Setenv("HUB_SEALING_KEY", "")
		_, err := run(t, "targets", "get", "--type", "bot", "--id", "42")
		require.ErrorContains(t, err, "HUB_SEALING_KEY")
	})
}

func TestTargetsPutHelp(t *testing.T) {
	out, err := run(t, "targets", "put", "--help")
	require.NoError(t, err)
	require.Contains(t, out, "HUB_CACHE_TTL")
	require.Contains(t, out, "redis")
}
