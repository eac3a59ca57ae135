package hub_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/dchubs/hub/pkg/hubsdk"
	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	hub := setupHubContainer(t)
	client := hubsdk.NewClient(hub.BaseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
	require.NotEmpty(t, health.Version)
}

func TestReadyzEndpoint(t *testing.T) {
	hub := setupHubContainer(t)
	client := hubsdk.NewClient(hub.BaseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Cache)
}

func TestMetricsEndpoint(t *testing.T) {
	hub := setupHubContainer(t)

	// Generate one request worth counting.
	_, err := hubsdk.NewClient(hub.BaseURL).GetLiveness(t.Context())
	require.NoError(t, err)

	resp, err := http.Get(hub.BaseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `hub_http_requests_total{method="GET",route="GET /livez",status="200"}`)
}

func TestMigrateCommand(t *testing.T) {
	hub := setupHubContainer(t)
	require.Contains(t, hub.hubCLI(t, "migrate"), "schema version 1")
}
