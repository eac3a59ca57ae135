package http

import (
	"net/http"
	"time"

	"github.com/dchubs/hub/internal/hub/cache"
	"github.com/dchubs/hub/internal/hub/store"
	"github.com/dchubs/hub/pkg/httpx"
	"github.com/dchubs/hub/pkg/hubsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Probe
//	@Description	Checks the database and, when configured, the target cache.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	hubsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	hubsdk.HealthResponse	"degraded"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &hubsdk.HealthChecks{Database: "ok"}
		status, code := "ok", http.StatusOK

		// Error details stay in the logs; probes only need the verdict.
		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error"
			status, code = "degraded", http.StatusServiceUnavailable
		}
		if c != nil {
			checks.Cache = "ok"
			if err := c.Ping(r.Context()); err != nil {
				checks.Cache = "error"
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}

		httpx.WriteJSON(w, code, hubsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
