package http

import (
	"net/http"

	"github.com/dchubs/hub/pkg/httpx"
	"github.com/dchubs/hub/pkg/hubsdk"
	"github.com/dchubs/hub/pkg/slogx"
)

// CSRFHandler issues double-submit tokens.
type CSRFHandler struct {
	Guard *httpx.CSRFGuard
}

// ServeHTTP godoc
//
//	@Summary		Issue CSRF Token
//	@Description	Sets the csrfToken cookie and returns the same value. Echo it in the x-csrf-token header on state-changing requests.
//	@Tags			Security
//	@Produce		json
//	@Success		200	{object}	hubsdk.CSRFResponse	"csrfToken"
//	@Header			200	{string}	Set-Cookie			"csrfToken=...; Path=/; Max-Age=3600; SameSite=Lax"
//	@Router			/v1/csrf [get].
func (h *CSRFHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tok, err := h.Guard.Issue(w)
	if err != nil {
		slogx.FromContext(r.Context()).Error("csrf issue failed", "err", err)
		hubsdk.ErrServerError.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, hubsdk.CSRFResponse{CSRFToken: tok})
}
