package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dchubs/hub/internal/hub/domain"
	"github.com/dchubs/hub/internal/hub/service"
	"github.com/dchubs/hub/pkg/httpx"
	"github.com/dchubs/hub/pkg/hubsdk"
	"github.com/dchubs/hub/pkg/slogx"
)

// TokensHandler serves API token issuance, rotation and revocation.
type TokensHandler struct {
	TokenService *service.TokenService
}

// HandleIssue godoc
//
//	@Summary		Issue API Token Pair
//	@Description	Mints an access and refresh token for the session's subject. Any previous pair stops working.
//	@Description	The tokens are returned once and stored sealed.
//	@Tags			Tokens
//	@Produce		json
//	@Security		SessionAuth
//	@Param			x-csrf-token	header		string						true	"CSRF token matching the csrfToken cookie"
//	@Success		200				{object}	hubsdk.TokenPairResponse	"accessToken, refreshToken"
//	@Failure		401				{object}	map[string]string			"Not authenticated"
//	@Failure		403				{object}	map[string]string			"Forbidden origin / Invalid CSRF token"
//	@Router			/v1/tokens [post].
func (h *TokensHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, ok := httpx.SubjectFromContext(ctx)
	if !ok {
		hubsdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, subject)
	if err != nil {
		slogx.FromContext(ctx).Error("token issue failed", "err", err)
		hubsdk.ErrServerError.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pairResponse(pair))
}

// HandleRefresh godoc
//
//	@Summary		Rotate API Token Pair
//	@Description	Exchanges the current refresh token for a new pair. Expired, forged or superseded tokens get 401 and nothing is stored.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			body	body		hubsdk.RefreshRequest		true	"refresh token"
//	@Success		200		{object}	hubsdk.TokenPairResponse	"accessToken, refreshToken"
//	@Failure		400		{object}	map[string]string			"Invalid request"
//	@Failure		401		{object}	map[string]string			"Invalid or expired token"
//	@Router			/v1/tokens/refresh [post].
func (h *TokensHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req hubsdk.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		hubsdk.ErrInvalidJSON.WriteError(w)
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		hubsdk.ValidationError("token", "required").WriteError(w)
		return
	}

	pair, err := h.TokenService.Refresh(ctx, req.Token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			hubsdk.ErrInvalidToken.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("token refresh failed", "err", err)
		hubsdk.ErrServerError.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pairResponse(pair))
}

// HandleSelf godoc
//
//	@Summary		Describe Access Token
//	@Description	Returns the subject and expiry of the presented access token. X-Token-Expiring-Soon is set when the client should rotate.
//	@Tags			Tokens
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	hubsdk.SelfResponse	"subject, expiresAt, expiringSoon"
//	@Header			200	{string}	X-Token-Expiring-Soon	"true when the access token is close to expiry"
//	@Failure		401	{object}	map[string]string	"Not authenticated"
//	@Router			/v1/tokens/self [get].
func (h *TokensHandler) HandleSelf(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		hubsdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	_, raw, _ := strings.Cut(r.Header.Get("Authorization"), " ")
	resp := hubsdk.SelfResponse{
		Subject:      claims.Subject,
		ExpiringSoon: h.TokenService.ExpiringSoon(strings.TrimSpace(raw)),
	}
	if exp := claims.Expiry(); !exp.IsZero() {
		resp.ExpiresAt = &exp
	}

	if resp.ExpiringSoon {
		w.Header().Set(hubsdk.HeaderExpiringSoon, "true")
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleRevoke godoc
//
//	@Summary		Revoke API Token Pair
//	@Description	Drops the session subject's token pair. Both tokens stop working immediately.
//	@Tags			Tokens
//	@Security		SessionAuth
//	@Param			x-csrf-token	header	string	true	"CSRF token matching the csrfToken cookie"
//	@Success		204				"Revoked"
//	@Failure		401				{object}	map[string]string	"Not authenticated"
//	@Failure		403				{object}	map[string]string	"Forbidden origin / Invalid CSRF token"
//	@Router			/v1/tokens [delete].
func (h *TokensHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, ok := httpx.SubjectFromContext(ctx)
	if !ok {
		hubsdk.ErrNotAuthenticated.WriteError(w)
		return
	}

	if err := h.TokenService.Revoke(ctx, subject); err != nil {
		slogx.FromContext(ctx).Error("token revoke failed", "err", err)
		hubsdk.ErrServerError.WriteError(w)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

func pairResponse(p domain.TokenPair) hubsdk.TokenPairResponse {
	resp := hubsdk.TokenPairResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
	}
	if !p.AccessExpiresAt.IsZero() {
		resp.AccessExpiresAt = timePtr(p.AccessExpiresAt)
	}
	if !p.RefreshExpiresAt.IsZero() {
		resp.RefreshExpiresAt = timePtr(p.RefreshExpiresAt)
	}
	return resp
}

func timePtr(t time.Time) *time.Time { return &t }
