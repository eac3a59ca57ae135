package http

import (
	"errors"
	"net/http"

	"github.com/dchubs/hub/internal/hub/domain"
	"github.com/dchubs/hub/internal/hub/service"
	"github.com/dchubs/hub/pkg/httpx"
	"github.com/dchubs/hub/pkg/hubsdk"
	"github.com/dchubs/hub/pkg/slogx"
)

// VoteHandler relays votes to target callbacks. Origin and CSRF checks run
// in front of it as middleware.
type VoteHandler struct {
	VoteService *service.VoteService
}

// ServeHTTP godoc
//
//	@Summary		Notify Vote
//	@Description	Relays a vote to the target's callback: a Discord embed for Discord webhooks, otherwise a generic JSON payload signed with x-signature/x-timestamp when the target has a shared secret.
//	@Description	Each vote is attempted once. Targets without a callback are acknowledged with skipped=true.
//	@Tags			Votes
//	@Accept			json
//	@Produce		json
//	@Param			x-csrf-token	header		string				true	"CSRF token matching the csrfToken cookie"
//	@Param			body			body		hubsdk.VoteRequest	true	"vote"
//	@Success		200				{object}	hubsdk.VoteResponse	"success, skipped"
//	@Failure		400				{object}	map[string]string	"Invalid request"
//	@Failure		403				{object}	map[string]string	"Forbidden origin / Invalid CSRF token"
//	@Failure		404				{object}	map[string]string	"Target not found"
//	@Failure		502				{object}	hubsdk.VoteResponse	"success=false, reason, upstreamStatus"
//	@Router			/v1/votes/notify [post].
func (h *VoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body hubsdk.VoteRequest
	if err := decodeJSON(w, r, &body); err != nil {
		hubsdk.ErrInvalidJSON.WriteError(w)
		return
	}

	res, err := h.VoteService.Dispatch(ctx, domain.VoteRequest{
		Type:     domain.TargetType(body.Type),
		TargetID: body.TargetID,
		User: domain.Actor{
			ID:       body.User.ID,
			Username: body.User.Username,
			Avatar:   body.User.Avatar,
		},
	})
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, hubsdk.VoteResponse{Success: true, Skipped: res.Skipped})
}

func writeDispatchError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *domain.ValidationError
		derr *service.DeliveryError
	)
	switch {
	case errors.As(err, &verr):
		hubsdk.ValidationError(verr.Field, verr.Reason).WriteError(w)
	case errors.Is(err, service.ErrTargetNotFound):
		hubsdk.ErrTargetNotFound.WriteError(w)
	case errors.As(err, &derr):
		(&hubsdk.DeliveryError{
			Reason:         derr.Reason,
			UpstreamStatus: derr.UpstreamStatus,
			UpstreamBody:   derr.UpstreamBody,
		}).WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("vote dispatch failed", "err", err)
		hubsdk.ErrServerError.WriteError(w)
	}
}
