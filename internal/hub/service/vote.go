package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dchubs/hub/internal/hub/domain"
	"github.com/dchubs/hub/pkg/slogx"
	"github.com/dchubs/hub/pkg/webhook"
)

// DispatchResult is a successful dispatch. Skipped means the target has no
// callback and nothing was sent.
type DispatchResult struct {
	Skipped    bool
	DeliveryID string
	Status     int
	Signed     bool
}

// VoteService relays votes to the target's callback. Each vote is attempted
// exactly once.
type VoteService struct {
	Targets *TargetService
	Sender  *webhook.Sender
	Metrics *Metrics

	// SiteURL links Discord embeds back to the listing.
	SiteURL string
	Now     func() time.Time
}

func (s *VoteService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Dispatch validates req, resolves its target and notifies the callback.
//
// Errors are *domain.ValidationError, ErrTargetNotFound, *DeliveryError, or
// an internal failure.
func (s *VoteService) Dispatch(ctx context.Context, req domain.VoteRequest) (DispatchResult, error) {
	if err := req.Validate(); err != nil {
		return DispatchResult{}, err
	}

	l := slogx.FromContext(ctx).With(
		slog.String("target_type", string(req.Type)),
		slog.String("target_id", req.TargetID),
	)

	target, err := s.Targets.Resolve(ctx, req.Type, req.TargetID)
	if err != nil {
		return DispatchResult{}, err
	}

	if !target.HasCallback() {
		s.Metrics.delivery(resultSkipped)
		l.Debug("vote not relayed, target has no callback")
		return DispatchResult{Skipped: true}, nil
	}

	callback, err := webhook.ParseCallback(target.CallbackURL)
	if err != nil {
		s.Metrics.delivery(resultFailed)
		l.Warn("target callback is not a valid url")
		return DispatchResult{}, &DeliveryError{Reason: ReasonInvalidCallback, Err: err}
	}

	ev := webhook.Event{
		Target: webhook.Target{ID: target.ID, Type: string(target.Type), Name: target.Name},
		User:   webhook.User{ID: req.User.ID, Username: req.User.Username, Avatar: req.User.Avatar},
		At:     s.now(),
	}

	// Discord verifies nothing we could sign, so only generic callbacks
	// carry a signature.
	format := "generic"
	var body, secret []byte
	if webhook.IsDiscordWebhook(callback) {
		format = "discord"
		body, err = webhook.Discord(ev, s.SiteURL)
	} else {
		body, err = webhook.Generic(ev)
		if target.HasSecret() {
			secret = []byte(target.SharedSecret)
		}
	}
	if err != nil {
		return DispatchResult{}, err
	}

	res, err := s.Sender.Send(ctx, webhook.Delivery{URL: callback.String(), Body: body, Secret: secret})
	s.Metrics.latency(format, res.Duration)

	l = l.With(
		slog.String("delivery_id", res.ID.String()),
		slog.String("format", format),
		slog.Bool("signed", res.Signed),
		slog.Duration("duration", res.Duration),
	)

	if err != nil {
		s.Metrics.delivery(resultFailed)
		derr := deliveryError(err)
		l.Warn("vote delivery failed",
			slog.String("reason", derr.Reason),
			slog.Int("upstream_status", derr.UpstreamStatus),
			slog.String("upstream_body", derr.UpstreamBody),
		)
		return DispatchResult{}, derr
	}

	s.Metrics.delivery(resultDelivered)
	l.Info("vote delivered", slog.Int("status", res.Status))
	return DispatchResult{DeliveryID: res.ID.String(), Status: res.Status, Signed: res.Signed}, nil
}

func deliveryError(err error) *DeliveryError {
	var se *webhook.StatusError
	switch {
	case errors.Is(err, webhook.ErrTimeout):
		return &DeliveryError{Reason: ReasonTimeout, Err: err}
	case errors.As(err, &se):
		return &DeliveryError{Reason: ReasonUpstreamStatus, UpstreamStatus: se.Status, UpstreamBody: se.Body, Err: err}
	case errors.Is(err, webhook.ErrInvalidCallback):
		return &DeliveryError{Reason: ReasonInvalidCallback, Err: err}
	default:
		return &DeliveryError{Reason: ReasonUnreachable, Err: err}
	}
}
