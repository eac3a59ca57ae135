package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dchubs/hub/pkg/cryptox"
	"github.com/dchubs/hub/pkg/idx"
)

const (
	HeaderSignature  = "x-signature"
	HeaderTimestamp  = "x-timestamp"
	HeaderDeliveryID = "x-delivery-id"

	DefaultTimeout     = 5 * time.Second
	DefaultMaxBodyEcho = 256
)

var (
	ErrInvalidCallback = errors.New("webhook: callback must be an absolute http(s) url")
	ErrTimeout         = errors.New("webhook: delivery timed out")
)

// StatusError is returned for a non-2xx callback response.
type StatusError struct {
	Status int
	Body   string // truncated to the sender's MaxBodyEcho
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook: callback responded %d", e.Status)
}

// Delivery is one outbound request.
type Delivery struct {
	URL    string
	Body   []byte
	Secret []byte // signs the request when non-empty
}

// Result describes a completed attempt.
type Result struct {
	ID       idx.ID
	Status   int
	Signed   bool
	Duration time.Duration
}

// SenderOptions configures a Sender. Zero values select the defaults.
type SenderOptions struct {
	Client      *http.Client
	Timeout     time.Duration
	MaxBodyEcho int
	UserAgent   string
	Now         func() time.Time
}

// Sender performs single-attempt deliveries bounded by a timeout.
type Sender struct {
	client      *http.Client
	timeout     time.Duration
	maxBodyEcho int
	userAgent   string
	now         func() time.Time
}

func NewSender(opts SenderOptions) *Sender {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyEcho <= 0 {
		opts.MaxBodyEcho = DefaultMaxBodyEcho
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "dchubs-webhook/1"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Client == nil {
		opts.Client = &http.Client{
			Timeout: opts.Timeout,
			// Redirects are not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return &Sender{
		client:      opts.Client,
		timeout:     opts.Timeout,
		maxBodyEcho: opts.MaxBodyEcho,
		userAgent:   opts.UserAgent,
		now:         opts.Now,
	}
}

// Send posts d.Body exactly as given. The context deadline is capped at the
// sender's timeout, and the connection is torn down when it expires.
func (s *Sender) Send(ctx context.Context, d Delivery) (Result, error) {
	res := Result{ID: idx.New(), Signed: len(d.Secret) > 0}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(d.Body))
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrInvalidCallback, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set(HeaderDeliveryID, res.ID.String())

	if res.Signed {
		ts := cryptox.WebhookTimestamp(s.now())
		req.Header.Set(HeaderTimestamp, ts)
		req.Header.Set(HeaderSignature, cryptox.SignWebhook(d.Secret, ts, d.Body))
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return res, ErrTimeout
		}
		return res, fmt.Errorf("webhook: delivery failed: %w", err)
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		echo, _ := io.ReadAll(io.LimitReader(resp.Body, int64(s.maxBodyEcho)))
		return res, &StatusError{Status: resp.StatusCode, Body: strings.ToValidUTF8(string(echo), "")}
	}
	// Drain so the keep-alive connection goes back to the pool.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	return res, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
