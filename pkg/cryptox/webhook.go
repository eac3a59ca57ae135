package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

// ErrWebhookSignature is returned by VerifyWebhook when the signature does not
// match or the timestamp falls outside the accepted window.
var ErrWebhookSignature = errors.New("cryptox: invalid webhook signature")

// WebhookTimestamp formats t the way deliveries carry it: epoch milliseconds
// as a decimal string.
func WebhookTimestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// SignWebhook returns hex(HMAC-SHA256(secret, timestamp + "." + body)).
//
// The MAC covers freshness and integrity in one value. Receivers rebuild the
// exact same byte sequence, so body must be the bytes that are actually sent.
func SignWebhook(secret []byte, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte{'.'})
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhook checks a delivery signature the way a receiver would. When
// window is positive the timestamp must be within window of now.
func VerifyWebhook(secret []byte, timestamp string, body []byte, signature string, window time.Duration, now time.Time) error {
	if window > 0 {
		ms, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			return ErrWebhookSignature
		}
		age := now.Sub(time.UnixMilli(ms))
		if age > window || age < -window {
			return ErrWebhookSignature
		}
	}

	want := SignWebhook(secret, timestamp, body)
	if !EqualString(want, signature) {
		return ErrWebhookSignature
	}
	return nil
}
