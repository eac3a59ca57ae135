// Package webhook builds vote notification payloads and delivers them to
// third party callbacks.
//
// Two payload shapes exist. Callbacks that point at a Discord channel webhook
// receive an embed message Discord renders directly. Every other callback
// receives the generic JSON event, and when a shared secret is configured the
// request carries
//
//	x-timestamp: <unix epoch milliseconds>
//	x-signature: hex(HMAC-SHA256(secret, x-timestamp + "." + body))
//
// where body is the exact request body. Receivers verify with
// cryptox.VerifyWebhook.
//
// Deliveries are attempted once. Every request carries x-delivery-id, a ULID
// receivers may use to deduplicate if a higher layer ever retries.
package webhook
