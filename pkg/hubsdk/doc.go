/*
Package hubsdk is the Go client for the DCHubs trust/access API, and holds
the wire types shared with the server.

# Client

A Client keeps a cookie jar so the CSRF double-submit cookie issued by
/v1/csrf is replayed on state-changing calls:

	client := hubsdk.NewClient("https://api.dchubs.org")

	// Exchange a browser session for an API token pair.
	session, err := client.IssueTokens(ctx, sessionToken)

	// Relay a vote to the target's callback.
	res, err := client.NotifyVote(ctx, hubsdk.VoteRequest{
		Type:     "bot",
		TargetID: "1234",
		User:     hubsdk.VoteUser{ID: "42", Username: "someone"},
	})

The CSRF token is fetched on first use. Call CSRF to rotate it explicitly.

# Session

A Session wraps an API token pair and rotates it through the refresh
endpoint shortly before the access token expires. Rotation supersedes the
previous pair server side, so share one Session per subject.

# Errors

Failed calls return *APIError carrying the HTTP status and the server's
"error" message, or *DeliveryError when a vote could not be relayed:

	var derr *hubsdk.DeliveryError
	if errors.As(err, &derr) {
		log.Printf("callback failed: %s (%d)", derr.Reason, derr.UpstreamStatus)
	}

The server writes its error bodies with the same APIError values, so the
message strings here are the API contract.
*/
package hubsdk
