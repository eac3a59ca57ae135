package hubsdk

import (
	"context"
	"net/http"
)

// NotifyVote asks the hub to relay a vote to the target's callback. A 502
// comes back as *DeliveryError.
func (c *Client) NotifyVote(ctx context.Context, req VoteRequest) (*VoteResponse, error) {
	headers, err := c.guardedHeaders(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/votes/notify", req, headers)
	if err != nil {
		return nil, err
	}

	var out VoteResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
