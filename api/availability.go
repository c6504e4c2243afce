package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CheckAvailability asks the proxy whether each space is free for the slot.
// Batching is the caller's job; the proxy rejects large payloads.
func (c *Client) CheckAvailability(ctx context.Context, spaces []Space, date, clock string, duration int) ([]AvailabilityResult, error) {
	body, err := json.Marshal(AvailabilityRequest{
		Spaces:   spaces,
		Date:     date,
		Time:     clock,
		Duration: duration,
	})
	if err != nil {
		return nil, err
	}

	var resp availabilityResponse
	err = c.doTimed(ctx, func(ctx context.Context) (*http.Request, error) {
		return c.newRequest(ctx, c.ProxyURL, http.MethodPost, "", nil, bytes.NewReader(body))
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AvailabilityResults == nil {
		return nil, fmt.Errorf("missing availabilityResults: %w", ErrMalformedResponse)
	}
	return *resp.AvailabilityResults, nil
}
