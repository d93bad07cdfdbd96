// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil is the outbound request layer shared by every resolver
// stage and the feed client.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBackoff is the fixed delay between attempts. Tests set a tiny
// Backoff on the Client to avoid real sleeps.
const DefaultBackoff = 800 * time.Millisecond

const defaultRetries = 2

// Client issues GET requests with bounded retries. An attempt succeeds
// only on HTTP 200; any other status or transport failure is logged and
// retried after a fixed backoff. Exhausting the attempts yields an absent
// result, never an error: upstream sources are unreliable and rate
// limited, and a missing response always degrades to "no data from this
// source".
type Client struct {
	HTTP *http.Client

	// Retries is the number of additional attempts after the first.
	// Negative means the default (2).
	Retries int

	// Backoff is the delay between attempts. Zero means DefaultBackoff.
	Backoff time.Duration

	UserAgent string

	// Log receives per-attempt failure lines. Nil discards them.
	Log io.Writer
}

// Get fetches rawURL with the given extra headers and query parameters.
// The boolean is false when every attempt failed; callers treat that as
// absent data, not as a pipeline failure. The caller owns the response
// body on success.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header, params url.Values) (*http.Response, bool) {
	retries := c.Retries
	if retries < 0 {
		retries = defaultRetries
	}
	backoff := c.Backoff
	if backoff == 0 {
		backoff = DefaultBackoff
	}
	log := c.Log
	if log == nil {
		log = io.Discard
	}

	reqURL := rawURL
	if len(params) > 0 {
		reqURL = rawURL + "?" + params.Encode()
	}

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, false
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			fmt.Fprintf(log, "GET %s: bad request: %v\n", rawURL, err)
			return nil, false
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}

		resp, err := c.HTTP.Do(req)
		if err != nil {
			fmt.Fprintf(log, "GET %s: %v (try %d/%d)\n", rawURL, err, attempt+1, retries+1)
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp, true
		}

		fmt.Fprintf(log, "GET %s: status %d (try %d/%d)\n", rawURL, resp.StatusCode, attempt+1, retries+1)
		if resp.StatusCode == http.StatusForbidden {
			fmt.Fprintf(log, "GET %s: forbidden (403); check the API token and rate limits\n", rawURL)
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	fmt.Fprintf(log, "GET %s: giving up after %d attempts\n", rawURL, retries+1)
	return nil, false
}
