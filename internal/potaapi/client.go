// Package potaapi fetches the upstream Parks On The Air spot snapshot.
// It is a thin HTTP client: all record-level interpretation happens in
// internal/normalize.
package potaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/n7qsk/potalake/internal/normalize"
	"github.com/n7qsk/potalake/internal/pipelineerr"
)

const defaultUserAgent = "potalake/1.0 (+https://github.com/n7qsk/potalake)"

// Client fetches the upstream spot snapshot over HTTPS. The upstream
// requires no authentication, only a stable User-Agent.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient creates an upstream client. timeout bounds a single fetch.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the current spot snapshot. A transport error or non-2xx
// response yields a FetchError; a response body that isn't a JSON array
// yields a ParseError. Both are terminal for the calling invocation: the
// collector logs and abandons the tick.
func (c *Client) Fetch(ctx context.Context) ([]normalize.RawSpot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, pipelineerr.New(pipelineerr.FetchError, "build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, pipelineerr.New(pipelineerr.FetchError, "GET "+c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, pipelineerr.New(pipelineerr.FetchError, "GET "+c.baseURL,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pipelineerr.New(pipelineerr.FetchError, "read response body", err)
	}

	var spots []normalize.RawSpot
	if err := json.Unmarshal(body, &spots); err != nil {
		return nil, pipelineerr.New(pipelineerr.ParseError, "decode spot array", err)
	}
	return spots, nil
}
