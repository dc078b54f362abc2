// Package source holds thin clients for the third-party APIs this
// service aggregates. Every client shares one http.Client with a fixed
// 10-second timeout and no retries; an upstream failure fails that
// refresh and leaves the prior snapshot intact.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/web3-frozen/defi-radar/internal/ingest"
)

// NewHTTPClient returns the shared outbound client.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: ingest.RequestTimeout}
}

// postJSON issues a JSON POST and returns the raw response body.
func postJSON(ctx context.Context, client *http.Client, url string, body []byte, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("post %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// getJSON issues a GET and returns the raw response body.
func getJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
