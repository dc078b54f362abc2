package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const duneBaseURL = "https://api.dune.com/api/v1"

// Dune fetches the result rows of a saved query (transaction volume).
type Dune struct {
	client  *http.Client
	apiKey  string
	queryID string
	BaseURL string
}

func NewDune(client *http.Client, apiKey, queryID string) *Dune {
	return &Dune{client: client, apiKey: apiKey, queryID: queryID, BaseURL: duneBaseURL}
}

// Rows returns the raw result rows of the configured query.
func (d *Dune) Rows(ctx context.Context) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/query/%s/results?api_key=%s", d.BaseURL, d.queryID, d.apiKey)
	body, err := getJSON(ctx, d.client, url)
	if err != nil {
		return nil, fmt.Errorf("dune query results: %w", err)
	}

	var resp struct {
		Result struct {
			Rows json.RawMessage `json:"rows"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("dune query results: unmarshal: %w", err)
	}
	if len(resp.Result.Rows) == 0 {
		return json.RawMessage(`[]`), nil
	}
	return resp.Result.Rows, nil
}
