package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const tenderlySimulateURL = "https://api.tenderly.co/api/v1/simulate"

// Tenderly runs a transaction simulation. Calls require an access key;
// Enabled reports whether one is configured.
type Tenderly struct {
	client    *http.Client
	accessKey string
	URL       string
}

func NewTenderly(client *http.Client, accessKey string) *Tenderly {
	return &Tenderly{client: client, accessKey: accessKey, URL: tenderlySimulateURL}
}

func (t *Tenderly) Enabled() bool { return t.accessKey != "" }

type simulationRequest struct {
	NetworkID string `json:"network_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Input     string `json:"input"`
}

// Simulate runs a canned mainnet simulation and returns the raw result.
func (t *Tenderly) Simulate(ctx context.Context, from, to, input string) (json.RawMessage, error) {
	payload, err := json.Marshal(simulationRequest{
		NetworkID: "1",
		From:      from,
		To:        to,
		Input:     input,
	})
	if err != nil {
		return nil, err
	}

	body, err := postJSON(ctx, t.client, t.URL, payload, map[string]string{
		"X-Access-Key": t.accessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("tenderly simulate: %w", err)
	}
	return body, nil
}
