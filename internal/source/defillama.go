package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	llamaYieldPoolsURL = "https://yields.llama.fi/pools"
	llamaProtocolsURL  = "https://api.llama.fi/protocols"
	llamaTVLChartURL   = "https://api.llama.fi/v2/historicalChainTvl"
)

// DefiLlama serves the yield-pool listing, the protocols listing (shared
// by the risk-metric and risk-score pipelines) and the historical TVL
// chart used by the on-chain snapshot.
type DefiLlama struct {
	client *http.Client

	// URLs are fields so tests can point them at a local server.
	PoolsURL     string
	ProtocolsURL string
	TVLChartURL  string
}

func NewDefiLlama(client *http.Client) *DefiLlama {
	return &DefiLlama{
		client:       client,
		PoolsURL:     llamaYieldPoolsURL,
		ProtocolsURL: llamaProtocolsURL,
		TVLChartURL:  llamaTVLChartURL,
	}
}

// TVLChart returns the raw historical TVL series.
func (d *DefiLlama) TVLChart(ctx context.Context) (json.RawMessage, error) {
	body, err := getJSON(ctx, d.client, d.TVLChartURL)
	if err != nil {
		return nil, fmt.Errorf("defillama tvl chart: %w", err)
	}

	var series []json.RawMessage
	if err := json.Unmarshal(body, &series); err != nil {
		return nil, fmt.Errorf("defillama tvl chart: payload is not a series: %w", err)
	}
	return body, nil
}
