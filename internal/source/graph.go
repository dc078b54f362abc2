package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const uniswapSubgraphURL = "https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v3"

const swapsQuery = `{"query":"{ swaps(first: 10, orderBy: timestamp, orderDirection: desc) { id amountUSD timestamp } }"}`

// Graph fetches recent Uniswap swaps from The Graph.
type Graph struct {
	client *http.Client
	URL    string
}

func NewGraph(client *http.Client) *Graph {
	return &Graph{client: client, URL: uniswapSubgraphURL}
}

// Swaps returns the 10 most recent swaps as raw JSON.
func (g *Graph) Swaps(ctx context.Context) (json.RawMessage, error) {
	body, err := postJSON(ctx, g.client, g.URL, []byte(swapsQuery), nil)
	if err != nil {
		return nil, fmt.Errorf("uniswap subgraph: %w", err)
	}

	var resp struct {
		Data struct {
			Swaps json.RawMessage `json:"swaps"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("uniswap subgraph: unmarshal: %w", err)
	}
	if len(resp.Data.Swaps) == 0 {
		return json.RawMessage(`[]`), nil
	}
	return resp.Data.Swaps, nil
}
