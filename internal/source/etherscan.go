package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const etherscanBaseURL = "https://api.etherscan.io/api"

// Etherscan fetches account data for the configured wallet address.
type Etherscan struct {
	client  *http.Client
	apiKey  string
	address string
	BaseURL string
}

func NewEtherscan(client *http.Client, apiKey, address string) *Etherscan {
	return &Etherscan{
		client:  client,
		apiKey:  apiKey,
		address: address,
		BaseURL: etherscanBaseURL,
	}
}

// Balance returns the raw balance response for the configured address.
func (e *Etherscan) Balance(ctx context.Context) (json.RawMessage, error) {
	body, err := getJSON(ctx, e.client, e.accountURL("balance", "tag=latest"))
	if err != nil {
		return nil, fmt.Errorf("etherscan balance: %w", err)
	}
	return body, nil
}

// Transactions returns the transaction list for the configured address.
func (e *Etherscan) Transactions(ctx context.Context) (json.RawMessage, error) {
	body, err := getJSON(ctx, e.client, e.accountURL("txlist", "startblock=0&endblock=99999999&sort=asc"))
	if err != nil {
		return nil, fmt.Errorf("etherscan txlist: %w", err)
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("etherscan txlist: unmarshal: %w", err)
	}
	if len(resp.Result) == 0 {
		return json.RawMessage(`[]`), nil
	}
	return resp.Result, nil
}

func (e *Etherscan) accountURL(action, extra string) string {
	return fmt.Sprintf("%s?module=account&action=%s&address=%s&%s&apikey=%s",
		e.BaseURL, action, url.QueryEscape(e.address), extra, url.QueryEscape(e.apiKey))
}
