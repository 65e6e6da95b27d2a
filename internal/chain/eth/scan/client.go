// Package scan provides a client for etherscan-compatible account
// history gateways.
package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wardenhq/warden/internal/chain"
)

// defaultTimeout bounds a single gateway round trip.
const defaultTimeout = 30 * time.Second

// Client queries an etherscan-compatible indexer for account history.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *chain.RateLimiter
}

// NewClient creates a history client for the given gateway endpoint.
// The API key is optional; public tiers work without one at reduced
// rate limits.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    chain.DefaultRateLimiter(),
	}
}

// Transaction is one entry from the indexer's txlist response.
type Transaction struct {
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	GasUsed         string `json:"gasUsed"`
	GasPrice        string `json:"gasPrice"`
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	IsError         string `json:"isError"`
	TxReceiptStatus string `json:"txreceipt_status"`
}

// envelope is the indexer's response wrapper. Result stays raw because
// the API returns a string instead of a list on some error paths.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// ListTransactions returns one page of an address's transactions,
// newest first. Page numbering starts at 1. An empty page means the
// history is exhausted.
func (c *Client) ListTransactions(ctx context.Context, address string, page, pageSize int) ([]Transaction, error) {
	if err := c.limiter.Wait(ctx, "txlist"); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address)
	params.Set("page", strconv.Itoa(page))
	params.Set("offset", strconv.Itoa(pageSize))
	params.Set("sort", "desc")
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending HTTP request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	// Status "0" with "No transactions found" is an empty page, not an error
	if env.Status != "1" {
		if env.Message == "No transactions found" {
			return nil, nil
		}
		return nil, fmt.Errorf("indexer error: %s", env.Message)
	}

	var txs []Transaction
	if err := json.Unmarshal(env.Result, &txs); err != nil {
		return nil, fmt.Errorf("parsing transaction list: %w", err)
	}

	return txs, nil
}
