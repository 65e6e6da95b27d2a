// Package rpc provides a minimal JSON-RPC 2.0 client for Ethereum nodes.
package rpc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/wardenhq/warden/internal/chain"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// ErrInvalidHexNumber indicates the gateway returned a malformed hex
// quantity.
var ErrInvalidHexNumber = &wardenerr.WardenError{
	Code:     "RPC_INVALID_HEX",
	Message:  "invalid hex number",
	ExitCode: wardenerr.ExitGeneral,
}

// defaultTimeout bounds a single gateway round trip.
const defaultTimeout = 30 * time.Second

// Client is a minimal Ethereum JSON-RPC client with per-method rate
// limiting.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *chain.RateLimiter
	idCounter  atomic.Uint64
}

// NewClient creates a new RPC client for the given gateway endpoint.
func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    chain.DefaultRateLimiter(),
	}
}

// request represents a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
}

// response represents a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// Call performs a JSON-RPC call, waiting on the per-method rate limiter
// first.
func (c *Client) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	if err := c.limiter.Wait(ctx, method); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.idCounter.Add(1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending HTTP request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if resp.Error != nil {
		return nil, resp.Error
	}

	return resp.Result, nil
}

// ChainID returns the network chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.callHexBigInt(ctx, "eth_chainId")
}

// BlockNumber returns the current chain head height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.callHexBigInt(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GetBalance returns the balance of an address in wei at the given block
// ("latest" when empty).
func (c *Client) GetBalance(ctx context.Context, address, block string) (*big.Int, error) {
	if block == "" {
		block = "latest"
	}
	return c.callHexBigInt(ctx, "eth_getBalance", address, block)
}

// GetTransactionCount returns the nonce for an address at the given
// block ("pending" when empty).
func (c *Client) GetTransactionCount(ctx context.Context, address, block string) (uint64, error) {
	if block == "" {
		block = "pending"
	}

	n, err := c.callHexBigInt(ctx, "eth_getTransactionCount", address, block)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GasPrice returns the current gas price in wei.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	return c.callHexBigInt(ctx, "eth_gasPrice")
}

// CallMsg represents the parameters for eth_estimateGas and eth_call.
type CallMsg struct {
	From  string
	To    string
	Value *big.Int
	Data  []byte
}

// MarshalJSON encodes the message with hex-quantity fields as the
// gateway expects.
func (m CallMsg) MarshalJSON() ([]byte, error) {
	type callMsgJSON struct {
		From  string `json:"from,omitempty"`
		To    string `json:"to"`
		Value string `json:"value,omitempty"`
		Data  string `json:"data,omitempty"`
	}

	msg := callMsgJSON{
		From: m.From,
		To:   m.To,
	}

	if m.Value != nil && m.Value.Sign() > 0 {
		msg.Value = "0x" + m.Value.Text(16)
	}
	if len(m.Data) > 0 {
		msg.Data = "0x" + hex.EncodeToString(m.Data)
	}

	return json.Marshal(msg)
}

// EstimateGas estimates the gas needed for a transaction.
func (c *Client) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	n, err := c.callHexBigInt(ctx, "eth_estimateGas", msg)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// SendRawTransaction broadcasts a signed transaction and returns its hash.
func (c *Client) SendRawTransaction(ctx context.Context, signedTx []byte) (string, error) {
	result, err := c.Call(ctx, "eth_sendRawTransaction", "0x"+hex.EncodeToString(signedTx))
	if err != nil {
		return "", err
	}

	var txHash string
	if err := json.Unmarshal(result, &txHash); err != nil {
		return "", fmt.Errorf("parsing tx hash: %w", err)
	}

	return txHash, nil
}

// Transaction is the gateway's view of a transaction.
type Transaction struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	Gas         string `json:"gas"`
	GasPrice    string `json:"gasPrice"`
	BlockNumber string `json:"blockNumber"` // Empty while pending
}

// TransactionByHash looks up a transaction. Returns (nil, nil) when the
// gateway does not know the hash.
func (c *Client) TransactionByHash(ctx context.Context, hash string) (*Transaction, error) {
	result, err := c.Call(ctx, "eth_getTransactionByHash", hash)
	if err != nil {
		return nil, err
	}

	if len(result) == 0 || string(result) == "null" {
		return nil, nil
	}

	var tx Transaction
	if err := json.Unmarshal(result, &tx); err != nil {
		return nil, fmt.Errorf("parsing transaction: %w", err)
	}

	return &tx, nil
}

// callHexBigInt performs a call whose result is a hex quantity string.
func (c *Client) callHexBigInt(ctx context.Context, method string, params ...any) (*big.Int, error) {
	result, err := c.Call(ctx, method, params...)
	if err != nil {
		return nil, err
	}

	var hexVal string
	if err := json.Unmarshal(result, &hexVal); err != nil {
		return nil, fmt.Errorf("parsing %s result: %w", method, err)
	}

	return ParseHexBigInt(hexVal)
}

// ParseHexBigInt parses a hex quantity (with or without 0x prefix).
func ParseHexBigInt(s string) (*big.Int, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return big.NewInt(0), nil
	}

	n := new(big.Int)
	if _, ok := n.SetString(s, 16); !ok {
		return nil, ErrInvalidHexNumber
	}

	return n, nil
}
