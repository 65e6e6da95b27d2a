package eth

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/internal/chain"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// newMockGateway serves JSON-RPC responses keyed by method name.
func newMockGateway(t *testing.T, results map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     uint64 `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, ok := results[req.Method]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0", "id": req.ID,
				"error": map[string]any{"code": -32601, "message": "method not found"},
			})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0", "id": req.ID, "result": result,
		})
	}))
}

func newTestProvider(t *testing.T, rpcURL string) *Provider {
	t.Helper()
	p, err := New(chain.ProviderConfig{RPCURL: rpcURL})
	require.NoError(t, err)
	return p.(*Provider)
}

func TestNew_MissingRPCURL(t *testing.T) {
	t.Parallel()
	_, err := New(chain.ProviderConfig{})
	require.Error(t, err)
	assert.True(t, wardenerr.Is(err, wardenerr.ErrConfigInvalid))
}

func TestProvider_ID(t *testing.T) {
	t.Parallel()
	p := newTestProvider(t, "http://localhost:0")
	assert.Equal(t, chain.ETH, p.ID())
}

func TestProvider_ConnectLifecycle(t *testing.T) {
	t.Parallel()
	srv := newMockGateway(t, map[string]any{"eth_chainId": "0x1"})
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	assert.Equal(t, chain.StateDisconnected, p.State())

	require.NoError(t, p.Connect(context.Background()))
	assert.Equal(t, chain.StateConnected, p.State())

	p.Disconnect()
	assert.Equal(t, chain.StateDisconnected, p.State())
}

func TestProvider_ConnectFailureStaysDisconnected(t *testing.T) {
	t.Parallel()
	srv := newMockGateway(t, nil) // every method errors
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	err := p.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, chain.StateDisconnected, p.State())
}

func TestProvider_DisconnectZeroesKeypair(t *testing.T) {
	t.Parallel()
	p := newTestProvider(t, "http://localhost:0")
	require.NoError(t, p.InitFromMnemonic(testMnemonic, ""))
	require.NotEmpty(t, p.Address())

	p.Disconnect()
	assert.Empty(t, p.Address())
	assert.Empty(t, p.PublicKey())
}

func TestProvider_InitFromMnemonic(t *testing.T) {
	t.Parallel()
	p := newTestProvider(t, "http://localhost:0")
	require.NoError(t, p.InitFromMnemonic(testMnemonic, ""))
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", p.Address())
	assert.Len(t, p.PublicKey(), 128)
}

func TestProvider_InitFromPrivateKey(t *testing.T) {
	t.Parallel()
	p := newTestProvider(t, "http://localhost:0")
	require.NoError(t, p.InitFromPrivateKey(
		"0x4646464646464646464646464646464646464646464646464646464646464646"))
	assert.Equal(t, "0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F", p.Address())

	err := p.InitFromPrivateKey("not-a-key")
	require.Error(t, err)
	assert.True(t, wardenerr.Is(err, wardenerr.ErrInvalidKey))
}

func TestProvider_NotConnectedFailsFast(t *testing.T) {
	t.Parallel()
	p := newTestProvider(t, "http://localhost:0")
	ctx := context.Background()

	_, err := p.Balance(ctx, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
	assert.True(t, wardenerr.Is(err, wardenerr.ErrNotConnected))

	_, err = p.EstimateFee(ctx, chain.TxRequest{})
	assert.True(t, wardenerr.Is(err, wardenerr.ErrNotConnected))

	_, err = p.Send(ctx, "", chain.TxRequest{})
	assert.True(t, wardenerr.Is(err, wardenerr.ErrNotConnected))

	_, err = p.BlockNumber(ctx)
	assert.True(t, wardenerr.Is(err, wardenerr.ErrNotConnected))

	_, err = p.Transaction(ctx, "0xabc")
	assert.True(t, wardenerr.Is(err, wardenerr.ErrNotConnected))

	for _, histErr := range collectHistory(p, ctx, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94") {
		assert.True(t, wardenerr.Is(histErr, wardenerr.ErrNotConnected))
	}
}

func TestProvider_Balance(t *testing.T) {
	t.Parallel()
	srv := newMockGateway(t, map[string]any{
		"eth_chainId":     "0x1",
		"eth_blockNumber": "0x10",
		"eth_getBalance":  "0xde0b6b3a7640000", // 1 ETH
	})
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	require.NoError(t, p.Connect(context.Background()))

	bal, err := p.Balance(context.Background(), "0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", bal.Amount.String())
	assert.Equal(t, "wei", bal.Denomination)
	assert.Equal(t, uint64(16), bal.BlockNumber)
	assert.Equal(t, chain.ETH, bal.Chain)
}

func TestProvider_Balance_InvalidAddress(t *testing.T) {
	t.Parallel()
	srv := newMockGateway(t, map[string]any{"eth_chainId": "0x1"})
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	require.NoError(t, p.Connect(context.Background()))

	_, err := p.Balance(context.Background(), "nonsense")
	require.Error(t, err)
	assert.True(t, wardenerr.Is(err, wardenerr.ErrInvalidAddress))
}

func TestProvider_EstimateFee(t *testing.T) {
	t.Parallel()
	srv := newMockGateway(t, map[string]any{
		"eth_chainId":  "0x1",
		"eth_gasPrice": "0x3b9aca00", // 1 gwei
	})
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	require.NoError(t, p.Connect(context.Background()))

	// 21000 gas at 1 gwei = 0.000021 ETH
	fee, err := p.EstimateFee(context.Background(), chain.TxRequest{
		To:     "0x9858EfFD232B4033E47d90003D41EC34EcaEda94",
		Amount: big.NewInt(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.000021", fee)
}

func TestProvider_Send(t *testing.T) {
	t.Parallel()
	srv := newMockGateway(t, map[string]any{
		"eth_chainId":             "0x1",
		"eth_getTransactionCount": "0x9",
		"eth_gasPrice":            "0x4a817c800", // 20 gwei
		"eth_sendRawTransaction":  "0xdeadbeef",
	})
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	require.NoError(t, p.Connect(context.Background()))
	require.NoError(t, p.InitFromPrivateKey(eip155PrivKey))

	amount, ok := new(big.Int).SetString("1000000000000000000", 10)
	require.True(t, ok)

	record, err := p.Send(context.Background(), "", chain.TxRequest{
		To:     "0x3535353535353535353535353535353535353535",
		Amount: amount,
	})
	require.NoError(t, err)

	assert.Equal(t, "0xdeadbeef", record.Hash)
	assert.Equal(t, p.Address(), record.From)
	assert.Equal(t, "1.0", record.Amount)
	assert.Equal(t, chain.StatusPending, record.Status)
	assert.Equal(t, "0.00042", record.Fee) // 21000 * 20 gwei
}

func TestProvider_Send_Validation(t *testing.T) {
	t.Parallel()
	srv := newMockGateway(t, map[string]any{"eth_chainId": "0x1"})
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	require.NoError(t, p.Connect(context.Background()))
	ctx := context.Background()

	// No keypair bound
	_, err := p.Send(ctx, "", chain.TxRequest{
		To:     "0x3535353535353535353535353535353535353535",
		Amount: big.NewInt(1),
	})
	assert.True(t, wardenerr.Is(err, wardenerr.ErrKeyInit))

	require.NoError(t, p.InitFromPrivateKey(eip155PrivKey))

	// From mismatch
	_, err = p.Send(ctx, "0x3535353535353535353535353535353535353535", chain.TxRequest{
		To:     "0x3535353535353535353535353535353535353535",
		Amount: big.NewInt(1),
	})
	assert.True(t, wardenerr.Is(err, wardenerr.ErrInvalidInput))

	// Bad recipient
	_, err = p.Send(ctx, "", chain.TxRequest{To: "bogus", Amount: big.NewInt(1)})
	assert.True(t, wardenerr.Is(err, wardenerr.ErrInvalidAddress))

	// Non-positive amount
	_, err = p.Send(ctx, "", chain.TxRequest{
		To:     "0x3535353535353535353535353535353535353535",
		Amount: big.NewInt(0),
	})
	assert.True(t, wardenerr.Is(err, wardenerr.ErrInvalidAmount))
}

func TestProvider_SignTransaction(t *testing.T) {
	t.Parallel()
	p := newTestProvider(t, "http://localhost:0")

	priv := make([]byte, 32)
	for i := range priv {
		priv[i] = 0x46
	}

	amount, ok := new(big.Int).SetString("1000000000000000000", 10)
	require.True(t, ok)

	// Never connected: defaults to mainnet, matching the EIP-155 vector
	signed, err := p.SignTransaction(chain.TxRequest{
		To:       "0x3535353535353535353535353535353535353535",
		Amount:   amount,
		Nonce:    9,
		GasPrice: big.NewInt(20000000000),
		GasLimit: 21000,
	}, priv)
	require.NoError(t, err)
	assert.Equal(t, eip155SignedTx, hex.EncodeToString(signed.Payload))

	// Caller's key must be zeroed
	for _, b := range priv {
		assert.Zero(t, b)
	}
}

func TestProvider_Transaction(t *testing.T) {
	t.Parallel()
	srv := newMockGateway(t, map[string]any{
		"eth_chainId": "0x1",
		"eth_getTransactionByHash": map[string]any{
			"hash":        "0xabc",
			"from":        "0x1111111111111111111111111111111111111111",
			"to":          "0x2222222222222222222222222222222222222222",
			"value":       "0xde0b6b3a7640000",
			"blockNumber": "0x64",
		},
	})
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	require.NoError(t, p.Connect(context.Background()))

	record, err := p.Transaction(context.Background(), "0xabc")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "0xabc", record.Hash)
	assert.Equal(t, "1.0", record.Amount)
	assert.Equal(t, uint64(100), record.BlockNumber)
	assert.Equal(t, chain.StatusConfirmed, record.Status)
}

func TestProvider_Transaction_Unknown(t *testing.T) {
	t.Parallel()
	srv := newMockGateway(t, map[string]any{
		"eth_chainId":              "0x1",
		"eth_getTransactionByHash": nil,
	})
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	require.NoError(t, p.Connect(context.Background()))

	record, err := p.Transaction(context.Background(), "0xdoesnotexist")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestProvider_TransactionHistory_NoIndexer(t *testing.T) {
	t.Parallel()
	srv := newMockGateway(t, map[string]any{"eth_chainId": "0x1"})
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	require.NoError(t, p.Connect(context.Background()))

	errs := collectHistory(p, context.Background(), "0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
	require.Len(t, errs, 1)
	assert.True(t, wardenerr.Is(errs[0], wardenerr.ErrUnsupportedOperation))
}

func TestProvider_TransactionHistory(t *testing.T) {
	t.Parallel()
	rpcSrv := newMockGateway(t, map[string]any{"eth_chainId": "0x1"})
	defer rpcSrv.Close()

	scanSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page != "1" {
			_, _ = w.Write([]byte(`{"status":"0","message":"No transactions found","result":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":[
			{"hash":"0xaaa","from":"0x1111111111111111111111111111111111111111",
			 "to":"0x2222222222222222222222222222222222222222","value":"1000000000000000000",
			 "gasUsed":"21000","gasPrice":"1000000000","blockNumber":"100",
			 "isError":"0","txreceipt_status":"1"},
			{"hash":"0xbbb","from":"0x1111111111111111111111111111111111111111",
			 "to":"0x2222222222222222222222222222222222222222","value":"500000000000000000",
			 "gasUsed":"21000","gasPrice":"1000000000","blockNumber":"99",
			 "isError":"1","txreceipt_status":"0"}
		]}`))
	}))
	defer scanSrv.Close()

	prov, err := New(chain.ProviderConfig{RPCURL: rpcSrv.URL, ScanURL: scanSrv.URL})
	require.NoError(t, err)
	p := prov.(*Provider)
	require.NoError(t, p.Connect(context.Background()))

	var records []*chain.TransactionRecord
	for record, err := range p.TransactionHistory(context.Background(), "0x9858EfFD232B4033E47d90003D41EC34EcaEda94") {
		require.NoError(t, err)
		records = append(records, record)
	}

	require.Len(t, records, 2)
	assert.Equal(t, "0xaaa", records[0].Hash)
	assert.Equal(t, "1.0", records[0].Amount)
	assert.Equal(t, chain.StatusConfirmed, records[0].Status)
	assert.Equal(t, uint64(100), records[0].BlockNumber)
	assert.Equal(t, "0.000021", records[0].Fee)

	assert.Equal(t, "0xbbb", records[1].Hash)
	assert.Equal(t, chain.StatusFailed, records[1].Status)
}

func TestProvider_TransactionHistory_EarlyBreak(t *testing.T) {
	t.Parallel()
	rpcSrv := newMockGateway(t, map[string]any{"eth_chainId": "0x1"})
	defer rpcSrv.Close()

	scanSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":[
			{"hash":"0xaaa","value":"1","gasUsed":"1","gasPrice":"1","blockNumber":"1","isError":"0","txreceipt_status":"1"},
			{"hash":"0xbbb","value":"1","gasUsed":"1","gasPrice":"1","blockNumber":"1","isError":"0","txreceipt_status":"1"}
		]}`))
	}))
	defer scanSrv.Close()

	prov, err := New(chain.ProviderConfig{RPCURL: rpcSrv.URL, ScanURL: scanSrv.URL})
	require.NoError(t, err)
	p := prov.(*Provider)
	require.NoError(t, p.Connect(context.Background()))

	count := 0
	for _, err := range p.TransactionHistory(context.Background(), "0x9858EfFD232B4033E47d90003D41EC34EcaEda94") {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

// collectHistory drains a history sequence and returns the errors yielded.
func collectHistory(p *Provider, ctx context.Context, address string) []error {
	var errs []error
	for _, err := range p.TransactionHistory(ctx, address) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
