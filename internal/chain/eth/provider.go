// Package eth implements the Ethereum chain provider: key binding,
// balance and fee queries, EIP-155 transaction signing and broadcast,
// and account history through an etherscan-compatible indexer.
package eth

import (
	"context"
	"encoding/hex"
	"iter"
	"math/big"
	"strconv"
	"sync"

	"github.com/wardenhq/warden/internal/chain"
	"github.com/wardenhq/warden/internal/chain/eth/rpc"
	"github.com/wardenhq/warden/internal/chain/eth/scan"
	"github.com/wardenhq/warden/internal/keys"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// historyPageSize is the number of transactions fetched per indexer page.
const historyPageSize = 25

// Provider is the Ethereum implementation of chain.Provider.
type Provider struct {
	mu      sync.Mutex
	cfg     chain.ProviderConfig
	state   chain.ConnState
	rpc     *rpc.Client
	scan    *scan.Client
	chainID *big.Int
	keypair *keys.Keypair
}

// Compile-time interface check
var _ chain.Provider = (*Provider)(nil)

// New creates a disconnected Ethereum provider. The history indexer is
// optional; without a ScanURL, TransactionHistory is unsupported.
func New(cfg chain.ProviderConfig) (chain.Provider, error) {
	if cfg.RPCURL == "" {
		return nil, wardenerr.WithDetails(wardenerr.ErrConfigInvalid, map[string]string{
			"chain":  chain.ETH.String(),
			"reason": "missing RPC endpoint",
		})
	}

	p := &Provider{
		cfg: cfg,
		rpc: rpc.NewClient(cfg.RPCURL),
	}
	if cfg.ScanURL != "" {
		p.scan = scan.NewClient(cfg.ScanURL, cfg.APIKey)
	}
	return p, nil
}

// ID returns the chain identifier.
func (p *Provider) ID() chain.ID {
	return chain.ETH
}

// Connect verifies the gateway is reachable by fetching the chain ID
// and transitions to Connected. On failure the provider stays
// Disconnected.
func (p *Provider) Connect(ctx context.Context) error {
	chainID, err := p.rpc.ChainID(ctx)
	if err != nil {
		return wardenerr.WithDetails(
			wardenerr.Wrap(err, "connecting to Ethereum gateway"),
			map[string]string{"endpoint": p.cfg.RPCURL},
		)
	}

	p.mu.Lock()
	p.chainID = chainID
	p.state = chain.StateConnected
	p.mu.Unlock()
	return nil
}

// Disconnect zeroes the bound keypair and returns to Disconnected.
func (p *Provider) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.keypair != nil {
		p.keypair.Zero()
		p.keypair = nil
	}
	p.state = chain.StateDisconnected
}

// State reports the current lifecycle state.
func (p *Provider) State() chain.ConnState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// InitFromMnemonic derives and binds a keypair from a mnemonic phrase.
func (p *Provider) InitFromMnemonic(mnemonic, path string) error {
	kp, err := keys.DeriveKeypair(mnemonic, path, chain.ETH)
	if err != nil {
		return wardenerr.Wrap(err, "initializing Ethereum keypair")
	}

	p.bindKeypair(kp)
	return nil
}

// InitFromPrivateKey parses and binds a hex-encoded private key.
func (p *Provider) InitFromPrivateKey(privateKey string) error {
	kp, err := keys.KeypairFromPrivateKey(privateKey, chain.ETH)
	if err != nil {
		return wardenerr.Wrap(err, "initializing Ethereum keypair")
	}

	p.bindKeypair(kp)
	return nil
}

func (p *Provider) bindKeypair(kp *keys.Keypair) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.keypair != nil {
		p.keypair.Zero()
	}
	p.keypair = kp
}

// Address returns the bound account address, or "" if no keypair is bound.
func (p *Provider) Address() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.keypair == nil {
		return ""
	}
	return p.keypair.Address
}

// PublicKey returns the bound public key in hex, or "" if unbound.
func (p *Provider) PublicKey() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.keypair == nil {
		return ""
	}
	return hex.EncodeToString(p.keypair.PublicKey)
}

// ValidateAddress reports whether an address is well-formed for Ethereum.
func (p *Provider) ValidateAddress(address string) bool {
	return ValidateAddress(address)
}

// Balance retrieves the wei balance of an address at the current head.
func (p *Provider) Balance(ctx context.Context, address string) (*chain.Balance, error) {
	if err := p.requireConnected(); err != nil {
		return nil, err
	}
	if !ValidateAddress(address) {
		return nil, wardenerr.WithDetails(wardenerr.ErrInvalidAddress, map[string]string{
			"address": address,
		})
	}

	blockNumber, err := p.rpc.BlockNumber(ctx)
	if err != nil {
		return nil, wardenerr.Wrap(err, "fetching block number")
	}

	amount, err := p.rpc.GetBalance(ctx, address, "0x"+strconv.FormatUint(blockNumber, 16))
	if err != nil {
		return nil, wardenerr.Wrap(err, "fetching balance")
	}

	return &chain.Balance{
		Amount:       amount,
		Denomination: chain.ETH.Denomination(),
		Chain:        chain.ETH,
		Address:      address,
		BlockNumber:  blockNumber,
	}, nil
}

// EstimateFee estimates the total fee for a transfer, formatted in ETH.
func (p *Provider) EstimateFee(ctx context.Context, req chain.TxRequest) (string, error) {
	if err := p.requireConnected(); err != nil {
		return "", err
	}

	gasPrice := req.GasPrice
	if gasPrice == nil {
		var err error
		gasPrice, err = p.rpc.GasPrice(ctx)
		if err != nil {
			return "", wardenerr.Wrap(err, "fetching gas price")
		}
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		if len(req.Data) == 0 {
			gasLimit = defaultTransferGas
		} else {
			var err error
			gasLimit, err = p.rpc.EstimateGas(ctx, rpc.CallMsg{
				From:  p.Address(),
				To:    req.To,
				Value: req.Amount,
				Data:  req.Data,
			})
			if err != nil {
				return "", wardenerr.Wrap(err, "estimating gas")
			}
		}
	}

	fee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	return chain.FormatDecimalAmount(fee, chain.ETH.Decimals()), nil
}

// Send builds, signs, and broadcasts a transfer from the bound account.
func (p *Provider) Send(ctx context.Context, from string, req chain.TxRequest) (*chain.TransactionRecord, error) {
	if err := p.requireConnected(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	kp := p.keypair
	chainID := p.chainID
	p.mu.Unlock()

	if kp == nil {
		return nil, wardenerr.WithSuggestion(wardenerr.ErrKeyInit,
			"bind a keypair with InitFromMnemonic or InitFromPrivateKey before sending")
	}
	if from == "" {
		from = kp.Address
	}
	if from != kp.Address {
		return nil, wardenerr.WithDetails(wardenerr.ErrInvalidInput, map[string]string{
			"from":  from,
			"bound": kp.Address,
		})
	}
	if !ValidateAddress(req.To) {
		return nil, wardenerr.WithDetails(wardenerr.ErrInvalidAddress, map[string]string{
			"address": req.To,
		})
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, wardenerr.ErrInvalidAmount
	}

	toBytes, err := parseAddress(req.To)
	if err != nil {
		return nil, err
	}

	nonce, err := p.rpc.GetTransactionCount(ctx, from, "pending")
	if err != nil {
		return nil, wardenerr.Wrap(err, "fetching nonce")
	}

	gasPrice := req.GasPrice
	if gasPrice == nil {
		gasPrice, err = p.rpc.GasPrice(ctx)
		if err != nil {
			return nil, wardenerr.Wrap(err, "fetching gas price")
		}
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		if len(req.Data) == 0 {
			gasLimit = defaultTransferGas
		} else {
			gasLimit, err = p.rpc.EstimateGas(ctx, rpc.CallMsg{
				From:  from,
				To:    req.To,
				Value: req.Amount,
				Data:  req.Data,
			})
			if err != nil {
				return nil, wardenerr.Wrap(err, "estimating gas")
			}
		}
	}

	fields := &txFields{
		Nonce:    nonce,
		GasPrice: gasPrice,
		GasLimit: gasLimit,
		To:       toBytes,
		Value:    req.Amount,
		Data:     req.Data,
	}

	// signLegacyTx zeroes the key copy it is handed
	privCopy := make([]byte, len(kp.PrivateKey))
	copy(privCopy, kp.PrivateKey)

	signed, err := signLegacyTx(fields, chainID, privCopy)
	if err != nil {
		return nil, err
	}

	txHash, err := p.rpc.SendRawTransaction(ctx, signed.Payload)
	if err != nil {
		return nil, wardenerr.Wrap(err, "broadcasting transaction")
	}

	fee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	return &chain.TransactionRecord{
		Hash:   txHash,
		From:   from,
		To:     req.To,
		Amount: chain.FormatDecimalAmount(req.Amount, chain.ETH.Decimals()),
		Fee:    chain.FormatDecimalAmount(fee, chain.ETH.Decimals()),
		Status: chain.StatusPending,
		Chain:  chain.ETH,
	}, nil
}

// SignTransaction signs a transaction request offline with the supplied
// private key. The request must carry a nonce and gas price. Falls back
// to mainnet when the provider has never connected.
func (p *Provider) SignTransaction(req chain.TxRequest, privateKey []byte) (*chain.SignedTransaction, error) {
	defer keys.ZeroBytes(privateKey)

	if !ValidateAddress(req.To) {
		return nil, wardenerr.WithDetails(wardenerr.ErrInvalidAddress, map[string]string{
			"address": req.To,
		})
	}

	toBytes, err := parseAddress(req.To)
	if err != nil {
		return nil, err
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit = defaultTransferGas
	}

	p.mu.Lock()
	chainID := p.chainID
	p.mu.Unlock()
	if chainID == nil {
		chainID = big.NewInt(1)
	}

	privCopy := make([]byte, len(privateKey))
	copy(privCopy, privateKey)

	return signLegacyTx(&txFields{
		Nonce:    req.Nonce,
		GasPrice: req.GasPrice,
		GasLimit: gasLimit,
		To:       toBytes,
		Value:    req.Amount,
		Data:     req.Data,
	}, chainID, privCopy)
}

// TransactionHistory lazily pages through the indexer's transaction list
// for an address, newest first. Iteration stops early if the consumer
// breaks out of the range loop.
func (p *Provider) TransactionHistory(ctx context.Context, address string) iter.Seq2[*chain.TransactionRecord, error] {
	return func(yield func(*chain.TransactionRecord, error) bool) {
		if err := p.requireConnected(); err != nil {
			yield(nil, err)
			return
		}
		if p.scan == nil {
			yield(nil, wardenerr.WithSuggestion(wardenerr.ErrUnsupportedOperation,
				"configure a history indexer endpoint for eth"))
			return
		}
		if !ValidateAddress(address) {
			yield(nil, wardenerr.WithDetails(wardenerr.ErrInvalidAddress, map[string]string{
				"address": address,
			}))
			return
		}

		for page := 1; ; page++ {
			txs, err := p.scan.ListTransactions(ctx, address, page, historyPageSize)
			if err != nil {
				yield(nil, wardenerr.Wrap(err, "fetching transaction history"))
				return
			}
			if len(txs) == 0 {
				return
			}

			for i := range txs {
				if !yield(historyRecord(&txs[i]), nil) {
					return
				}
			}

			// A short page is the last page
			if len(txs) < historyPageSize {
				return
			}
		}
	}
}

// Transaction looks up a transaction by hash. Returns (nil, nil) when
// the gateway does not know the hash.
func (p *Provider) Transaction(ctx context.Context, hash string) (*chain.TransactionRecord, error) {
	if err := p.requireConnected(); err != nil {
		return nil, err
	}

	tx, err := p.rpc.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, wardenerr.Wrap(err, "fetching transaction")
	}
	if tx == nil {
		return nil, nil
	}

	record := &chain.TransactionRecord{
		Hash:   tx.Hash,
		From:   tx.From,
		To:     tx.To,
		Status: chain.StatusPending,
		Chain:  chain.ETH,
	}

	if amount, err := rpc.ParseHexBigInt(tx.Value); err == nil {
		record.Amount = chain.FormatDecimalAmount(amount, chain.ETH.Decimals())
	}
	if tx.BlockNumber != "" {
		if n, err := rpc.ParseHexBigInt(tx.BlockNumber); err == nil {
			record.BlockNumber = n.Uint64()
			record.Status = chain.StatusConfirmed
		}
	}

	return record, nil
}

// BlockNumber returns the current chain head height.
func (p *Provider) BlockNumber(ctx context.Context) (uint64, error) {
	if err := p.requireConnected(); err != nil {
		return 0, err
	}
	return p.rpc.BlockNumber(ctx)
}

func (p *Provider) requireConnected() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != chain.StateConnected {
		return wardenerr.WithSuggestion(wardenerr.ErrNotConnected, "call Connect first")
	}
	return nil
}

// historyRecord maps an indexer entry onto a transaction record.
func historyRecord(tx *scan.Transaction) *chain.TransactionRecord {
	record := &chain.TransactionRecord{
		Hash:   tx.Hash,
		From:   tx.From,
		To:     tx.To,
		Status: chain.StatusConfirmed,
		Chain:  chain.ETH,
	}

	if tx.IsError == "1" || tx.TxReceiptStatus == "0" {
		record.Status = chain.StatusFailed
	}

	if amount, ok := new(big.Int).SetString(tx.Value, 10); ok {
		record.Amount = chain.FormatDecimalAmount(amount, chain.ETH.Decimals())
	}
	if n, err := strconv.ParseUint(tx.BlockNumber, 10, 64); err == nil {
		record.BlockNumber = n
	}
	if gasUsed, ok := new(big.Int).SetString(tx.GasUsed, 10); ok {
		if gasPrice, ok := new(big.Int).SetString(tx.GasPrice, 10); ok {
			fee := new(big.Int).Mul(gasUsed, gasPrice)
			record.Fee = chain.FormatDecimalAmount(fee, chain.ETH.Decimals())
		}
	}

	return record
}
