// Package sol implements the Solana chain provider. Key derivation,
// address handling, and payload signing are fully supported; network
// operations are not yet backed by a gateway client and fail with
// UNSUPPORTED_OPERATION.
package sol

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"iter"
	"sync"

	"github.com/wardenhq/warden/internal/chain"
	"github.com/wardenhq/warden/internal/keys"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// addressLen is the raw byte length of a Solana account address.
const addressLen = ed25519.PublicKeySize

// Provider is the Solana implementation of chain.Provider.
type Provider struct {
	mu      sync.Mutex
	cfg     chain.ProviderConfig
	state   chain.ConnState
	keypair *keys.Keypair
}

// Compile-time interface check
var _ chain.Provider = (*Provider)(nil)

// New creates a disconnected Solana provider.
func New(cfg chain.ProviderConfig) (chain.Provider, error) {
	return &Provider{cfg: cfg}, nil
}

// ID returns the chain identifier.
func (p *Provider) ID() chain.ID {
	return chain.SOL
}

// Connect transitions to Connected. A gateway endpoint must be
// configured; no handshake is performed because no network operations
// are implemented yet.
func (p *Provider) Connect(_ context.Context) error {
	if p.cfg.RPCURL == "" {
		return wardenerr.WithDetails(wardenerr.ErrConnection, map[string]string{
			"chain":  chain.SOL.String(),
			"reason": "missing RPC endpoint",
		})
	}

	p.mu.Lock()
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

// InitFromMnemonic derives and binds a keypair from a mnemonic phrase
// using hardened SLIP-10 derivation.
func (p *Provider) InitFromMnemonic(mnemonic, path string) error {
	kp, err := keys.DeriveKeypair(mnemonic, path, chain.SOL)
	if err != nil {
		return wardenerr.Wrap(err, "initializing Solana keypair")
	}

	p.bindKeypair(kp)
	return nil
}

// InitFromPrivateKey parses and binds a base58-encoded private key.
func (p *Provider) InitFromPrivateKey(privateKey string) error {
	kp, err := keys.KeypairFromPrivateKey(privateKey, chain.SOL)
	if err != nil {
		return wardenerr.Wrap(err, "initializing Solana keypair")
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

// ValidateAddress reports whether an address is a well-formed Solana
// address: base58 text decoding to exactly 32 bytes.
func (p *Provider) ValidateAddress(address string) bool {
	raw, err := keys.Base58Decode(address)
	if err != nil {
		return false
	}
	return len(raw) == addressLen
}

// Balance is not yet implemented for Solana.
func (p *Provider) Balance(_ context.Context, _ string) (*chain.Balance, error) {
	if err := p.requireConnected(); err != nil {
		return nil, err
	}
	return nil, p.unsupported("balance")
}

// EstimateFee is not yet implemented for Solana.
func (p *Provider) EstimateFee(_ context.Context, _ chain.TxRequest) (string, error) {
	if err := p.requireConnected(); err != nil {
		return "", err
	}
	return "", p.unsupported("fee estimation")
}

// Send is not yet implemented for Solana.
func (p *Provider) Send(_ context.Context, _ string, _ chain.TxRequest) (*chain.TransactionRecord, error) {
	if err := p.requireConnected(); err != nil {
		return nil, err
	}
	return nil, p.unsupported("send")
}

// SignTransaction signs the request payload with ed25519. The request
// must carry the serialized transaction message in Data. The key bytes
// are zeroed before returning.
func (p *Provider) SignTransaction(req chain.TxRequest, privateKey []byte) (*chain.SignedTransaction, error) {
	defer keys.ZeroBytes(privateKey)

	if len(req.Data) == 0 {
		return nil, wardenerr.WithDetails(wardenerr.ErrSigning, map[string]string{
			"reason": "missing transaction payload",
		})
	}

	var priv ed25519.PrivateKey
	switch len(privateKey) {
	case ed25519.PrivateKeySize:
		priv = ed25519.PrivateKey(append([]byte(nil), privateKey...))
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(privateKey)
	default:
		return nil, wardenerr.ErrInvalidKey
	}
	defer keys.ZeroBytes(priv)

	sig := ed25519.Sign(priv, req.Data)

	payload := make([]byte, len(req.Data))
	copy(payload, req.Data)

	return &chain.SignedTransaction{
		Signature: sig,
		Payload:   payload,
		Hash:      keys.Base58Encode(sig),
	}, nil
}

// TransactionHistory is not yet implemented for Solana.
func (p *Provider) TransactionHistory(_ context.Context, _ string) iter.Seq2[*chain.TransactionRecord, error] {
	return func(yield func(*chain.TransactionRecord, error) bool) {
		if err := p.requireConnected(); err != nil {
			yield(nil, err)
			return
		}
		yield(nil, p.unsupported("transaction history"))
	}
}

// Transaction is not yet implemented for Solana.
func (p *Provider) Transaction(_ context.Context, _ string) (*chain.TransactionRecord, error) {
	if err := p.requireConnected(); err != nil {
		return nil, err
	}
	return nil, p.unsupported("transaction lookup")
}

// BlockNumber is not yet implemented for Solana.
func (p *Provider) BlockNumber(_ context.Context) (uint64, error) {
	if err := p.requireConnected(); err != nil {
		return 0, err
	}
	return 0, p.unsupported("block number")
}

func (p *Provider) requireConnected() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != chain.StateConnected {
		return wardenerr.WithSuggestion(wardenerr.ErrNotConnected, "call Connect first")
	}
	return nil
}

func (p *Provider) unsupported(op string) error {
	return wardenerr.WithDetails(wardenerr.ErrUnsupportedOperation, map[string]string{
		"chain":     chain.SOL.String(),
		"operation": op,
	})
}
