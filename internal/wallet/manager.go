package wallet

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/wardenhq/warden/internal/chain"
	"github.com/wardenhq/warden/internal/keys"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// generatedEntropyBits is the entropy used for generated wallets
// (12-word mnemonics).
const generatedEntropyBits = 128

// Manager ties the wallet store, the provider factory, and the
// connection cache together. It owns all agent-scoped wallet
// operations.
//
// The Manager serializes nothing per wallet: callers that mutate the
// same wallet concurrently must coordinate themselves. The connection
// cache is safe for concurrent use.
type Manager struct {
	store   Store
	factory chain.Factory
	configs map[chain.ID]chain.ProviderConfig
	cache   *ConnCache
}

// NewManager creates a Manager. configs supplies per-chain gateway
// endpoints for Connect.
func NewManager(store Store, factory chain.Factory, configs map[chain.ID]chain.ProviderConfig) *Manager {
	return &Manager{
		store:   store,
		factory: factory,
		configs: configs,
		cache:   NewConnCache(),
	}
}

// CreateRequest describes a wallet to create or import.
type CreateRequest struct {
	AgentID string
	Chain   chain.ID

	// Method selects which payload field below is read.
	Method keys.Method

	// Mnemonic is the seed phrase for the seed and mnemonic methods.
	Mnemonic string

	// PrivateKey is the encoded key for the private-key method.
	PrivateKey string

	// Path optionally overrides the chain's default derivation path
	// (seed and mnemonic methods only).
	Path string
}

// CreateWallet derives keys per the request, persists the record with
// its encrypted material, and returns the public record. Derivation
// failure aborts before any store write.
func (m *Manager) CreateWallet(req CreateRequest) (*Wallet, error) {
	if err := ValidateAgentID(req.AgentID); err != nil {
		return nil, err
	}

	var (
		kp       *keys.Keypair
		material *keys.Material
		err      error
	)

	switch req.Method {
	case keys.MethodPrivateKey:
		kp, err = keys.KeypairFromPrivateKey(req.PrivateKey, req.Chain)
		if err != nil {
			return nil, err
		}
		material = keys.FromPrivateKey(kp.PrivateKey)

	case keys.MethodSeed, keys.MethodMnemonic:
		phrase := keys.NormalizeSeedPhraseInput(req.Mnemonic)
		kp, err = keys.DeriveKeypair(phrase, req.Path, req.Chain)
		if err != nil {
			return nil, err
		}
		material = keys.FromSeed(phrase, kp.Path)

	default:
		return nil, wardenerr.WithDetails(wardenerr.ErrInvalidInput, map[string]string{
			"field":  "method",
			"method": string(req.Method),
		})
	}
	defer kp.Zero()
	defer material.Zero()

	walletID, err := NewWalletID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	w := &Wallet{
		ID:             walletID,
		AgentID:        req.AgentID,
		Chain:          req.Chain,
		Address:        kp.Address,
		Method:         req.Method,
		DerivationPath: kp.Path,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := m.store.Save(w, material); err != nil {
		return nil, err
	}

	return w, nil
}

// GenerateWallet creates a wallet from a fresh 12-word mnemonic. The
// mnemonic is returned to the caller exactly once and is otherwise only
// held encrypted in the store.
func (m *Manager) GenerateWallet(agentID string, id chain.ID) (*Wallet, string, error) {
	mnemonic, err := keys.GenerateMnemonic(generatedEntropyBits)
	if err != nil {
		return nil, "", err
	}

	w, err := m.CreateWallet(CreateRequest{
		AgentID:  agentID,
		Chain:    id,
		Method:   keys.MethodMnemonic,
		Mnemonic: mnemonic,
	})
	if err != nil {
		return nil, "", err
	}

	return w, mnemonic, nil
}

// ImportWalletFromPrivateKey imports a wallet from an encoded private key.
func (m *Manager) ImportWalletFromPrivateKey(agentID string, id chain.ID, privateKey string) (*Wallet, error) {
	return m.CreateWallet(CreateRequest{
		AgentID:    agentID,
		Chain:      id,
		Method:     keys.MethodPrivateKey,
		PrivateKey: privateKey,
	})
}

// ImportWalletFromSeed imports a wallet from an existing seed phrase,
// optionally at a custom derivation path.
func (m *Manager) ImportWalletFromSeed(agentID string, id chain.ID, phrase, path string) (*Wallet, error) {
	return m.CreateWallet(CreateRequest{
		AgentID:  agentID,
		Chain:    id,
		Method:   keys.MethodSeed,
		Mnemonic: phrase,
		Path:     path,
	})
}

// ImportWalletFromMnemonic imports a wallet from a mnemonic the caller
// generated elsewhere, tagged with the mnemonic method.
func (m *Manager) ImportWalletFromMnemonic(agentID string, id chain.ID, mnemonic, path string) (*Wallet, error) {
	return m.CreateWallet(CreateRequest{
		AgentID:  agentID,
		Chain:    id,
		Method:   keys.MethodMnemonic,
		Mnemonic: mnemonic,
		Path:     path,
	})
}

// GetWallet returns a wallet record without touching key material.
func (m *Manager) GetWallet(agentID, walletID string) (*Wallet, error) {
	return m.store.LoadMetadata(agentID, walletID)
}

// ListAgentWallets returns all wallet records owned by an agent.
func (m *Manager) ListAgentWallets(agentID string) ([]*Wallet, error) {
	return m.store.List(agentID)
}

// HasWallet reports whether a wallet exists for the agent.
func (m *Manager) HasWallet(agentID, walletID string) (bool, error) {
	return m.store.Exists(agentID, walletID)
}

// RemoveWallet deletes a wallet and evicts its cached connection.
// Removing a missing wallet is a no-op.
func (m *Manager) RemoveWallet(agentID, walletID string) error {
	m.cache.Delete(agentID, walletID)
	return m.store.Delete(agentID, walletID)
}

// ClearAgentWallets removes every wallet owned by an agent and drops
// the agent's cached connections.
func (m *Manager) ClearAgentWallets(agentID string) error {
	m.cache.ClearAgent(agentID)

	wallets, err := m.store.List(agentID)
	if err != nil {
		return err
	}
	for _, w := range wallets {
		if err := m.store.Delete(agentID, w.ID); err != nil {
			return err
		}
	}
	return nil
}

// CacheConnection stores a live provider connection for a wallet.
func (m *Manager) CacheConnection(agentID, walletID string, provider chain.Provider) {
	m.cache.Put(agentID, walletID, provider)
}

// CachedConnection returns the cached connection for a wallet, if any.
func (m *Manager) CachedConnection(agentID, walletID string) (chain.Provider, bool) {
	return m.cache.Get(agentID, walletID)
}

// ClearCachedConnection evicts and disconnects a wallet's cached
// connection.
func (m *Manager) ClearCachedConnection(agentID, walletID string) {
	m.cache.Delete(agentID, walletID)
}

// Connect resolves a live provider for a wallet: a cache hit is
// returned as-is; otherwise the stored material is decrypted, a fresh
// provider is built and bound, connected, cached, and returned.
func (m *Manager) Connect(ctx context.Context, agentID, walletID string) (chain.Provider, error) {
	if provider, ok := m.cache.Get(agentID, walletID); ok {
		return provider, nil
	}

	w, material, err := m.store.Load(agentID, walletID)
	if err != nil {
		return nil, err
	}
	defer material.Zero()

	provider, err := m.factory.NewProvider(w.Chain, m.configs[w.Chain])
	if err != nil {
		return nil, err
	}

	switch {
	case len(material.PrivateKey) > 0:
		err = provider.InitFromPrivateKey(encodePrivateKey(w.Chain, material.PrivateKey))
	case material.Seed != nil:
		err = provider.InitFromMnemonic(material.Seed.Phrase, material.Seed.Path)
	default:
		err = wardenerr.ErrInvalidKey
	}
	if err != nil {
		return nil, err
	}

	if err := provider.Connect(ctx); err != nil {
		provider.Disconnect()
		return nil, err
	}

	m.cache.Put(agentID, walletID, provider)
	return provider, nil
}

// ValidateSeedPhrase reports whether a phrase is a valid BIP39 mnemonic.
func (m *Manager) ValidateSeedPhrase(phrase string) bool {
	return keys.ValidateSeedPhrase(phrase)
}

// encodePrivateKey renders raw key bytes in the chain's import encoding.
func encodePrivateKey(id chain.ID, privateKey []byte) string {
	if id.Curve() == chain.CurveEd25519 {
		return keys.Base58Encode(privateKey)
	}
	return hex.EncodeToString(privateKey)
}
