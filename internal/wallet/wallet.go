// Package wallet provides the wallet record model, agent-scoped
// persistent storage, the in-process connection cache, and the Manager
// tying them to chain providers.
package wallet

import (
	"encoding/hex"
	"regexp"
	"time"

	"github.com/wardenhq/warden/internal/chain"
	"github.com/wardenhq/warden/internal/keys"
	"github.com/wardenhq/warden/internal/wardencrypto"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// walletIDBytes is the number of random bytes in a wallet ID.
const walletIDBytes = 16

var (
	// agentIDRegex restricts agent IDs to filesystem-safe names. This
	// also prevents path traversal in the file store.
	agentIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

	// walletIDRegex matches generated wallet IDs.
	walletIDRegex = regexp.MustCompile(`^wlt_[0-9a-f]{32}$`)
)

// Wallet is the public record of a managed wallet. It never embeds raw
// key material; the secret payload lives in keys.Material and is stored
// encrypted alongside the record.
type Wallet struct {
	// ID uniquely identifies the wallet within its agent's namespace.
	ID string `json:"id"`

	// AgentID is the owning identity. Every store and cache key
	// includes it.
	AgentID string `json:"agent_id"`

	// Chain the wallet's keys were derived for.
	Chain chain.ID `json:"chain"`

	// Address is derived deterministically from the public key.
	Address string `json:"address"`

	// Method records how the wallet was created.
	Method keys.Method `json:"method"`

	// DerivationPath is set for seed and mnemonic methods only.
	DerivationPath string `json:"derivation_path,omitempty"`

	// CreatedAt and UpdatedAt are UTC timestamps.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ChainMetadata is an optional opaque map for chain-specific extras.
	ChainMetadata map[string]string `json:"chain_metadata,omitempty"`
}

// Clone returns a deep copy of the record.
func (w *Wallet) Clone() *Wallet {
	cp := *w
	if w.ChainMetadata != nil {
		cp.ChainMetadata = make(map[string]string, len(w.ChainMetadata))
		for k, v := range w.ChainMetadata {
			cp.ChainMetadata[k] = v
		}
	}
	return &cp
}

// Validate checks the record's invariants.
func (w *Wallet) Validate() error {
	if err := ValidateWalletID(w.ID); err != nil {
		return err
	}
	if err := ValidateAgentID(w.AgentID); err != nil {
		return err
	}
	if !w.Chain.IsValid() {
		return wardenerr.WithDetails(wardenerr.ErrUnsupportedChain, map[string]string{
			"chain": w.Chain.String(),
		})
	}
	if !w.Method.IsValid() {
		return wardenerr.WithDetails(wardenerr.ErrInvalidInput, map[string]string{
			"field":  "method",
			"method": string(w.Method),
		})
	}
	if w.Address == "" {
		return wardenerr.WithDetails(wardenerr.ErrInvalidInput, map[string]string{
			"field": "address",
		})
	}
	return nil
}

// NewWalletID generates a wallet ID: "wlt_" plus 128 bits of entropy in hex.
func NewWalletID() (string, error) {
	raw, err := wardencrypto.RandomBytes(walletIDBytes)
	if err != nil {
		return "", wardenerr.Wrap(err, "generating wallet ID")
	}
	return "wlt_" + hex.EncodeToString(raw), nil
}

// ValidateAgentID checks that an agent ID is a safe, non-empty name.
func ValidateAgentID(agentID string) error {
	if !agentIDRegex.MatchString(agentID) {
		return wardenerr.WithDetails(wardenerr.ErrInvalidInput, map[string]string{
			"field":    "agent_id",
			"agent_id": agentID,
		})
	}
	return nil
}

// ValidateWalletID checks that a wallet ID has the generated form.
func ValidateWalletID(walletID string) error {
	if !walletIDRegex.MatchString(walletID) {
		return wardenerr.WithDetails(wardenerr.ErrInvalidInput, map[string]string{
			"field":     "wallet_id",
			"wallet_id": walletID,
		})
	}
	return nil
}
