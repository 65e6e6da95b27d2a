package chain

import (
	"context"
	"iter"
	"math/big"
)

// ConnState is the lifecycle state of a provider instance.
type ConnState int

// Provider lifecycle states. A provider starts Disconnected, moves to
// Connected via Connect, and back via Disconnect. There are no other states.
const (
	StateDisconnected ConnState = iota
	StateConnected
)

// String returns a human-readable state name.
func (s ConnState) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "disconnected"
}

// Identifier provides chain identification.
type Identifier interface {
	// ID returns the chain identifier.
	ID() ID
}

// Connector manages the provider connection lifecycle.
type Connector interface {
	// Connect transitions the provider from Disconnected to Connected.
	// On failure the provider remains Disconnected.
	Connect(ctx context.Context) error

	// Disconnect zeroes the in-memory keypair and returns the provider
	// to Disconnected. It never fails and may be called at any time.
	Disconnect()

	// State reports the current lifecycle state.
	State() ConnState
}

// KeyBinder binds key material to a provider instance.
type KeyBinder interface {
	// InitFromMnemonic derives and binds a keypair from a mnemonic phrase.
	// An empty path selects the chain's default derivation path.
	InitFromMnemonic(mnemonic, path string) error

	// InitFromPrivateKey parses and binds a chain-encoded private key.
	InitFromPrivateKey(privateKey string) error

	// Address returns the bound account address, or "" if no keypair is bound.
	Address() string

	// PublicKey returns the bound public key in hex, or "" if unbound.
	PublicKey() string
}

// AddressValidator provides chain-specific address format checking.
type AddressValidator interface {
	// ValidateAddress reports whether an address is well-formed for this
	// chain. It never fails.
	ValidateAddress(address string) bool
}

// BalanceReader provides balance querying against live chain state.
type BalanceReader interface {
	// Balance retrieves the native balance snapshot for an address.
	// Requires Connected; fails with ErrNotConnected otherwise.
	Balance(ctx context.Context, address string) (*Balance, error)
}

// FeeEstimator provides fee estimation.
type FeeEstimator interface {
	// EstimateFee estimates the fee for a transfer, formatted in the
	// chain's native decimal units.
	EstimateFee(ctx context.Context, req TxRequest) (string, error)
}

// TransactionSender builds, signs, and broadcasts transactions.
type TransactionSender interface {
	// Send broadcasts a transfer from the bound account. Requires
	// Connected and a bound keypair. The returned record has status
	// "pending".
	Send(ctx context.Context, from string, req TxRequest) (*TransactionRecord, error)
}

// TransactionSigner signs raw transaction payloads.
type TransactionSigner interface {
	// SignTransaction signs the request with the supplied private key and
	// returns the signature plus the fully signed payload. The key bytes
	// are zeroed before returning.
	SignTransaction(req TxRequest, privateKey []byte) (*SignedTransaction, error)
}

// HistoryReader exposes past transactions.
type HistoryReader interface {
	// TransactionHistory returns a lazy, finite sequence of past
	// transactions for an address, newest first. The sequence may be
	// empty and is not required to be exhaustive.
	TransactionHistory(ctx context.Context, address string) iter.Seq2[*TransactionRecord, error]

	// Transaction looks up a transaction by hash. Returns nil (no error)
	// when the transaction is unknown.
	Transaction(ctx context.Context, hash string) (*TransactionRecord, error)
}

// BlockReader exposes chain head information.
type BlockReader interface {
	// BlockNumber returns the current chain height. Requires Connected.
	BlockNumber(ctx context.Context) (uint64, error)
}

// Provider is the full capability contract every chain implementation
// must satisfy. Operations not yet backed by real chain logic must fail
// with ErrUnsupportedOperation rather than return placeholder values.
type Provider interface {
	Identifier
	Connector
	KeyBinder
	AddressValidator
	BalanceReader
	FeeEstimator
	TransactionSender
	TransactionSigner
	HistoryReader
	BlockReader
}

// Balance is a point-in-time balance snapshot.
type Balance struct {
	Amount       *big.Int `json:"amount"`       // Smallest units
	Denomination string   `json:"denomination"` // e.g. "wei", "lamports"
	Chain        ID       `json:"chain"`
	Address      string   `json:"address"`
	BlockNumber  uint64   `json:"block_number"`
}

// TxRequest contains parameters for estimating, signing, or sending a
// transaction.
type TxRequest struct {
	To       string   // Recipient address
	Amount   *big.Int // Value in smallest units
	GasLimit uint64   // Optional gas limit override (eth only)
	GasPrice *big.Int // Optional gas price; fetched from the gateway when nil (eth only)
	Nonce    uint64   // Account nonce, used for offline signing (eth only)
	Data     []byte   // Optional payload data
}

// TransactionRecord describes a broadcast or historical transaction.
type TransactionRecord struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      string `json:"amount"` // Human-readable, chain decimals
	Fee         string `json:"fee,omitempty"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	Status      string `json:"status"` // "pending", "confirmed", "failed"
	Chain       ID     `json:"chain"`
}

// SignedTransaction is the outcome of signing a transaction request.
type SignedTransaction struct {
	Signature []byte `json:"signature"` // Raw signature bytes
	Payload   []byte `json:"payload"`   // Fully signed wire payload
	Hash      string `json:"hash"`      // Hash of the signed payload
}

// Transaction status values.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)
