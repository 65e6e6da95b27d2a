// Package chain provides blockchain identifiers, the provider contract
// every chain implementation satisfies, and common chain utilities.
package chain

// ID represents a supported blockchain.
type ID string

// Supported blockchain identifiers.
const (
	ETH ID = "eth"
	SOL ID = "sol"
	BTC ID = "btc" // Reserved: no provider registered yet
)

// Curve identifies the signature curve a chain uses for key derivation.
type Curve string

// Supported curves.
const (
	// CurveSecp256k1 is the short-Weierstrass curve used by Ethereum.
	CurveSecp256k1 Curve = "secp256k1"
	// CurveEd25519 is the Edwards curve used by Solana.
	CurveEd25519 Curve = "ed25519"
)

// BIP44 coin types for derivation paths.
const (
	CoinTypeETH uint32 = 60
	CoinTypeSOL uint32 = 501
	CoinTypeBTC uint32 = 0
)

// DefaultDerivationPath returns the default derivation path for a chain.
// Edwards-curve chains use hardened-only SLIP-10 paths.
func (id ID) DefaultDerivationPath() string {
	switch id {
	case ETH:
		return "m/44'/60'/0'/0/0"
	case SOL:
		return "m/44'/501'/0'/0'"
	case BTC:
		return "m/44'/0'/0'/0/0"
	default:
		return ""
	}
}

// CoinType returns the BIP44 coin type for a chain.
func (id ID) CoinType() uint32 {
	switch id {
	case ETH:
		return CoinTypeETH
	case SOL:
		return CoinTypeSOL
	case BTC:
		return CoinTypeBTC
	default:
		return 0
	}
}

// Curve returns the signature curve a chain derives keys on.
func (id ID) Curve() Curve {
	switch id {
	case SOL:
		return CurveEd25519
	default:
		return CurveSecp256k1
	}
}

// Denomination returns the smallest-unit name for a chain's native asset.
func (id ID) Denomination() string {
	switch id {
	case ETH:
		return "wei"
	case SOL:
		return "lamports"
	case BTC:
		return "satoshis"
	default:
		return ""
	}
}

// Decimals returns the number of decimal places for a chain's native asset.
func (id ID) Decimals() int {
	switch id {
	case ETH:
		return 18
	case SOL:
		return 9
	case BTC:
		return 8
	default:
		return 0
	}
}

// String returns the chain identifier string.
func (id ID) String() string {
	return string(id)
}

// IsValid returns true if the chain ID is a known chain.
func (id ID) IsValid() bool {
	switch id {
	case ETH, SOL, BTC:
		return true
	default:
		return false
	}
}

// ParseID parses a string into a chain ID.
func ParseID(s string) (ID, bool) {
	id := ID(s)
	return id, id.IsValid()
}

// SupportedChains returns the chain IDs with a registered provider.
func SupportedChains() []ID {
	return []ID{ETH, SOL}
}

// AllChains returns all known chain IDs.
func AllChains() []ID {
	return []ID{ETH, SOL, BTC}
}
