package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/hdkeychain/v3"
	"golang.org/x/crypto/sha3"

	"github.com/wardenhq/warden/internal/chain"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// hdNetParams satisfies hdkeychain.NetworkParams for BIP32 key derivation.
// Uses standard Bitcoin mainnet HD version bytes.
type hdNetParams struct{}

func (hdNetParams) HDPrivKeyVersion() [4]byte { return [4]byte{0x04, 0x88, 0xAD, 0xE4} }
func (hdNetParams) HDPubKeyVersion() [4]byte  { return [4]byte{0x04, 0x88, 0xB2, 0x1E} }

// Keypair is derived key material for a single chain account.
// PrivateKey must be zeroed by the caller after use.
type Keypair struct {
	// Chain the keypair was derived for.
	Chain chain.ID

	// PrivateKey is the signing key: 32 bytes for secp256k1 chains,
	// 64 bytes (ed25519 expanded form) for ed25519 chains.
	PrivateKey []byte

	// PublicKey is the raw public key: 64 bytes (uncompressed, no 0x04
	// prefix) for secp256k1, 32 bytes for ed25519.
	PublicKey []byte

	// Address is the chain-formatted account address.
	Address string

	// Path is the derivation path used, empty for raw key imports.
	Path string
}

// Zero wipes the keypair's private key in place.
func (k *Keypair) Zero() {
	ZeroBytes(k.PrivateKey)
}

// PathComponent is one segment of a BIP32 derivation path.
type PathComponent struct {
	Index    uint32
	Hardened bool
}

// ParsePath parses a derivation path like "m/44'/60'/0'/0/0" into its
// components. Both apostrophe and "h" suffixes mark hardened segments.
func ParsePath(path string) ([]PathComponent, error) {
	invalid := func(reason string) error {
		return wardenerr.WithDetails(wardenerr.ErrKeyInit, map[string]string{
			"path":   path,
			"reason": reason,
		})
	}

	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) < 2 || parts[0] != "m" {
		return nil, invalid("path must start with m/")
	}

	components := make([]PathComponent, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if part == "" {
			return nil, invalid("empty path segment")
		}

		hardened := false
		switch part[len(part)-1] {
		case '\'', 'h', 'H':
			hardened = true
			part = part[:len(part)-1]
		}

		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil || index >= hdkeychain.HardenedKeyStart {
			return nil, invalid("segment index out of range")
		}

		components = append(components, PathComponent{Index: uint32(index), Hardened: hardened})
	}

	return components, nil
}

// DeriveKeypair derives a chain keypair from a mnemonic phrase and
// derivation path. An empty path uses the chain's default.
func DeriveKeypair(mnemonic, path string, id chain.ID) (*Keypair, error) {
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(seed)

	return DeriveKeypairFromSeed(seed, path, id)
}

// DeriveKeypairFromSeed derives a chain keypair from a 64-byte BIP39 seed
// and derivation path. An empty path uses the chain's default.
func DeriveKeypairFromSeed(seed []byte, path string, id chain.ID) (*Keypair, error) {
	if path == "" {
		path = id.DefaultDerivationPath()
	}
	if path == "" {
		return nil, wardenerr.WithDetails(wardenerr.ErrUnsupportedChain, map[string]string{
			"chain": id.String(),
		})
	}

	components, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	switch id.Curve() {
	case chain.CurveSecp256k1:
		return deriveSecp256k1Keypair(seed, path, components, id)
	case chain.CurveEd25519:
		return deriveEd25519Keypair(seed, path, components, id)
	default:
		return nil, wardenerr.WithDetails(wardenerr.ErrUnsupportedChain, map[string]string{
			"chain": id.String(),
		})
	}
}

// deriveSecp256k1Keypair walks a BIP32 path on the secp256k1 curve.
func deriveSecp256k1Keypair(seed []byte, path string, components []PathComponent, id chain.ID) (*Keypair, error) {
	masterKey, err := hdkeychain.NewMaster(seed, hdNetParams{})
	if err != nil {
		return nil, wardenerr.Wrap(err, "failed to create master key")
	}

	key := masterKey
	for _, c := range components {
		index := c.Index
		if c.Hardened {
			index += hdkeychain.HardenedKeyStart
		}
		key, err = key.ChildBIP32Std(index)
		if err != nil {
			return nil, wardenerr.Wrap(err, "failed to derive child key at path %s", path)
		}
	}

	serialized, err := key.SerializedPrivKey()
	if err != nil {
		return nil, wardenerr.Wrap(err, "failed to serialize private key")
	}
	privKey := make([]byte, 32)
	copy(privKey, serialized)

	return secp256k1Keypair(privKey, path, id)
}

// secp256k1Keypair builds a keypair from raw secp256k1 private key bytes.
func secp256k1Keypair(privKey []byte, path string, id chain.ID) (*Keypair, error) {
	priv := secp256k1.PrivKeyFromBytes(privKey)
	pubUncompressed := priv.PubKey().SerializeUncompressed()

	// Drop the 0x04 prefix for storage
	pubKey := make([]byte, 64)
	copy(pubKey, pubUncompressed[1:])

	address, err := chainAddress(id, pubKey)
	if err != nil {
		return nil, err
	}

	return &Keypair{
		Chain:      id,
		PrivateKey: privKey,
		PublicKey:  pubKey,
		Address:    address,
		Path:       path,
	}, nil
}

// deriveEd25519Keypair walks a SLIP-10 hardened path on the ed25519 curve.
func deriveEd25519Keypair(seed []byte, path string, components []PathComponent, id chain.ID) (*Keypair, error) {
	for _, c := range components {
		if !c.Hardened {
			return nil, wardenerr.WithDetails(wardenerr.ErrKeyInit, map[string]string{
				"path":   path,
				"reason": "ed25519 derivation requires hardened path segments",
			})
		}
	}

	keySeed, err := deriveSLIP10Key(seed, components)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(keySeed)

	priv := ed25519.NewKeyFromSeed(keySeed)
	pub := priv.Public().(ed25519.PublicKey)

	return &Keypair{
		Chain:      id,
		PrivateKey: append([]byte(nil), priv...),
		PublicKey:  append([]byte(nil), pub...),
		Address:    Base58Encode(pub),
		Path:       path,
	}, nil
}

// KeypairFromPrivateKey builds a keypair from an encoded private key:
// hex (optionally 0x-prefixed) for secp256k1 chains, base58 for ed25519
// chains (either a 64-byte expanded key or a 32-byte seed).
func KeypairFromPrivateKey(privateKey string, id chain.ID) (*Keypair, error) {
	privateKey = strings.TrimSpace(privateKey)
	if privateKey == "" {
		return nil, wardenerr.ErrInvalidKey
	}

	switch id.Curve() {
	case chain.CurveSecp256k1:
		raw, err := hex.DecodeString(strings.TrimPrefix(privateKey, "0x"))
		if err != nil || len(raw) != 32 {
			return nil, wardenerr.WithSuggestion(wardenerr.ErrInvalidKey,
				"expected a 32-byte hex-encoded private key")
		}
		if !validSecp256k1Scalar(raw) {
			return nil, wardenerr.WithDetails(wardenerr.ErrInvalidKey, map[string]string{
				"reason": "private key is out of curve order range",
			})
		}
		return secp256k1Keypair(raw, "", id)

	case chain.CurveEd25519:
		raw, err := Base58Decode(privateKey)
		if err != nil {
			return nil, wardenerr.WithSuggestion(wardenerr.ErrInvalidKey,
				"expected a base58-encoded ed25519 private key")
		}
		var priv ed25519.PrivateKey
		switch len(raw) {
		case ed25519.PrivateKeySize:
			priv = ed25519.PrivateKey(raw)
		case ed25519.SeedSize:
			priv = ed25519.NewKeyFromSeed(raw)
		default:
			return nil, wardenerr.WithSuggestion(wardenerr.ErrInvalidKey,
				"expected a 32-byte seed or 64-byte ed25519 private key")
		}
		pub := priv.Public().(ed25519.PublicKey)
		return &Keypair{
			Chain:      id,
			PrivateKey: append([]byte(nil), priv...),
			PublicKey:  append([]byte(nil), pub...),
			Address:    Base58Encode(pub),
		}, nil

	default:
		return nil, wardenerr.WithDetails(wardenerr.ErrUnsupportedChain, map[string]string{
			"chain": id.String(),
		})
	}
}

// validSecp256k1Scalar reports whether raw is a valid private key scalar
// in the range (0, N).
func validSecp256k1Scalar(raw []byte) bool {
	var scalar secp256k1.ModNScalar
	overflow := scalar.SetByteSlice(raw)
	return !overflow && !scalar.IsZero()
}

// chainAddress formats a raw public key as a chain address.
func chainAddress(id chain.ID, pubKey []byte) (string, error) {
	switch id {
	case chain.ETH:
		hash := sha3.NewLegacyKeccak256()
		hash.Write(pubKey)
		return ChecksumETHAddress(hash.Sum(nil)[12:])
	case chain.SOL:
		return Base58Encode(pubKey), nil
	default:
		return "", wardenerr.WithDetails(wardenerr.ErrUnsupportedChain, map[string]string{
			"chain": id.String(),
		})
	}
}

// checksumChar applies EIP-55 checksum to a single hex character.
func checksumChar(c, hashByte byte, isOddPosition bool) byte {
	if c >= '0' && c <= '9' {
		return c
	}

	nibble := hashByte >> 4
	if isOddPosition {
		nibble = hashByte & 0x0F
	}

	if nibble >= 8 {
		return c - 32 // Uppercase
	}
	return c
}

// ChecksumETHAddress converts a 20-byte address to an EIP-55 checksummed
// hex string.
func ChecksumETHAddress(addr []byte) (string, error) {
	const ethAddressBytes = 20

	if len(addr) != ethAddressBytes {
		return "", wardenerr.WithDetails(wardenerr.ErrInvalidAddress, map[string]string{
			"expected_bytes": strconv.Itoa(ethAddressBytes),
			"got_bytes":      strconv.Itoa(len(addr)),
		})
	}

	addrHex := hex.EncodeToString(addr)

	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(addrHex))
	hashBytes := hash.Sum(nil)

	const hexLen = ethAddressBytes * 2
	result := make([]byte, hexLen)
	for i := 0; i < hexLen; i++ {
		result[i] = checksumChar(addrHex[i], hashBytes[i/2], i%2 == 1)
	}

	return "0x" + string(result), nil
}
