package eth

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/wardenhq/warden/internal/chain"
	"github.com/wardenhq/warden/internal/chain/eth/rlp"
	"github.com/wardenhq/warden/internal/keys"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// defaultTransferGas is the gas cost of a plain value transfer.
const defaultTransferGas = 21000

// Keccak256 computes the legacy Keccak-256 hash over the concatenation
// of the inputs.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// SignHash signs a 32-byte hash with a secp256k1 private key and returns
// a 65-byte [R || S || V] signature with V as the recovery ID (0 or 1).
func SignHash(hash, privateKey []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, wardenerr.WithDetails(wardenerr.ErrSigning, map[string]string{
			"reason": "hash must be 32 bytes",
		})
	}
	if len(privateKey) != 32 {
		return nil, wardenerr.ErrInvalidKey
	}

	privKey := secp256k1.PrivKeyFromBytes(privateKey)

	// SignCompact returns [V || R || S] with V = 27 + recovery ID
	sig := secpecdsa.SignCompact(privKey, hash, false)
	if len(sig) != 65 {
		return nil, wardenerr.ErrSigning
	}

	result := make([]byte, 65)
	copy(result[0:32], sig[1:33])
	copy(result[32:64], sig[33:65])
	result[64] = sig[0] - 27

	return result, nil
}

// txFields holds the six payload fields of a legacy transaction.
type txFields struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       []byte // 20 bytes
	Value    *big.Int
	Data     []byte
}

// sighash computes the EIP-155 signing hash: the Keccak-256 of the
// transaction fields with the chain ID appended as (chainID, 0, 0).
func (f *txFields) sighash(chainID *big.Int) []byte {
	encoded := rlp.Encode([]any{
		f.Nonce, f.GasPrice, f.GasLimit, f.To, f.Value, f.Data,
		chainID, uint64(0), uint64(0),
	})
	return Keccak256(encoded)
}

// signLegacyTx signs a legacy transaction per EIP-155 and returns the
// signature, the broadcast-ready payload, and the transaction hash.
// The private key bytes are zeroed before returning.
func signLegacyTx(f *txFields, chainID *big.Int, privateKey []byte) (*chain.SignedTransaction, error) {
	defer keys.ZeroBytes(privateKey)

	if chainID == nil || chainID.Sign() <= 0 {
		return nil, wardenerr.WithDetails(wardenerr.ErrSigning, map[string]string{
			"reason": "missing chain ID",
		})
	}
	if f.GasPrice == nil {
		return nil, wardenerr.WithDetails(wardenerr.ErrSigning, map[string]string{
			"reason": "missing gas price",
		})
	}

	sig, err := SignHash(f.sighash(chainID), privateKey)
	if err != nil {
		return nil, err
	}

	r := new(big.Int).SetBytes(sig[0:32])
	s := new(big.Int).SetBytes(sig[32:64])

	// EIP-155: v = recovery ID + 35 + 2 * chainID
	v := new(big.Int).Mul(chainID, big.NewInt(2))
	v.Add(v, big.NewInt(35+int64(sig[64])))

	payload := rlp.Encode([]any{
		f.Nonce, f.GasPrice, f.GasLimit, f.To, f.Value, f.Data,
		v, r, s,
	})

	return &chain.SignedTransaction{
		Signature: sig,
		Payload:   payload,
		Hash:      "0x" + hex.EncodeToString(Keccak256(payload)),
	}, nil
}

// parseAddress decodes a 0x-prefixed address into its 20 raw bytes.
func parseAddress(address string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(address, "0x"))
	if err != nil || len(raw) != 20 {
		return nil, wardenerr.WithDetails(wardenerr.ErrInvalidAddress, map[string]string{
			"address": address,
		})
	}
	return raw, nil
}
