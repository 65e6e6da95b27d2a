// Package rlp implements the subset of RLP (Recursive Length Prefix)
// encoding needed to serialize Ethereum legacy transactions.
// See: https://ethereum.org/en/developers/docs/data-structures-and-encoding/rlp/
package rlp

import (
	"math/big"
)

// Encode encodes a value to RLP format.
// Supported types: []byte, *big.Int, uint64, []any (for lists).
// Unsupported types encode as nil.
func Encode(val any) []byte {
	switch v := val.(type) {
	case []byte:
		return encodeBytes(v)
	case *big.Int:
		return encodeBigInt(v)
	case uint64:
		return encodeUint64(v)
	case []any:
		return encodeList(v)
	default:
		return nil
	}
}

// encodeBytes encodes a byte string:
// a single byte below 0x80 is its own encoding, short strings get a
// 0x80+len prefix, longer strings a 0xb7+lenlen prefix plus the length.
func encodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	prefix := encodeLength(len(b), 0x80)
	out := make([]byte, 0, len(prefix)+len(b))
	out = append(out, prefix...)
	return append(out, b...)
}

// encodeBigInt encodes a non-negative big.Int. Zero and nil encode as
// the empty string (0x80).
func encodeBigInt(i *big.Int) []byte {
	if i == nil || i.Sign() == 0 {
		return []byte{0x80}
	}
	return encodeBytes(i.Bytes())
}

func encodeUint64(i uint64) []byte {
	if i == 0 {
		return []byte{0x80}
	}
	return encodeBytes(minimalBigEndian(i))
}

// encodeList encodes a list of items with a 0xc0-offset length prefix.
func encodeList(items []any) []byte {
	var content []byte
	for _, item := range items {
		content = append(content, Encode(item)...)
	}

	prefix := encodeLength(len(content), 0xc0)
	out := make([]byte, 0, len(prefix)+len(content))
	out = append(out, prefix...)
	return append(out, content...)
}

// encodeLength builds the length prefix for strings (offset 0x80) or
// lists (offset 0xc0).
func encodeLength(length int, offset byte) []byte {
	if length < 56 {
		return []byte{offset + byte(length)} //nolint:gosec // length < 56
	}

	lenBytes := minimalBigEndian(uint64(length))
	return append([]byte{offset + 55 + byte(len(lenBytes))}, lenBytes...) //nolint:gosec // len(lenBytes) <= 8
}

// minimalBigEndian converts a uint64 to big-endian bytes without
// leading zeros.
func minimalBigEndian(i uint64) []byte {
	if i == 0 {
		return nil
	}

	n := 0
	for v := i; v > 0; v >>= 8 {
		n++
	}

	out := make([]byte, n)
	for j := n - 1; j >= 0; j-- {
		out[j] = byte(i)
		i >>= 8
	}
	return out
}
