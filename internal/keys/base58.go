package keys

import (
	"errors"
	"math/big"
)

// base58Alphabet is the Bitcoin/Solana base58 alphabet.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ErrInvalidBase58 indicates the input contains characters outside the
// base58 alphabet.
var ErrInvalidBase58 = errors.New("invalid base58 string")

// Base58Encode encodes bytes to a base58 string.
func Base58Encode(input []byte) string {
	// Count leading zeros
	leadingZeros := 0
	for _, b := range input {
		if b != 0 {
			break
		}
		leadingZeros++
	}

	x := new(big.Int).SetBytes(input)
	base := big.NewInt(58)
	zero := big.NewInt(0)
	mod := new(big.Int)

	var result []byte
	for x.Cmp(zero) > 0 {
		x.DivMod(x, base, mod)
		result = append(result, base58Alphabet[mod.Int64()])
	}

	// Leading zero bytes become leading '1's
	for i := 0; i < leadingZeros; i++ {
		result = append(result, base58Alphabet[0])
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}

// Base58Decode decodes a base58 string to bytes.
func Base58Decode(input string) ([]byte, error) {
	if input == "" {
		return nil, ErrInvalidBase58
	}

	x := big.NewInt(0)
	base := big.NewInt(58)

	for _, c := range input {
		idx := indexOfBase58(byte(c))
		if idx < 0 {
			return nil, ErrInvalidBase58
		}
		x.Mul(x, base)
		x.Add(x, big.NewInt(int64(idx)))
	}

	decoded := x.Bytes()

	// Leading '1's become leading zero bytes
	leadingOnes := 0
	for i := 0; i < len(input) && input[i] == '1'; i++ {
		leadingOnes++
	}

	out := make([]byte, leadingOnes+len(decoded))
	copy(out[leadingOnes:], decoded)
	return out, nil
}

func indexOfBase58(c byte) int {
	for i := 0; i < len(base58Alphabet); i++ {
		if base58Alphabet[i] == c {
			return i
		}
	}
	return -1
}
