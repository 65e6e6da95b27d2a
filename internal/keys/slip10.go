package keys

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"github.com/decred/dcrd/hdkeychain/v3"

	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// slip10Ed25519Key is the HMAC key for the ed25519 master node per SLIP-10.
const slip10Ed25519Key = "ed25519 seed"

// deriveSLIP10Key derives a 32-byte ed25519 key seed from a BIP39 seed
// following SLIP-10. Only hardened derivation is defined for ed25519;
// callers must validate the path before calling.
func deriveSLIP10Key(seed []byte, components []PathComponent) ([]byte, error) {
	if len(seed) == 0 {
		return nil, wardenerr.WithDetails(wardenerr.ErrKeyInit, map[string]string{
			"reason": "empty seed",
		})
	}

	// Master node: I = HMAC-SHA512(key="ed25519 seed", data=seed)
	mac := hmac.New(sha512.New, []byte(slip10Ed25519Key))
	mac.Write(seed)
	sum := mac.Sum(nil)

	key := sum[:32]
	chainCode := sum[32:]

	// Child node: I = HMAC-SHA512(key=chainCode, data=0x00 || key || ser32(index'))
	for _, c := range components {
		data := make([]byte, 0, 1+32+4)
		data = append(data, 0x00)
		data = append(data, key...)
		data = binary.BigEndian.AppendUint32(data, c.Index+hdkeychain.HardenedKeyStart)

		mac = hmac.New(sha512.New, chainCode)
		mac.Write(data)
		sum = mac.Sum(nil)

		key = sum[:32]
		chainCode = sum[32:]
	}

	out := make([]byte, 32)
	copy(out, key)
	return out, nil
}
