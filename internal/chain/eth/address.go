package eth

import (
	"encoding/hex"
	"strings"

	"github.com/wardenhq/warden/internal/keys"
)

// addressHexLen is the length of an Ethereum address without the 0x
// prefix.
const addressHexLen = 40

// ValidateAddress reports whether an address is a well-formed Ethereum
// address. All-lowercase and all-uppercase forms are accepted; mixed-case
// addresses must carry a valid EIP-55 checksum.
func ValidateAddress(address string) bool {
	if len(address) != addressHexLen+2 || !strings.HasPrefix(address, "0x") {
		return false
	}

	addrHex := address[2:]
	raw, err := hex.DecodeString(addrHex)
	if err != nil {
		return false
	}

	lower := strings.ToLower(addrHex)
	upper := strings.ToUpper(addrHex)
	if addrHex == lower || addrHex == upper {
		return true
	}

	checksummed, err := keys.ChecksumETHAddress(raw)
	if err != nil {
		return false
	}
	return address == checksummed
}
