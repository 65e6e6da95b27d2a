package keys

import (
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// Method identifies how a wallet's key material was created.
type Method string

// Wallet creation methods.
const (
	// MethodPrivateKey indicates the wallet was imported from a raw
	// private key.
	MethodPrivateKey Method = "private-key"

	// MethodSeed indicates the wallet was imported from an existing
	// seed phrase.
	MethodSeed Method = "seed"

	// MethodMnemonic indicates the wallet was created from a freshly
	// generated mnemonic.
	MethodMnemonic Method = "mnemonic"
)

// IsValid reports whether the method is a known creation method.
func (m Method) IsValid() bool {
	switch m {
	case MethodPrivateKey, MethodSeed, MethodMnemonic:
		return true
	}
	return false
}

// SeedSource is a seed phrase plus the derivation path used with it.
type SeedSource struct {
	Phrase string `json:"phrase"`
	Path   string `json:"path"`
}

// Material is the secret payload stored for a wallet. Exactly one of
// PrivateKey or Seed is set; holding both or neither is invalid.
type Material struct {
	PrivateKey []byte      `json:"private_key,omitempty"`
	Seed       *SeedSource `json:"seed,omitempty"`
}

// FromPrivateKey builds material holding a raw private key.
func FromPrivateKey(privateKey []byte) *Material {
	pk := make([]byte, len(privateKey))
	copy(pk, privateKey)
	return &Material{PrivateKey: pk}
}

// FromSeed builds material holding a seed phrase and derivation path.
func FromSeed(phrase, path string) *Material {
	return &Material{Seed: &SeedSource{Phrase: phrase, Path: path}}
}

// Validate checks that the material holds exactly one payload.
func (m *Material) Validate() error {
	hasKey := len(m.PrivateKey) > 0
	hasSeed := m.Seed != nil && m.Seed.Phrase != ""

	if hasKey && hasSeed {
		return wardenerr.WithDetails(wardenerr.ErrInvalidKey, map[string]string{
			"reason": "material holds both a private key and a seed",
		})
	}
	if !hasKey && !hasSeed {
		return wardenerr.WithDetails(wardenerr.ErrInvalidKey, map[string]string{
			"reason": "material holds neither a private key nor a seed",
		})
	}
	return nil
}

// Zero wipes the secret payload in place.
func (m *Material) Zero() {
	ZeroBytes(m.PrivateKey)
	m.PrivateKey = nil
	if m.Seed != nil {
		m.Seed.Phrase = ""
		m.Seed = nil
	}
}

// ZeroBytes zeros out a byte slice.
func ZeroBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
