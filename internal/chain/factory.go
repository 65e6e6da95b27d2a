package chain

import (
	"fmt"

	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// ErrUnsupportedChain indicates no provider is registered for a chain.
var ErrUnsupportedChain = wardenerr.ErrUnsupportedChain

// Creator is a function type that builds a Provider instance.
// Chain packages register their constructors to avoid import cycles
// between the base chain package and the chain implementations.
type Creator func(cfg ProviderConfig) (Provider, error)

// ProviderConfig carries gateway endpoints for provider construction.
type ProviderConfig struct {
	RPCURL  string // Chain gateway JSON-RPC endpoint
	ScanURL string // Optional history/indexer gateway endpoint
	APIKey  string // Optional gateway API key
}

// Factory creates chain providers by ID.
type Factory interface {
	// NewProvider builds a provider for the given chain.
	NewProvider(id ID, cfg ProviderConfig) (Provider, error)
}

// ConfigurableFactory is a Factory with registrable chain creators.
type ConfigurableFactory struct {
	creators map[ID]Creator
}

// NewConfigurableFactory creates an empty factory.
func NewConfigurableFactory() *ConfigurableFactory {
	return &ConfigurableFactory{
		creators: make(map[ID]Creator),
	}
}

// Register adds a provider creator for the given chain ID.
func (f *ConfigurableFactory) Register(id ID, creator Creator) {
	f.creators[id] = creator
}

// NewProvider builds a provider using the registered creator.
func (f *ConfigurableFactory) NewProvider(id ID, cfg ProviderConfig) (Provider, error) {
	creator, ok := f.creators[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, id)
	}
	return creator(cfg)
}

// IsSupported returns true if the chain ID has a registered creator.
func (f *ConfigurableFactory) IsSupported(id ID) bool {
	_, ok := f.creators[id]
	return ok
}

// RegisteredChains returns all registered chain IDs.
func (f *ConfigurableFactory) RegisteredChains() []ID {
	chains := make([]ID, 0, len(f.creators))
	for id := range f.creators {
		chains = append(chains, id)
	}
	return chains
}

// Compile-time interface check
var _ Factory = (*ConfigurableFactory)(nil)
