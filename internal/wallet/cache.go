package wallet

import (
	"strings"
	"sync"

	"github.com/wardenhq/warden/internal/chain"
)

// ConnCache holds live provider connections keyed "{agentID}:{walletID}".
// Connections are ephemeral and never serialized. Safe for concurrent use.
type ConnCache struct {
	mu      sync.RWMutex
	entries map[string]chain.Provider
}

// NewConnCache creates an empty connection cache.
func NewConnCache() *ConnCache {
	return &ConnCache{entries: make(map[string]chain.Provider)}
}

// cacheKey builds the cache key for a wallet.
func cacheKey(agentID, walletID string) string {
	return agentID + ":" + walletID
}

// Put stores a connection, replacing and disconnecting any previous one
// for the same wallet.
func (c *ConnCache) Put(agentID, walletID string, provider chain.Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(agentID, walletID)
	if prev, ok := c.entries[key]; ok && prev != provider {
		prev.Disconnect()
	}
	c.entries[key] = provider
}

// Get returns the cached connection for a wallet, if any.
func (c *ConnCache) Get(agentID, walletID string) (chain.Provider, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	provider, ok := c.entries[cacheKey(agentID, walletID)]
	return provider, ok
}

// Delete evicts a wallet's connection and disconnects it. Evicting a
// missing entry is a no-op.
func (c *ConnCache) Delete(agentID, walletID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(agentID, walletID)
	if provider, ok := c.entries[key]; ok {
		provider.Disconnect()
		delete(c.entries, key)
	}
}

// ClearAgent evicts and disconnects every connection owned by an agent.
func (c *ConnCache) ClearAgent(agentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := agentID + ":"
	for key, provider := range c.entries {
		if strings.HasPrefix(key, prefix) {
			provider.Disconnect()
			delete(c.entries, key)
		}
	}
}

// Size returns the number of cached connections.
func (c *ConnCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
