// Package config provides configuration management for Warden.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/wardenhq/warden/internal/chain"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Storage  StorageConfig  `yaml:"storage"`
	Networks NetworksConfig `yaml:"networks"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig defines wallet storage settings. The passphrase is
// never written to the config file; it arrives via WARDEN_STORE_PASSPHRASE.
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	Passphrase string `yaml:"-"`
}

// NetworksConfig defines per-chain gateway settings.
type NetworksConfig struct {
	ETH ETHNetworkConfig `yaml:"eth"`
	SOL SOLNetworkConfig `yaml:"sol"`
}

// ETHNetworkConfig defines Ethereum gateway settings.
type ETHNetworkConfig struct {
	Enabled bool   `yaml:"enabled"`
	RPC     string `yaml:"rpc"`
	Scan    string `yaml:"scan"`
	APIKey  string `yaml:"api_key"`
	ChainID int    `yaml:"chain_id"`
}

// SOLNetworkConfig defines Solana gateway settings.
type SOLNetworkConfig struct {
	Enabled bool   `yaml:"enabled"`
	RPC     string `yaml:"rpc"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file and applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, wardenerr.Wrap(err, "reading config file")
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, wardenerr.WithDetails(
			wardenerr.Wrap(err, "parsing config file"),
			map[string]string{"path": path},
		)
	}

	ApplyEnvironment(cfg)
	return cfg, cfg.Validate()
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return wardenerr.Wrap(err, "creating config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return wardenerr.Wrap(err, "marshaling config")
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate checks the configuration invariants that cannot wait until
// first use.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "memory":
	default:
		return wardenerr.WithDetails(wardenerr.ErrConfigInvalid, map[string]string{
			"field":   "storage.backend",
			"backend": c.Storage.Backend,
		})
	}
	if c.Storage.Backend == "file" && c.Storage.Path == "" {
		return wardenerr.WithDetails(wardenerr.ErrConfigInvalid, map[string]string{
			"field": "storage.path",
		})
	}
	return nil
}

// ProviderConfigs maps the network sections onto per-chain provider
// configuration for the factory.
func (c *Config) ProviderConfigs() map[chain.ID]chain.ProviderConfig {
	configs := make(map[chain.ID]chain.ProviderConfig)
	if c.Networks.ETH.Enabled {
		configs[chain.ETH] = chain.ProviderConfig{
			RPCURL:  c.Networks.ETH.RPC,
			ScanURL: c.Networks.ETH.Scan,
			APIKey:  c.Networks.ETH.APIKey,
		}
	}
	if c.Networks.SOL.Enabled {
		configs[chain.SOL] = chain.ProviderConfig{
			RPCURL: c.Networks.SOL.RPC,
		}
	}
	return configs
}

// GetETHRPC returns the Ethereum RPC URL.
func (c *Config) GetETHRPC() string {
	return c.Networks.ETH.RPC
}

// GetSOLRPC returns the Solana RPC URL.
func (c *Config) GetSOLRPC() string {
	return c.Networks.SOL.RPC
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default warden home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".warden"
	}
	return filepath.Join(home, ".warden")
}
