package config

import "path/filepath"

// DefaultETHRPCURL is the default Ethereum RPC endpoint.
// PublicNode requires no API key.
const DefaultETHRPCURL = "https://ethereum-rpc.publicnode.com"

// DefaultETHScanURL is the default Ethereum history indexer endpoint.
const DefaultETHScanURL = "https://api.etherscan.io/api"

// DefaultSOLRPCURL is the default Solana RPC endpoint.
const DefaultSOLRPCURL = "https://api.mainnet-beta.solana.com"

// Defaults returns the default configuration.
func Defaults() *Config {
	home := DefaultHome()
	return &Config{
		Version: 1,
		Home:    home,
		Storage: StorageConfig{
			Backend: "file",
			Path:    filepath.Join(home, "wallets"),
		},
		Networks: NetworksConfig{
			ETH: ETHNetworkConfig{
				Enabled: true,
				RPC:     DefaultETHRPCURL,
				Scan:    DefaultETHScanURL,
				ChainID: 1,
			},
			SOL: SOLNetworkConfig{
				Enabled: true,
				RPC:     DefaultSOLRPCURL,
			},
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  filepath.Join(home, "warden.log"),
		},
	}
}
