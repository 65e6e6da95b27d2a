package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome            = "WARDEN_HOME"
	EnvStorageBackend  = "WARDEN_STORAGE_BACKEND"
	EnvStoragePath     = "WARDEN_STORAGE_PATH"
	EnvStorePassphrase = "WARDEN_STORE_PASSPHRASE" // #nosec G101 -- const name, not a credential
	EnvETHRPC          = "WARDEN_ETH_RPC"
	EnvETHScan         = "WARDEN_ETH_SCAN"
	EnvETHAPIKey       = "WARDEN_ETH_API_KEY" // #nosec G101 -- const name, not a credential
	EnvSOLRPC          = "WARDEN_SOL_RPC"
	EnvOutputFormat    = "WARDEN_OUTPUT_FORMAT"
	EnvVerbose         = "WARDEN_VERBOSE"
	EnvLogLevel        = "WARDEN_LOG_LEVEL"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
//
//nolint:gocognit,gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvStorageBackend); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}

	if v := os.Getenv(EnvStoragePath); v != "" {
		cfg.Storage.Path = v
	}

	// The passphrase only ever comes from the environment
	if v := os.Getenv(EnvStorePassphrase); v != "" {
		cfg.Storage.Passphrase = v
	}

	if v := os.Getenv(EnvETHRPC); v != "" {
		cfg.Networks.ETH.RPC = cleanURL(v)
	}

	if v := os.Getenv(EnvETHScan); v != "" {
		cfg.Networks.ETH.Scan = cleanURL(v)
	}

	if v := os.Getenv(EnvETHAPIKey); v != "" {
		cfg.Networks.ETH.APIKey = v
	}

	if v := os.Getenv(EnvSOLRPC); v != "" {
		cfg.Networks.SOL.RPC = cleanURL(v)
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// cleanURL trims whitespace and copy-paste artifacts from a URL.
func cleanURL(url string) string {
	return strings.Trim(strings.TrimSpace(url), `"'`)
}
