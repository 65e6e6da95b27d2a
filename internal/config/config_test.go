package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/internal/chain"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.True(t, cfg.Networks.ETH.Enabled)
	assert.Equal(t, DefaultETHRPCURL, cfg.Networks.ETH.RPC)
	assert.True(t, cfg.Networks.SOL.Enabled)
	assert.Equal(t, DefaultSOLRPCURL, cfg.Networks.SOL.RPC)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Networks.ETH.RPC, cfg.Networks.ETH.RPC)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: memory
networks:
  eth:
    enabled: true
    rpc: https://rpc.example.test
    chain_id: 11155111
  sol:
    enabled: false
output:
  verbose: true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "https://rpc.example.test", cfg.GetETHRPC())
	assert.Equal(t, 11155111, cfg.Networks.ETH.ChainID)
	assert.False(t, cfg.Networks.SOL.Enabled)
	assert.True(t, cfg.IsVerbose())
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [not a map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(EnvHome, "/tmp/warden-home")
	t.Setenv(EnvStorageBackend, "MEMORY")
	t.Setenv(EnvStorePassphrase, "hunter2")
	t.Setenv(EnvETHRPC, `  "https://eth.example.test" `)
	t.Setenv(EnvSOLRPC, "https://sol.example.test")
	t.Setenv(EnvVerbose, "yes")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg := Defaults()
	ApplyEnvironment(cfg)

	assert.Equal(t, "/tmp/warden-home", cfg.Home)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "hunter2", cfg.Storage.Passphrase)
	assert.Equal(t, "https://eth.example.test", cfg.Networks.ETH.RPC)
	assert.Equal(t, "https://sol.example.test", cfg.Networks.SOL.RPC)
	assert.True(t, cfg.Output.Verbose)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.Storage.Backend = "s3"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, wardenerr.Is(err, wardenerr.ErrConfigInvalid))

	cfg = Defaults()
	cfg.Storage.Path = ""
	assert.True(t, wardenerr.Is(cfg.Validate(), wardenerr.ErrConfigInvalid))

	cfg = Defaults()
	cfg.Storage.Backend = "memory"
	cfg.Storage.Path = ""
	assert.NoError(t, cfg.Validate())
}

func TestProviderConfigs(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	cfg.Networks.ETH.APIKey = "key-123"
	cfg.Networks.SOL.Enabled = false

	configs := cfg.ProviderConfigs()
	require.Contains(t, configs, chain.ETH)
	assert.Equal(t, DefaultETHRPCURL, configs[chain.ETH].RPCURL)
	assert.Equal(t, DefaultETHScanURL, configs[chain.ETH].ScanURL)
	assert.Equal(t, "key-123", configs[chain.ETH].APIKey)
	assert.NotContains(t, configs, chain.SOL)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := Defaults()
	cfg.Storage.Passphrase = "must-not-persist"
	cfg.Networks.ETH.ChainID = 5
	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "must-not-persist")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Networks.ETH.ChainID)
	assert.Empty(t, loaded.Storage.Passphrase)
}
