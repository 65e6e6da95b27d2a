// Package cli implements the Warden command-line interface.
//
// This package uses global variables to manage CLI state, which is the
// standard pattern for Cobra-based CLI applications. The globals are
// initialized in PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/chain"
	"github.com/wardenhq/warden/internal/chain/eth"
	"github.com/wardenhq/warden/internal/chain/sol"
	"github.com/wardenhq/warden/internal/config"
	"github.com/wardenhq/warden/internal/wallet"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool
	agentID      string

	// Global state initialized in PersistentPreRunE
	cfg     *config.Config
	logger  *config.Logger
	manager *wallet.Manager
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "Agent-scoped multi-chain wallet manager",
	Long: `Warden manages cryptocurrency wallets for autonomous agents.

Every wallet belongs to an agent. Warden derives keys from BIP39
mnemonics or imported private keys, stores key material encrypted at
rest, and talks to chain gateways through per-chain providers.

Example:
  warden wallet create --agent trader-1 --chain eth
  warden wallet list --agent trader-1
  warden balance --agent trader-1 --wallet wlt_...`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return wardenerr.ExitCode(err)
}

// initGlobals initializes configuration, logging, and the wallet manager.
func initGlobals() error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	var err error
	cfg, err = config.Load(config.Path(home))
	if err != nil {
		return err
	}

	// Re-root default paths when a non-default home is selected
	defaults := config.Defaults()
	if home != defaults.Home {
		if cfg.Storage.Path == defaults.Storage.Path {
			cfg.Storage.Path = filepath.Join(home, "wallets")
		}
		if cfg.Logging.File == defaults.Logging.File {
			cfg.Logging.File = filepath.Join(home, "warden.log")
		}
	}
	cfg.Home = home

	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" {
		cfg.Output.DefaultFormat = outputFormat
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File)
	if err != nil {
		logger = config.NullLogger()
	}

	store, err := wallet.NewStore(wallet.Options{
		Backend:    cfg.Storage.Backend,
		Path:       cfg.Storage.Path,
		Passphrase: cfg.Storage.Passphrase,
	})
	if err != nil {
		return err
	}

	factory := chain.NewConfigurableFactory()
	factory.Register(chain.ETH, eth.New)
	factory.Register(chain.SOL, sol.New)

	manager = wallet.NewManager(store, factory, cfg.ProviderConfigs())
	return nil
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

// requireAgent validates the --agent flag.
func requireAgent() error {
	return wallet.ValidateAgentID(agentID)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "warden data directory (default: ~/.warden)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&agentID, "agent", "", "agent identity owning the wallets")
}
