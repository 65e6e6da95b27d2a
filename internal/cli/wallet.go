package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/chain"
	"github.com/wardenhq/warden/internal/wallet"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern
var (
	walletChain      string
	importMnemonic   string
	importPrivateKey string
	importPath       string
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Create, import, and manage agent wallets",
}

var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a wallet from a fresh seed phrase",
	Long: `Create a wallet for an agent from a newly generated seed phrase.

The phrase is printed exactly once. Warden keeps only an encrypted copy;
losing the printed phrase means relying on that encrypted store.`,
	RunE: runWalletCreate,
}

var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a wallet from a seed phrase or private key",
	RunE:  runWalletImport,
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an agent's wallets",
	RunE:  runWalletList,
}

var walletShowCmd = &cobra.Command{
	Use:   "show <wallet-id>",
	Short: "Show a wallet record",
	Args:  cobra.ExactArgs(1),
	RunE:  runWalletShow,
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <wallet-id>",
	Short: "Remove a wallet",
	Args:  cobra.ExactArgs(1),
	RunE:  runWalletRemove,
}

var walletClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every wallet owned by an agent",
	RunE:  runWalletClear,
}

func parseChainFlag() (chain.ID, error) {
	id, ok := chain.ParseID(walletChain)
	if !ok {
		return "", wardenerr.WithSuggestion(
			wardenerr.WithDetails(wardenerr.ErrUnsupportedChain, map[string]string{
				"chain": walletChain,
			}),
			"supported chains: eth, sol",
		)
	}
	return id, nil
}

func runWalletCreate(cmd *cobra.Command, _ []string) error {
	if err := requireAgent(); err != nil {
		return err
	}
	id, err := parseChainFlag()
	if err != nil {
		return err
	}

	w, mnemonic, err := manager.GenerateWallet(agentID, id)
	if err != nil {
		return err
	}
	logger.Info("wallet %s created for agent %s on %s", w.ID, agentID, id)

	stdout := cmd.OutOrStdout()
	if jsonOutput() {
		return writeJSON(stdout, map[string]any{
			"wallet":   w,
			"mnemonic": mnemonic,
		})
	}

	out(stdout, "Wallet:  %s\n", w.ID)
	out(stdout, "Chain:   %s\n", w.Chain)
	out(stdout, "Address: %s\n", w.Address)
	outln(stdout)
	outln(stdout, "Seed phrase (shown once, store it safely):")
	out(stdout, "  %s\n", mnemonic)
	return nil
}

func runWalletImport(cmd *cobra.Command, _ []string) error {
	if err := requireAgent(); err != nil {
		return err
	}
	id, err := parseChainFlag()
	if err != nil {
		return err
	}

	var w *wallet.Wallet
	switch {
	case importPrivateKey != "" && importMnemonic != "":
		return wardenerr.WithSuggestion(wardenerr.ErrInvalidInput,
			"pass either --mnemonic or --private-key, not both")
	case importPrivateKey != "":
		w, err = manager.ImportWalletFromPrivateKey(agentID, id, importPrivateKey)
	case importMnemonic != "":
		w, err = manager.ImportWalletFromSeed(agentID, id, importMnemonic, importPath)
	default:
		return wardenerr.WithSuggestion(wardenerr.ErrInvalidInput,
			"pass --mnemonic or --private-key")
	}
	if err != nil {
		return err
	}
	logger.Info("wallet %s imported for agent %s on %s", w.ID, agentID, id)

	stdout := cmd.OutOrStdout()
	if jsonOutput() {
		return writeJSON(stdout, w)
	}

	out(stdout, "Wallet:  %s\n", w.ID)
	out(stdout, "Chain:   %s\n", w.Chain)
	out(stdout, "Address: %s\n", w.Address)
	return nil
}

func runWalletList(cmd *cobra.Command, _ []string) error {
	if err := requireAgent(); err != nil {
		return err
	}

	wallets, err := manager.ListAgentWallets(agentID)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	if jsonOutput() {
		if wallets == nil {
			wallets = []*wallet.Wallet{}
		}
		return writeJSON(stdout, wallets)
	}

	if len(wallets) == 0 {
		outln(stdout, "No wallets found.")
		outln(stdout, "Create one with: warden wallet create --agent", agentID, "--chain eth")
		return nil
	}

	for _, w := range wallets {
		out(stdout, "%s  %-4s %s\n", w.ID, w.Chain, w.Address)
	}
	return nil
}

func runWalletShow(cmd *cobra.Command, args []string) error {
	if err := requireAgent(); err != nil {
		return err
	}

	w, err := manager.GetWallet(agentID, args[0])
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	if jsonOutput() {
		return writeJSON(stdout, w)
	}

	out(stdout, "Wallet:  %s\n", w.ID)
	out(stdout, "Agent:   %s\n", w.AgentID)
	out(stdout, "Chain:   %s\n", w.Chain)
	out(stdout, "Address: %s\n", w.Address)
	out(stdout, "Method:  %s\n", w.Method)
	if w.DerivationPath != "" {
		out(stdout, "Path:    %s\n", w.DerivationPath)
	}
	out(stdout, "Created: %s\n", w.CreatedAt.Format(time.RFC3339))
	return nil
}

func runWalletRemove(cmd *cobra.Command, args []string) error {
	if err := requireAgent(); err != nil {
		return err
	}

	if err := manager.RemoveWallet(agentID, args[0]); err != nil {
		return err
	}
	logger.Info("wallet %s removed for agent %s", args[0], agentID)

	if !jsonOutput() {
		outln(cmd.OutOrStdout(), "Removed.")
	}
	return nil
}

func runWalletClear(cmd *cobra.Command, _ []string) error {
	if err := requireAgent(); err != nil {
		return err
	}

	if err := manager.ClearAgentWallets(agentID); err != nil {
		return err
	}
	logger.Info("all wallets cleared for agent %s", agentID)

	if !jsonOutput() {
		outln(cmd.OutOrStdout(), "Cleared.")
	}
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletCreateCmd.Flags().StringVar(&walletChain, "chain", "", "chain: eth or sol")
	walletImportCmd.Flags().StringVar(&walletChain, "chain", "", "chain: eth or sol")
	walletImportCmd.Flags().StringVar(&importMnemonic, "mnemonic", "", "BIP39 seed phrase to import")
	walletImportCmd.Flags().StringVar(&importPrivateKey, "private-key", "", "chain-encoded private key to import")
	walletImportCmd.Flags().StringVar(&importPath, "path", "", "derivation path override")

	walletCmd.AddCommand(walletCreateCmd)
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletListCmd)
	walletCmd.AddCommand(walletShowCmd)
	walletCmd.AddCommand(walletRemoveCmd)
	walletCmd.AddCommand(walletClearCmd)
	rootCmd.AddCommand(walletCmd)
}
