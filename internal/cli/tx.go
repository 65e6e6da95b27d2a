package cli

import (
	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/chain"
	wardenerr "github.com/wardenhq/warden/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern
var (
	txWalletID string
	txTo       string
	txAmount   string
	historyMax int
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show a wallet's native balance",
	RunE:  runBalance,
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send native currency from a wallet",
	RunE:  runSend,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a wallet's recent transactions",
	RunE:  runHistory,
}

func requireWalletFlag() error {
	if txWalletID == "" {
		return wardenerr.WithSuggestion(wardenerr.ErrInvalidInput,
			"pass --wallet with a wallet ID from: warden wallet list")
	}
	return nil
}

func runBalance(cmd *cobra.Command, _ []string) error {
	if err := requireAgent(); err != nil {
		return err
	}
	if err := requireWalletFlag(); err != nil {
		return err
	}

	ctx := cmd.Context()
	provider, err := manager.Connect(ctx, agentID, txWalletID)
	if err != nil {
		return err
	}

	balance, err := provider.Balance(ctx, provider.Address())
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	if jsonOutput() {
		return writeJSON(stdout, balance)
	}

	amount := chain.FormatDecimalAmount(balance.Amount, balance.Chain.Decimals())
	out(stdout, "%s %s (%s %s at block %d)\n",
		amount, balance.Chain, balance.Amount.String(), balance.Denomination, balance.BlockNumber)
	return nil
}

func runSend(cmd *cobra.Command, _ []string) error {
	if err := requireAgent(); err != nil {
		return err
	}
	if err := requireWalletFlag(); err != nil {
		return err
	}

	ctx := cmd.Context()
	provider, err := manager.Connect(ctx, agentID, txWalletID)
	if err != nil {
		return err
	}

	amount, err := chain.ParseDecimalAmount(txAmount, provider.ID().Decimals(), wardenerr.ErrInvalidAmount)
	if err != nil {
		return err
	}

	record, err := provider.Send(ctx, "", chain.TxRequest{To: txTo, Amount: amount})
	if err != nil {
		return err
	}
	logger.Info("sent %s %s from %s: %s", record.Amount, record.Chain, record.From, record.Hash)

	stdout := cmd.OutOrStdout()
	if jsonOutput() {
		return writeJSON(stdout, record)
	}

	out(stdout, "Hash:   %s\n", record.Hash)
	out(stdout, "Amount: %s %s\n", record.Amount, record.Chain)
	out(stdout, "Fee:    %s %s\n", record.Fee, record.Chain)
	out(stdout, "Status: %s\n", record.Status)
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := requireAgent(); err != nil {
		return err
	}
	if err := requireWalletFlag(); err != nil {
		return err
	}

	ctx := cmd.Context()
	provider, err := manager.Connect(ctx, agentID, txWalletID)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	var records []*chain.TransactionRecord
	count := 0
	for record, iterErr := range provider.TransactionHistory(ctx, provider.Address()) {
		if iterErr != nil {
			return iterErr
		}
		records = append(records, record)
		count++
		if historyMax > 0 && count >= historyMax {
			break
		}
	}

	if jsonOutput() {
		if records == nil {
			records = []*chain.TransactionRecord{}
		}
		return writeJSON(stdout, records)
	}

	if len(records) == 0 {
		outln(stdout, "No transactions found.")
		return nil
	}
	for _, r := range records {
		out(stdout, "%s  %-9s %s -> %s  %s\n", r.Hash, r.Status, r.From, r.To, r.Amount)
	}
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	for _, cmd := range []*cobra.Command{balanceCmd, sendCmd, historyCmd} {
		cmd.Flags().StringVar(&txWalletID, "wallet", "", "wallet ID")
	}
	sendCmd.Flags().StringVar(&txTo, "to", "", "recipient address")
	sendCmd.Flags().StringVar(&txAmount, "amount", "", "amount in native units, e.g. 0.25")
	historyCmd.Flags().IntVar(&historyMax, "limit", 50, "maximum transactions to show")

	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(historyCmd)
}
