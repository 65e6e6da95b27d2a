package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/keys"
)

//nolint:gochecknoglobals // Cobra CLI pattern
var mnemonicEntropyBits int

var mnemonicCmd = &cobra.Command{
	Use:   "mnemonic",
	Short: "Generate and validate BIP39 seed phrases",
}

var mnemonicGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new seed phrase",
	Long: `Generate a new BIP39 seed phrase.

The phrase is printed once and never stored. Write it down and keep it
safe; anyone holding the phrase controls the derived accounts.`,
	RunE: runMnemonicGenerate,
}

var mnemonicValidateCmd = &cobra.Command{
	Use:   "validate <phrase...>",
	Short: "Check a seed phrase and suggest fixes for typos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMnemonicValidate,
}

func runMnemonicGenerate(cmd *cobra.Command, _ []string) error {
	mnemonic, err := keys.GenerateMnemonic(mnemonicEntropyBits)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput() {
		return writeJSON(w, map[string]any{
			"mnemonic": mnemonic,
			"words":    keys.WordCount(mnemonicEntropyBits),
		})
	}

	outln(w, mnemonic)
	return nil
}

func runMnemonicValidate(cmd *cobra.Command, args []string) error {
	phrase := keys.NormalizeSeedPhraseInput(strings.Join(args, " "))
	valid := keys.ValidateSeedPhrase(phrase)

	var typos []keys.TypoInfo
	if !valid {
		typos = keys.DetectTypos(phrase)
	}

	w := cmd.OutOrStdout()
	if jsonOutput() {
		payload := map[string]any{"valid": valid}
		if len(typos) > 0 {
			payload["typos"] = typos
		}
		return writeJSON(w, payload)
	}

	if valid {
		outln(w, "Seed phrase is valid.")
		return nil
	}

	outln(w, "Seed phrase is NOT valid.")
	if len(typos) > 0 {
		outln(w, keys.FormatTypoSuggestions(typos))
	}
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	mnemonicGenerateCmd.Flags().IntVar(&mnemonicEntropyBits, "entropy", 128,
		"entropy bits: 128, 160, 192, 224, or 256")

	mnemonicCmd.AddCommand(mnemonicGenerateCmd)
	mnemonicCmd.AddCommand(mnemonicValidateCmd)
	rootCmd.AddCommand(mnemonicCmd)
}
