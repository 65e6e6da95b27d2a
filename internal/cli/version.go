package cli

import (
	"github.com/spf13/cobra"

	"github.com/wardenhq/warden/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := version.Get()
		if jsonOutput() {
			return writeJSON(cmd.OutOrStdout(), info)
		}
		outln(cmd.OutOrStdout(), info.String())
		return nil
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
}
