package cmd

import "github.com/spf13/cobra"

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard (same as running ai-prov with no arguments)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard()
	},
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}
