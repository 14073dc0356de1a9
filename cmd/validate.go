package cmd

import (
	"fmt"

	"aiprov/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	flagRequireReview bool
	flagRequireTests  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check AI-tagged code against provenance rules",
	Long: `validate scans the index and the commit notes for AI code that breaks
the configured rules. It always flags tags without a confidence level;
--require-review and --require-tests add stricter checks suitable for CI.
Exits non-zero when any violation is found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}
		st, err := openStore(root)
		if err != nil {
			return err
		}
		defer st.Close()
		repo := openRepo(root)

		problems, err := report.Validate(repo, st, report.ValidateOptions{
			RequireReview: flagRequireReview,
			RequireTests:  flagRequireTests,
		})
		if err != nil {
			return err
		}

		if len(problems) == 0 {
			fmt.Printf("%s all provenance checks passed\n", color.GreenString("✓"))
			return nil
		}
		for _, p := range problems {
			fmt.Printf("%s %s\n", color.RedString("✗"), p)
		}
		return fmt.Errorf("%d violation(s)", len(problems))
	},
}

func init() {
	validateCmd.Flags().BoolVar(&flagRequireReview, "require-review", false, "every AI hunk and commit needs a reviewer")
	validateCmd.Flags().BoolVar(&flagRequireTests, "require-tests", false, "every AI hunk and commit needs test IDs")
	rootCmd.AddCommand(validateCmd)
}
