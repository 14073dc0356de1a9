package cmd

import (
	"fmt"

	"aiprov/internal/report"

	"github.com/spf13/cobra"
)

var (
	flagAIPercent  bool
	flagByFile     bool
	flagUnreviewed bool
	flagTraceID    string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the provenance index",
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

		switch {
		case flagAIPercent:
			out, err := report.AIPercent(st, flagByFile)
			if err != nil {
				return err
			}
			fmt.Println(out)
		case flagUnreviewed:
			out, err := report.Unreviewed(repo, st)
			if err != nil {
				return err
			}
			fmt.Println(out)
		case flagTraceID != "":
			out, err := report.Trace(repo, st, flagTraceID)
			if err != nil {
				return err
			}
			fmt.Println(out)
		default:
			return fmt.Errorf("nothing to query: pass --ai-percent, --unreviewed or --trace")
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().BoolVar(&flagAIPercent, "ai-percent", false, "share of indexed lines inside AI hunks")
	queryCmd.Flags().BoolVar(&flagByFile, "by-file", false, "break --ai-percent down per file")
	queryCmd.Flags().BoolVar(&flagUnreviewed, "unreviewed", false, "AI code that no human has reviewed")
	queryCmd.Flags().StringVar(&flagTraceID, "trace", "", "everything tracing to a requirement ID")
	rootCmd.AddCommand(queryCmd)
}
