package cmd

import (
	"fmt"
	"os"

	"aiprov/internal/report"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagRev    string
	flagFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Show the full provenance of a file at a revision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}
		repo, err := requireRepo(root)
		if err != nil {
			return err
		}

		format, err := report.ParseFormat(flagFormat)
		if err != nil {
			return err
		}

		data, err := report.CollectFile(repo, args[0], flagRev)
		if err != nil {
			return err
		}
		out, err := report.FileReport(data, format)
		if err != nil {
			return err
		}

		fmt.Println(renderMarkdown(out, format))
		return nil
	},
}

// renderMarkdown pretty-prints markdown output when stdout is a terminal.
// Piped output stays raw so it can be committed or diffed.
func renderMarkdown(out string, format report.Format) string {
	if format != report.FormatMarkdown || !term.IsTerminal(int(os.Stdout.Fd())) {
		return out
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return out
	}
	pretty, err := r.Render(out)
	if err != nil {
		return out
	}
	return pretty
}

func init() {
	reportCmd.Flags().StringVar(&flagRev, "rev", "HEAD", "git revision to report at")
	reportCmd.Flags().StringVar(&flagFormat, "format", "text", "output format (text, json, md)")
	rootCmd.AddCommand(reportCmd)
}
