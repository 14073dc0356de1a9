package cmd

import (
	"fmt"
	"path/filepath"

	"aiprov/internal/report"
	"aiprov/internal/requirements"

	"github.com/spf13/cobra"
)

var flagMatrixFormat string

var matrixCmd = &cobra.Command{
	Use:   "trace-matrix",
	Short: "Build a requirement traceability matrix",
	Long: `trace-matrix joins commit notes and indexed hunks by their trace IDs
and renders one row per requirement: the commits and files implementing it,
the tests covering it, its AI share and its review status.`,
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

		m, err := report.BuildMatrix(repo, st)
		if err != nil {
			return err
		}

		// Requirement titles when a requirements.yaml (or the markdown
		// fallback) is present; the matrix works without one.
		reqs, err := requirements.LoadDir(root)
		if err != nil {
			return err
		}
		mapping, err := requirements.LoadMapping(filepath.Join(root, requirements.MappingFile))
		if err != nil {
			return err
		}
		report.AttachRequirements(m, reqs, mapping)

		out, err := report.RenderMatrix(m, flagMatrixFormat)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	matrixCmd.Flags().StringVar(&flagMatrixFormat, "format", "md", "output format (md, json, html)")
	rootCmd.AddCommand(matrixCmd)
}
