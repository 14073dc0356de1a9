package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aiprov/internal/meta"
	"aiprov/internal/meta/languages"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var flagMetaWrite bool

var metaCmd = &cobra.Command{
	Use:   "meta <file>...",
	Short: "Generate block-level metadata sidecars (.meta.json)",
	Long: `meta parses each file, detects its functions and classes, overlays the
inline tag hunks onto them and emits a <file>.meta.json sidecar. Without
--write the metadata is printed instead of saved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}

		detector := meta.NewDetector(newRegistry())
		ok := color.New(color.FgGreen).SprintFunc()

		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			rel := path
			if r, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
			ext := strings.TrimPrefix(filepath.Ext(path), ".")

			m, err := detector.Generate(rel, ext, content)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", path, err)
			}

			if flagMetaWrite {
				if err := meta.Write(path, m); err != nil {
					return err
				}
				fmt.Printf("%s wrote %s (%d blocks, %.1f%% AI)\n",
					ok("✓"), meta.SidecarPath(path), len(m.Blocks), m.AIPercentage())
				continue
			}

			out, err := json.MarshalIndent(m, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		}
		return nil
	},
}

func newRegistry() *meta.Registry {
	r := meta.NewRegistry()
	languages.RegisterPython(r)
	languages.RegisterGo(r)
	languages.RegisterJavaScript(r)
	languages.RegisterTypeScript(r)
	return r
}

func init() {
	metaCmd.Flags().BoolVar(&flagMetaWrite, "write", false, "save the sidecar next to the file")
	rootCmd.AddCommand(metaCmd)
}
