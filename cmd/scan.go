package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aiprov/internal/tag"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var flagScanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan <file>...",
	Short: "List the inline provenance tags in files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bold := color.New(color.Bold).SprintFunc()
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			ext := strings.TrimPrefix(filepath.Ext(path), ".")
			tags := tag.ScanContent(string(data), ext)

			if flagScanJSON {
				out, err := json.MarshalIndent(tags, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				continue
			}

			fmt.Printf("%s (%d tags)\n", bold(path), len(tags))
			for _, t := range tags {
				fmt.Printf("  L%-5d %s\n", t.Line, describeRecord(t.Record))
			}
		}
		return nil
	},
}

var hunksCmd = &cobra.Command{
	Use:   "hunks <file>",
	Short: "Show the line ranges each tag governs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		ext := strings.TrimPrefix(filepath.Ext(args[0]), ".")
		hunks := tag.ScanHunks(string(data), ext)

		if flagScanJSON {
			out, err := json.MarshalIndent(hunks, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		for _, h := range hunks {
			fmt.Printf("%d-%d (%d lines)  %s\n", h.Start, h.End, h.Lines(), describeRecord(h.Record))
		}
		if len(hunks) == 0 {
			fmt.Println("no tags found")
		}
		return nil
	},
}

// describeRecord renders a record the way it reads in a tag, markers aside.
func describeRecord(r tag.Record) string {
	var b strings.Builder
	b.WriteString("ai:" + string(r.Tool))
	if r.Confidence != "" {
		b.WriteString(":" + string(r.Confidence))
	}
	if len(r.Trace) > 0 {
		b.WriteString(" | trace:" + strings.Join(r.Trace, ","))
	}
	if len(r.Tests) > 0 {
		b.WriteString(" | test:" + strings.Join(r.Tests, ","))
	}
	if r.Reviewed != "" {
		b.WriteString(" | reviewed:" + r.Reviewed)
	}
	return b.String()
}

func init() {
	scanCmd.Flags().BoolVar(&flagScanJSON, "json", false, "emit JSON")
	hunksCmd.Flags().BoolVar(&flagScanJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(hunksCmd)
}
