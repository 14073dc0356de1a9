package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aiprov/internal/config"
	"aiprov/internal/tag"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagTool       string
	flagConfidence string
	flagTrace      []string
	flagTests      []string
	flagReviewed   string
	flagPosition   string
)

var stampCmd = &cobra.Command{
	Use:   "stamp <file>...",
	Short: "Insert or update an inline provenance tag in files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}
		cfg, err := config.Load(root)
		if err != nil {
			return err
		}

		rec, pos, err := stampRecord(cfg)
		if err != nil {
			return err
		}

		ok := color.New(color.FgGreen).SprintFunc()
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			ext := strings.TrimPrefix(filepath.Ext(path), ".")
			out, err := tag.Stamp(string(data), ext, rec, pos)
			if err != nil {
				return fmt.Errorf("stamp %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			logger.Debug("stamped file", zap.String("path", path), zap.String("tool", string(rec.Tool)))
			fmt.Printf("%s %s tagged ai:%s\n", ok("✓"), path, rec.Tool)
		}
		return nil
	},
}

// stampRecord builds the record to stamp from flags and config defaults.
func stampRecord(cfg config.Config) (tag.Record, tag.Position, error) {
	toolName := flagTool
	if toolName == "" {
		toolName = cfg.Tagging.DefaultTool
	}
	tool, err := tag.ParseToolStrict(toolName)
	if err != nil {
		return tag.Record{}, "", err
	}

	confName := flagConfidence
	if confName == "" {
		confName = cfg.Tagging.DefaultConfidence
	}
	conf, err := tag.ParseConfidenceStrict(confName)
	if err != nil {
		return tag.Record{}, "", err
	}

	posName := flagPosition
	if posName == "" {
		posName = cfg.Tagging.Position
	}
	pos := tag.Position(posName)
	if pos != tag.Top && pos != tag.Bottom {
		return tag.Record{}, "", fmt.Errorf("invalid position %q (want top or bottom)", posName)
	}

	return tag.Record{
		Tool:       tool,
		Confidence: conf,
		Trace:      flagTrace,
		Tests:      flagTests,
		Reviewed:   flagReviewed,
	}, pos, nil
}

func init() {
	stampCmd.Flags().StringVar(&flagTool, "tool", "", "AI tool (claude, copilot, chatgpt, gemini, cursor, other)")
	stampCmd.Flags().StringVar(&flagConfidence, "confidence", "", "confidence level (high, med, low)")
	stampCmd.Flags().StringSliceVar(&flagTrace, "trace", nil, "requirement IDs the code traces to")
	stampCmd.Flags().StringSliceVar(&flagTests, "test", nil, "test case IDs covering the code")
	stampCmd.Flags().StringVar(&flagReviewed, "reviewed", "", "review marker, YYYY-MM-DD:name")
	stampCmd.Flags().StringVar(&flagPosition, "position", "", "tag position, top or bottom (default from config)")
	rootCmd.AddCommand(stampCmd)
}
