package cmd

import (
	"fmt"
	"time"

	"aiprov/internal/config"
	"aiprov/internal/gitx"
	"aiprov/internal/tag"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	flagCommitMsg      string
	flagCommitTool     string
	flagCommitConf     string
	flagCommitTrace    []string
	flagCommitTests    []string
	flagCommitReviewer string
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit staged and modified files with a provenance note",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}
		repo, err := requireRepo(root)
		if err != nil {
			return err
		}
		cfg, err := config.Load(root)
		if err != nil {
			return err
		}

		toolName := flagCommitTool
		if toolName == "" {
			toolName = cfg.Tagging.DefaultTool
		}
		tool, err := tag.ParseToolStrict(toolName)
		if err != nil {
			return err
		}

		meta := gitx.CommitMeta{
			Tool:  tool,
			Trace: flagCommitTrace,
			Tests: flagCommitTests,
		}
		if flagCommitConf != "" {
			conf, err := tag.ParseConfidenceStrict(flagCommitConf)
			if err != nil {
				return err
			}
			meta.Confidence = conf
		}

		reviewer := flagCommitReviewer
		if reviewer == "" {
			reviewer = cfg.Git.Reviewer
		}
		if reviewer != "" {
			now := time.Now().UTC()
			meta.ReviewedBy = reviewer
			meta.ReviewedAt = &now
		}

		sha, err := repo.Commit(flagCommitMsg, meta)
		if err != nil {
			return err
		}

		ok := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s committed %s with ai:%s note\n", ok("✓"), sha[:min(12, len(sha))], tool)
		return nil
	},
}

func init() {
	commitCmd.Flags().StringVarP(&flagCommitMsg, "message", "m", "", "commit subject")
	commitCmd.Flags().StringVar(&flagCommitTool, "tool", "", "AI tool that produced the change")
	commitCmd.Flags().StringVar(&flagCommitConf, "confidence", "", "confidence level (high, med, low)")
	commitCmd.Flags().StringSliceVar(&flagCommitTrace, "trace", nil, "requirement IDs")
	commitCmd.Flags().StringSliceVar(&flagCommitTests, "test", nil, "test case IDs")
	commitCmd.Flags().StringVar(&flagCommitReviewer, "reviewed-by", "", "human reviewer name")
	_ = commitCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(commitCmd)
}
