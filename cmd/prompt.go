package cmd

import (
	"fmt"
	"strings"

	"aiprov/internal/prompts"
	"aiprov/internal/tag"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	flagPromptType  string
	flagPromptTool  string
	flagPromptFiles []string
	flagPromptReqs  []string
	flagPromptTests []string
	flagPromptSHA   string

	flagPromptFile string
	flagPromptReq  string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Record and browse the prompts behind AI changes",
}

var promptStoreCmd = &cobra.Command{
	Use:   "store <text>",
	Short: "Save a prompt with its context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}
		tool, err := tag.ParseToolStrict(flagPromptTool)
		if err != nil {
			return err
		}

		p, err := prompts.NewStore(root).Save(prompts.Prompt{
			Text:         args[0],
			Type:         prompts.ParseType(flagPromptType),
			Tool:         tool,
			Files:        flagPromptFiles,
			Requirements: flagPromptReqs,
			Tests:        flagPromptTests,
			CommitSHA:    flagPromptSHA,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s stored prompt %s\n", color.GreenString("✓"), p.ID)
		return nil
	},
}

var promptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored prompts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}
		store := prompts.NewStore(root)

		var list []prompts.Prompt
		switch {
		case flagPromptFile != "":
			list, err = store.ListForFile(flagPromptFile)
		case flagPromptReq != "":
			list, err = store.ListForRequirement(flagPromptReq)
		default:
			list, err = store.List()
		}
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Println("no prompts stored")
			return nil
		}
		bold := color.New(color.Bold).SprintFunc()
		for _, p := range list {
			fmt.Printf("%s  %s  %s/%s\n", p.Timestamp.Format("2006-01-02 15:04"), bold(p.ID[:8]), p.Tool, p.Type)
			fmt.Printf("  %s\n", truncateLine(p.Text, 100))
			if len(p.Files) > 0 {
				fmt.Printf("  files: %s\n", strings.Join(p.Files, ", "))
			}
			if len(p.Requirements) > 0 {
				fmt.Printf("  reqs:  %s\n", strings.Join(p.Requirements, ", "))
			}
		}
		return nil
	},
}

func truncateLine(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

func init() {
	promptStoreCmd.Flags().StringVar(&flagPromptType, "type", "generate", "prompt type (generate, refactor, fix, explain, test, other)")
	promptStoreCmd.Flags().StringVar(&flagPromptTool, "tool", "claude", "AI tool the prompt was sent to")
	promptStoreCmd.Flags().StringSliceVar(&flagPromptFiles, "file", nil, "files the response touched")
	promptStoreCmd.Flags().StringSliceVar(&flagPromptReqs, "req", nil, "requirement IDs")
	promptStoreCmd.Flags().StringSliceVar(&flagPromptTests, "test", nil, "test case IDs")
	promptStoreCmd.Flags().StringVar(&flagPromptSHA, "commit", "", "commit SHA the prompt produced")

	promptListCmd.Flags().StringVar(&flagPromptFile, "file", "", "only prompts that touched this file")
	promptListCmd.Flags().StringVar(&flagPromptReq, "req", "", "only prompts for this requirement")

	promptCmd.AddCommand(promptStoreCmd)
	promptCmd.AddCommand(promptListCmd)
	rootCmd.AddCommand(promptCmd)
}
