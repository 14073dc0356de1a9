package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"aiprov/internal/config"
	"aiprov/internal/features"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagProfile string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize provenance tracking in a repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := repoRoot()
		if err != nil {
			return err
		}

		ok := color.New(color.FgGreen).SprintFunc()
		warn := color.New(color.FgYellow).SprintFunc()

		if err := os.MkdirAll(filepath.Join(root, config.Dir), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", config.Dir, err)
		}

		if _, err := os.Stat(config.Path(root)); os.IsNotExist(err) {
			if err := config.Save(root, config.Default()); err != nil {
				return err
			}
			fmt.Printf("%s wrote %s\n", ok("✓"), config.Path(root))
		} else {
			fmt.Printf("%s %s already exists, left unchanged\n", warn("!"), config.Path(root))
		}

		set, err := features.FromProfile(flagProfile)
		if err != nil {
			return err
		}
		if err := features.Save(root, set); err != nil {
			return err
		}
		fmt.Printf("%s enabled %q profile (%d features)\n", ok("✓"), flagProfile, len(set.List()))

		repo := openRepo(root)
		if repo == nil {
			fmt.Printf("%s not a git repository, skipping hooks and attributes\n", warn("!"))
			return nil
		}

		if set.IsEnabled(features.FeatureGitNotes) {
			hooks, err := repo.InstallHooks()
			if err != nil {
				return fmt.Errorf("install hooks: %w", err)
			}
			for _, h := range hooks {
				fmt.Printf("%s installed %s hook\n", ok("✓"), h)
			}
			logger.Debug("hooks installed", zap.Strings("hooks", hooks))
		}

		added, err := repo.EnsureGitAttributes()
		if err != nil {
			return fmt.Errorf("update .gitattributes: %w", err)
		}
		if added > 0 {
			fmt.Printf("%s added %d pattern(s) to .gitattributes\n", ok("✓"), added)
		}

		fmt.Println("\nProvenance tracking is ready. Try 'ai-prov stamp <file>' next.")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&flagProfile, "profile", "standard", "feature profile (minimal, standard, full, research)")
	rootCmd.AddCommand(initCmd)
}
