package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"aiprov/internal/config"
	"aiprov/internal/gitx"
	"aiprov/internal/store"
	"aiprov/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagRepo    string
	flagDB      string
	flagVerbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ai-prov",
	Short: "Track AI-generated code with inline tags, git notes and a local index",
	Long: `ai-prov records which parts of a codebase were written by AI tools.
It stamps files with inline provenance tags, attaches structured notes to
commits, indexes tagged hunks into a local SQLite database, and reports on
review status and requirement traceability.

Run without arguments to start the interactive setup wizard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The wizard has its own UI; a production logger would fight it.
		if cmd.Name() == "ai-prov" || cmd.Name() == "wizard" || cmd.Name() == "mcp" {
			logger = zap.NewNop()
			return nil
		}
		cfg := zap.NewProductionConfig()
		if flagVerbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRepo, "repo", "", "repository root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default <repo>/.ai-prov/index.db)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// repoRoot resolves the working root: --repo if given, else the cwd.
func repoRoot() (string, error) {
	if flagRepo != "" {
		return filepath.Abs(flagRepo)
	}
	return os.Getwd()
}

// dbPath resolves the index database path under the root.
func dbPath(root string) string {
	if flagDB != "" {
		return flagDB
	}
	return filepath.Join(root, config.Dir, "index.db")
}

// openStore opens the index database, failing if it was never built.
func openStore(root string) (store.Store, error) {
	path := dbPath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("index not found at %s\nRun 'ai-prov index' first to build it", path)
	}
	return store.Open(path)
}

// openRepo returns the git repository at root, or nil when root is not a
// git checkout. Store-only commands keep working outside git.
func openRepo(root string) *gitx.Repo {
	repo, err := gitx.Open(root)
	if err != nil {
		return nil
	}
	applyGitConfig(root, repo)
	return repo
}

// requireRepo is openRepo for commands that cannot run without git.
func requireRepo(root string) (*gitx.Repo, error) {
	repo, err := gitx.Open(root)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %s", root)
	}
	applyGitConfig(root, repo)
	return repo, nil
}

// applyGitConfig threads config.toml git settings onto the repo handle.
func applyGitConfig(root string, repo *gitx.Repo) {
	if cfg, err := config.Load(root); err == nil {
		repo.NotesRef = cfg.Git.NotesRef
	}
}

func runWizard() error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	return tui.Run(tui.Config{Root: root, DBPath: dbPath(root)})
}
