package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"aiprov/internal/config"
	"aiprov/internal/index"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagWorkers int

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Scan the repository and index tagged hunks",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var root string
		var err error
		if len(args) == 1 {
			root, err = filepath.Abs(args[0])
		} else {
			root, err = repoRoot()
		}
		if err != nil {
			return err
		}

		path := dbPath(root)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create db directory: %w", err)
		}

		cfg, err := config.Load(root)
		if err != nil {
			return err
		}

		idx, err := index.New(index.Config{
			DBPath:     path,
			Workers:    flagWorkers,
			Extensions: cfg.Scan.Extensions,
		})
		if err != nil {
			return err
		}
		defer idx.Close()

		fmt.Printf("Scanning %s...\n", root)
		start := time.Now()

		stats, err := idx.Scan(root, func(done, total int) {
			fmt.Printf("\r  %d / %d files", done, total)
		})
		elapsed := time.Since(start)

		if stats != nil {
			logger.Debug("scan finished",
				zap.Int("files", stats.FilesTotal),
				zap.Int("hunks", stats.HunksTotal),
				zap.Duration("elapsed", elapsed))
			fmt.Printf("\nDone in %s\n", elapsed.Round(time.Millisecond))
			fmt.Printf("  Files:  %d total, %d scanned, %d unchanged\n",
				stats.FilesTotal, stats.FilesScanned, stats.FilesSkipped)
			if stats.FilesPruned > 0 {
				fmt.Printf("  Pruned: %d no longer present\n", stats.FilesPruned)
			}
			fmt.Printf("  Hunks:  %d\n", stats.HunksTotal)
		}

		return err
	},
}

func init() {
	indexCmd.Flags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "parallel workers")
	rootCmd.AddCommand(indexCmd)
}
