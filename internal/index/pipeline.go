package index

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"aiprov/internal/store"
	"aiprov/internal/tag"
	"aiprov/internal/walker"
)

// Stats reports scan results.
type Stats struct {
	FilesTotal   int
	FilesScanned int
	FilesSkipped int
	FilesPruned  int
	HunksTotal   int
}

// fileWork is a file that needs to be (re-)scanned.
type fileWork struct {
	info  walker.FileInfo
	hash  string
	lines int
	hunks []tag.Hunk
}

func runPipeline(
	root string,
	s *store.SQLiteStore,
	exts map[string]bool,
	numWorkers int,
	onProgress ProgressFunc,
) (*Stats, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	var stats Stats
	var filesTotal atomic.Int64

	// Every path the walk yields, changed or not, so stale index entries
	// for deleted and renamed files can be pruned afterwards.
	var seenMu sync.Mutex
	var seenPaths []string

	// Stage 1: Walk (only files with a known comment style).
	fileCh, walkErrCh := walker.Walk(root, exts)

	// Stage 2: Hash + scan (N workers).
	workCh := make(chan fileWork, numWorkers)
	var scanWg sync.WaitGroup
	for range numWorkers {
		scanWg.Add(1)
		go func() {
			defer scanWg.Done()
			for fi := range fileCh {
				filesTotal.Add(1)
				seenMu.Lock()
				seenPaths = append(seenPaths, fi.RelPath)
				seenMu.Unlock()

				src, err := os.ReadFile(fi.Path)
				if err != nil {
					continue
				}
				h := sha256.Sum256(src)
				hash := hex.EncodeToString(h[:])

				existing, err := s.GetFileHash(fi.RelPath)
				if err == nil && existing == hash {
					continue // unchanged
				}

				content := string(src)
				// Line count uses the same split convention as ScanHunks,
				// so a hunk can never cover more lines than the file has.
				workCh <- fileWork{
					info:  fi,
					hash:  hash,
					lines: len(strings.Split(content, "\n")),
					hunks: tag.ScanHunks(content, fi.Ext),
				}
			}
		}()
	}
	go func() {
		scanWg.Wait()
		close(workCh)
	}()

	// Stage 3: Store (1 worker; SQLite writes are serialized anyway).
	var storeErr error
	var storeWg sync.WaitGroup
	storeWg.Add(1)
	go func() {
		defer storeWg.Done()

		for w := range workCh {
			fileID, err := s.UpsertFile(store.FileRecord{
				Path:      w.info.RelPath,
				Hash:      w.hash,
				Language:  w.info.Ext,
				SizeBytes: w.info.Size,
				LineCount: w.lines,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "store upsert error %s: %v\n", w.info.RelPath, err)
				storeErr = err
				continue
			}

			records := make([]store.HunkRecord, len(w.hunks))
			for i, h := range w.hunks {
				records[i] = store.HunkRecord{
					StartLine:  h.Start,
					EndLine:    h.End,
					Tool:       h.Tool,
					Confidence: h.Confidence,
					Trace:      h.Trace,
					Tests:      h.Tests,
					Reviewed:   h.Reviewed,
				}
			}
			if err := s.InsertHunks(fileID, records); err != nil {
				fmt.Fprintf(os.Stderr, "store hunks error %s: %v\n", w.info.RelPath, err)
				storeErr = err
				continue
			}

			stats.FilesScanned++
			stats.HunksTotal += len(w.hunks)
			if onProgress != nil {
				onProgress(stats.FilesScanned, int(filesTotal.Load()))
			}
		}
	}()

	storeWg.Wait()

	if err := <-walkErrCh; err != nil {
		return nil, fmt.Errorf("walk error: %w", err)
	}

	stats.FilesTotal = int(filesTotal.Load())
	stats.FilesSkipped = stats.FilesTotal - stats.FilesScanned

	pruned, err := s.PruneExcept(seenPaths)
	if err != nil {
		return &stats, fmt.Errorf("prune stale files: %w", err)
	}
	stats.FilesPruned = pruned

	if storeErr != nil {
		return &stats, fmt.Errorf("storage failed: %w", storeErr)
	}
	return &stats, nil
}
