// Package index scans a repository for AI hunks and persists the results.
package index

import (
	"fmt"
	"time"

	"aiprov/internal/comment"
	"aiprov/internal/store"
)

// schemaVersion is bumped when stored hunk semantics change, forcing a full
// re-scan of every file.
const schemaVersion = "1"

// Config holds the indexer configuration.
type Config struct {
	DBPath     string
	Workers    int
	Extensions []string // empty means every known comment style
}

// ProgressFunc reports pipeline progress: files stored so far out of the
// files seen so far.
type ProgressFunc func(done, total int)

// Indexer is the public API for scanning and querying a repository.
type Indexer struct {
	store  *store.SQLiteStore
	config Config
	exts   map[string]bool
}

// New creates a new Indexer with the given configuration.
func New(cfg Config) (*Indexer, error) {
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	exts := comment.Extensions()
	if len(cfg.Extensions) > 0 {
		exts = make(map[string]bool, len(cfg.Extensions))
		for _, e := range cfg.Extensions {
			exts[e] = true
		}
	}

	return &Indexer{store: s, config: cfg, exts: exts}, nil
}

// Scan walks the repository at root, extracts AI hunks from changed files,
// and stores them. Unchanged files (same content hash) are skipped.
func (idx *Indexer) Scan(root string, onProgress ProgressFunc) (*Stats, error) {
	lastVersion, err := idx.store.GetMeta("schema_version")
	if err != nil {
		return nil, fmt.Errorf("get meta: %w", err)
	}
	if lastVersion != "" && lastVersion != schemaVersion {
		if err := idx.store.DeleteAll(); err != nil {
			return nil, fmt.Errorf("reset store: %w", err)
		}
	}

	stats, err := runPipeline(root, idx.store, idx.exts, idx.config.Workers, onProgress)
	if err != nil {
		return nil, err
	}

	if err := idx.store.SetMeta("schema_version", schemaVersion); err != nil {
		return nil, fmt.Errorf("set meta: %w", err)
	}
	if err := idx.store.SetMeta("last_scan", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("set meta: %w", err)
	}

	return stats, nil
}

// Store exposes the underlying store for queries.
func (idx *Indexer) Store() store.Store {
	return idx.store
}

// Close releases resources.
func (idx *Indexer) Close() error {
	return idx.store.Close()
}
