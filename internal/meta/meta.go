// Package meta generates .meta.json sidecar files describing which code
// blocks of a source file are AI-authored. Blocks come from tree-sitter
// parsing and are independent of hunk boundaries: a block is marked AI when
// it overlaps an AI hunk.
package meta

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"aiprov/internal/tag"
)

// BlockKind classifies a detected code block.
type BlockKind string

const (
	KindFunction BlockKind = "function"
	KindMethod   BlockKind = "method"
	KindClass    BlockKind = "class"
	KindBlock    BlockKind = "block"
	KindModule   BlockKind = "module"
)

// BlockMeta describes one code block.
type BlockMeta struct {
	Kind       BlockKind      `json:"kind"`
	Name       string         `json:"name"`
	Lines      [2]int         `json:"lines"` // [start, end], 1-based inclusive
	AI         bool           `json:"ai"`
	Confidence tag.Confidence `json:"confidence,omitempty"`
	Trace      []string       `json:"trace,omitempty"`
	Tests      []string       `json:"tests,omitempty"`
}

// FileMeta is the full sidecar document for one file.
type FileMeta struct {
	File        string         `json:"file"`
	GeneratedAt time.Time      `json:"generated_at"`
	AITool      tag.Tool       `json:"ai_tool,omitempty"`
	Confidence  tag.Confidence `json:"confidence,omitempty"`
	Trace       []string       `json:"trace,omitempty"`
	Tests       []string       `json:"tests,omitempty"`
	ReviewedBy  string         `json:"reviewed_by,omitempty"`
	Blocks      []BlockMeta    `json:"blocks"`
}

// AIPercentage returns the share of block lines that are AI-authored.
func (m FileMeta) AIPercentage() float64 {
	var total, ai int
	for _, b := range m.Blocks {
		n := b.Lines[1] - b.Lines[0] + 1
		total += n
		if b.AI {
			ai += n
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(ai) / float64(total)
}

// SidecarPath returns the .meta.json path for a source file.
func SidecarPath(file string) string {
	return file + ".meta.json"
}

// Generate builds the sidecar metadata for a source file. relPath is recorded
// in the document; content is scanned for hunks and parsed for blocks.
func (d *Detector) Generate(relPath, ext string, content []byte) (FileMeta, error) {
	blocks, err := d.Blocks(ext, content)
	if err != nil {
		return FileMeta{}, err
	}
	hunks := tag.ScanHunks(string(content), ext)
	markAI(blocks, hunks)

	m := FileMeta{
		File:        relPath,
		GeneratedAt: time.Now().UTC(),
		Blocks:      blocks,
	}
	// File-level fields summarize the hunks.
	if len(hunks) > 0 {
		m.AITool = hunks[0].Tool
		m.Confidence = hunks[0].Confidence
		seenTrace := map[string]bool{}
		seenTest := map[string]bool{}
		for _, h := range hunks {
			for _, tr := range h.Trace {
				if !seenTrace[tr] {
					seenTrace[tr] = true
					m.Trace = append(m.Trace, tr)
				}
			}
			for _, ts := range h.Tests {
				if !seenTest[ts] {
					seenTest[ts] = true
					m.Tests = append(m.Tests, ts)
				}
			}
		}
		sort.Strings(m.Trace)
		sort.Strings(m.Tests)
	}
	return m, nil
}

// markAI flags blocks that overlap any AI hunk and copies the hunk's
// provenance fields onto them.
func markAI(blocks []BlockMeta, hunks []tag.Hunk) {
	for i := range blocks {
		for _, h := range hunks {
			if blocks[i].Lines[0] <= h.End && blocks[i].Lines[1] >= h.Start {
				blocks[i].AI = true
				blocks[i].Confidence = h.Confidence
				blocks[i].Trace = h.Trace
				blocks[i].Tests = h.Tests
				break
			}
		}
	}
}

// Write stores the sidecar file next to the source file.
func Write(sourcePath string, m FileMeta) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	if err := os.WriteFile(SidecarPath(sourcePath), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return nil
}

// Read loads a sidecar file for a source file, or false when none exists.
func Read(sourcePath string) (FileMeta, bool, error) {
	data, err := os.ReadFile(SidecarPath(sourcePath))
	if err != nil {
		if os.IsNotExist(err) {
			return FileMeta{}, false, nil
		}
		return FileMeta{}, false, fmt.Errorf("read meta: %w", err)
	}
	var m FileMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return FileMeta{}, false, fmt.Errorf("parse meta: %w", err)
	}
	return m, true, nil
}
