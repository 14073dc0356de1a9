package store

import (
	"time"

	"aiprov/internal/tag"
)

// FileRecord represents a scanned source file.
type FileRecord struct {
	ID        int64
	Path      string
	Hash      string
	Language  string
	ScannedAt time.Time
	SizeBytes int64
	LineCount int
}

// HunkRecord is a stored AI hunk: the tag line through the line before the
// next tag (or end of file).
type HunkRecord struct {
	ID         int64
	FileID     int64
	StartLine  int
	EndLine    int
	Tool       tag.Tool
	Confidence tag.Confidence
	Trace      []string
	Tests      []string
	Reviewed   string
}

// Lines returns the number of lines the hunk covers.
func (h HunkRecord) Lines() int {
	return h.EndLine - h.StartLine + 1
}

// FileHunks pairs a file with its stored hunks.
type FileHunks struct {
	File  FileRecord
	Hunks []HunkRecord
}

// ToolStat is the per-tool aggregate used by repo statistics.
type ToolStat struct {
	Tool  tag.Tool
	Hunks int
	Lines int
}

// Stats summarizes AI coverage across the indexed repository.
type Stats struct {
	Files      int
	TotalLines int
	AIHunks    int
	AILines    int
	ByTool     []ToolStat
}

// AIPercent returns AI line coverage as a percentage of all indexed lines.
func (s Stats) AIPercent() float64 {
	if s.TotalLines == 0 {
		return 0
	}
	return 100 * float64(s.AILines) / float64(s.TotalLines)
}
