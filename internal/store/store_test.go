package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiprov/internal/tag"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedFile(t *testing.T, s *SQLiteStore, path string, lines int, hunks []HunkRecord) int64 {
	t.Helper()
	id, err := s.UpsertFile(FileRecord{Path: path, Hash: "h-" + path, Language: "python", SizeBytes: 100, LineCount: lines})
	require.NoError(t, err)
	require.NoError(t, s.InsertHunks(id, hunks))
	return id
}

func TestGetFileHash(t *testing.T) {
	s := openTestStore(t)

	hash, err := s.GetFileHash("nope.py")
	require.NoError(t, err)
	assert.Empty(t, hash)

	seedFile(t, s, "a.py", 10, nil)
	hash, err = s.GetFileHash("a.py")
	require.NoError(t, err)
	assert.Equal(t, "h-a.py", hash)
}

func TestUpsertFileReplacesHunks(t *testing.T) {
	s := openTestStore(t)
	id := seedFile(t, s, "a.py", 30, []HunkRecord{
		{StartLine: 5, EndLine: 19, Tool: tag.ToolClaude, Confidence: tag.ConfidenceHigh},
	})

	// Re-scan with different content: old hunks must go away.
	id2, err := s.UpsertFile(FileRecord{Path: "a.py", Hash: "h2", Language: "python", LineCount: 25})
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	require.NoError(t, s.InsertHunks(id2, []HunkRecord{
		{StartLine: 3, EndLine: 25, Tool: tag.ToolCursor},
	}))

	hunks, err := s.HunksForFile("a.py")
	require.NoError(t, err)
	require.Len(t, hunks, 1)
	assert.Equal(t, 3, hunks[0].StartLine)
	assert.Equal(t, tag.ToolCursor, hunks[0].Tool)
}

func TestPruneExcept(t *testing.T) {
	s := openTestStore(t)
	seedFile(t, s, "keep.py", 10, []HunkRecord{{StartLine: 1, EndLine: 10, Tool: tag.ToolClaude}})
	seedFile(t, s, "gone.py", 10, []HunkRecord{{StartLine: 1, EndLine: 10, Tool: tag.ToolCursor}})

	pruned, err := s.PruneExcept([]string{"keep.py"})
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	hash, err := s.GetFileHash("gone.py")
	require.NoError(t, err)
	assert.Empty(t, hash)

	hunks, err := s.HunksForFile("gone.py")
	require.NoError(t, err)
	assert.Empty(t, hunks)

	kept, err := s.HunksForFile("keep.py")
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	// Nothing stale: a second prune is a no-op.
	pruned, err = s.PruneExcept([]string{"keep.py"})
	require.NoError(t, err)
	assert.Zero(t, pruned)
}

func TestHunksForFileRoundTrip(t *testing.T) {
	s := openTestStore(t)
	seedFile(t, s, "a.py", 30, []HunkRecord{
		{StartLine: 5, EndLine: 19, Tool: tag.ToolClaude, Confidence: tag.ConfidenceHigh,
			Trace: []string{"SPEC-89", "SPEC-90"}, Tests: []string{"TC-210"}, Reviewed: "2025-01-15:alice"},
		{StartLine: 20, EndLine: 30, Tool: tag.ToolCopilot},
	})

	hunks, err := s.HunksForFile("a.py")
	require.NoError(t, err)
	require.Len(t, hunks, 2)
	assert.Equal(t, []string{"SPEC-89", "SPEC-90"}, hunks[0].Trace)
	assert.Equal(t, []string{"TC-210"}, hunks[0].Tests)
	assert.Equal(t, "2025-01-15:alice", hunks[0].Reviewed)
	assert.Equal(t, 15, hunks[0].Lines())
	assert.Nil(t, hunks[1].Trace)
}

func TestAIStats(t *testing.T) {
	s := openTestStore(t)
	seedFile(t, s, "a.py", 100, []HunkRecord{
		{StartLine: 1, EndLine: 20, Tool: tag.ToolClaude},
		{StartLine: 50, EndLine: 59, Tool: tag.ToolCopilot},
	})
	seedFile(t, s, "b.py", 100, []HunkRecord{
		{StartLine: 1, EndLine: 10, Tool: tag.ToolClaude},
	})

	stats, err := s.AIStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 200, stats.TotalLines)
	assert.Equal(t, 3, stats.AIHunks)
	assert.Equal(t, 40, stats.AILines)
	assert.InDelta(t, 20.0, stats.AIPercent(), 0.001)

	require.Len(t, stats.ByTool, 2)
	assert.Equal(t, tag.ToolClaude, stats.ByTool[0].Tool)
	assert.Equal(t, 30, stats.ByTool[0].Lines)
	assert.Equal(t, tag.ToolCopilot, stats.ByTool[1].Tool)
}

func TestByTraceExactMatch(t *testing.T) {
	s := openTestStore(t)
	seedFile(t, s, "a.py", 50, []HunkRecord{
		{StartLine: 1, EndLine: 10, Tool: tag.ToolClaude, Trace: []string{"SPEC-8"}},
		{StartLine: 20, EndLine: 30, Tool: tag.ToolClaude, Trace: []string{"SPEC-89"}},
	})

	// SPEC-8 must not match SPEC-89.
	got, err := s.ByTrace("SPEC-8")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Hunks, 1)
	assert.Equal(t, 1, got[0].Hunks[0].StartLine)

	got, err = s.ByTrace("SPEC-404")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnreviewed(t *testing.T) {
	s := openTestStore(t)
	seedFile(t, s, "a.py", 50, []HunkRecord{
		{StartLine: 1, EndLine: 10, Tool: tag.ToolClaude, Reviewed: "2025-01-15:alice"},
		{StartLine: 20, EndLine: 30, Tool: tag.ToolCopilot},
	})

	got, err := s.Unreviewed()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Hunks, 1)
	assert.Equal(t, tag.ToolCopilot, got[0].Hunks[0].Tool)
}

func TestFileStatsGroupsByFile(t *testing.T) {
	s := openTestStore(t)
	seedFile(t, s, "b.py", 50, []HunkRecord{{StartLine: 1, EndLine: 5, Tool: tag.ToolClaude}})
	seedFile(t, s, "a.py", 50, []HunkRecord{
		{StartLine: 1, EndLine: 5, Tool: tag.ToolClaude},
		{StartLine: 10, EndLine: 15, Tool: tag.ToolClaude},
	})

	got, err := s.FileStats()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.py", got[0].File.Path)
	assert.Len(t, got[0].Hunks, 2)
	assert.Equal(t, "b.py", got[1].File.Path)
}

func TestMeta(t *testing.T) {
	s := openTestStore(t)

	v, err := s.GetMeta("last_scan")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.SetMeta("last_scan", "2026-08-30"))
	require.NoError(t, s.SetMeta("last_scan", "2026-08-31"))

	v, err = s.GetMeta("last_scan")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", v)
}

func TestDeleteAll(t *testing.T) {
	s := openTestStore(t)
	seedFile(t, s, "a.py", 10, []HunkRecord{{StartLine: 1, EndLine: 2, Tool: tag.ToolClaude}})

	require.NoError(t, s.DeleteAll())

	stats, err := s.AIStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Files)
	assert.Zero(t, stats.AIHunks)
}
