package report

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiprov/internal/meta"
	"aiprov/internal/requirements"
	"aiprov/internal/store"
	"aiprov/internal/tag"
)

func seededStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	id, err := s.UpsertFile(store.FileRecord{Path: "src/auth.py", Hash: "h1", Language: "py", LineCount: 100})
	require.NoError(t, err)
	require.NoError(t, s.InsertHunks(id, []store.HunkRecord{
		{StartLine: 5, EndLine: 24, Tool: tag.ToolClaude, Confidence: tag.ConfidenceHigh,
			Trace: []string{"SPEC-89"}, Tests: []string{"TC-210"}, Reviewed: "2025-01-15:alice"},
		{StartLine: 40, EndLine: 49, Tool: tag.ToolCopilot},
	}))

	id, err = s.UpsertFile(store.FileRecord{Path: "src/db.py", Hash: "h2", Language: "py", LineCount: 100})
	require.NoError(t, err)
	require.NoError(t, s.InsertHunks(id, []store.HunkRecord{
		{StartLine: 1, EndLine: 50, Tool: tag.ToolClaude, Confidence: tag.ConfidenceMedium},
	}))
	return s
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestAIPercent(t *testing.T) {
	s := seededStore(t)

	out, err := AIPercent(s, false)
	require.NoError(t, err)
	assert.Contains(t, out, "AI-Generated Code: 40.00%")
	assert.Contains(t, out, "Total lines: 200")
	assert.Contains(t, out, "AI lines: 80")
	assert.Contains(t, out, "claude")
}

func TestAIPercentByFile(t *testing.T) {
	s := seededStore(t)

	out, err := AIPercent(s, true)
	require.NoError(t, err)
	assert.Contains(t, out, "By File:")
	// db.py has 50% coverage, auth.py 30%; db.py sorts first.
	dbIdx := strings.Index(out, "src/db.py: 50.0%")
	authIdx := strings.Index(out, "src/auth.py: 30.0%")
	require.GreaterOrEqual(t, dbIdx, 0)
	require.GreaterOrEqual(t, authIdx, 0)
	assert.Less(t, dbIdx, authIdx)
}

func TestUnreviewedStoreOnly(t *testing.T) {
	s := seededStore(t)

	out, err := Unreviewed(nil, s)
	require.NoError(t, err)
	assert.Contains(t, out, "src/auth.py:40-49 [copilot]")
	assert.Contains(t, out, "src/db.py:1-50 [claude]")
	assert.NotContains(t, out, "src/auth.py:5-24")
}

func TestTraceStoreOnly(t *testing.T) {
	s := seededStore(t)

	out, err := Trace(nil, s, "SPEC-89")
	require.NoError(t, err)
	assert.Contains(t, out, "src/auth.py:5-24 [claude]")

	out, err = Trace(nil, s, "SPEC-404")
	require.NoError(t, err)
	assert.Equal(t, "No commits found for SPEC-404", out)
}

func TestBuildMatrixFromStore(t *testing.T) {
	s := seededStore(t)

	m, err := BuildMatrix(nil, s)
	require.NoError(t, err)
	require.Contains(t, m, "SPEC-89")
	e := m["SPEC-89"]
	assert.Equal(t, []string{"src/auth.py"}, e.Files)
	assert.Equal(t, []string{"TC-210"}, e.Tests)
	assert.True(t, e.Reviewed)
}

func TestAttachRequirements(t *testing.T) {
	m := Matrix{
		"SPEC-89": {Files: []string{"src/auth.py"}, Tests: []string{"TC-210"}},
	}
	reqs := []requirements.Requirement{
		{ID: "4242-uuid", Title: "Token refresh", Status: "implemented"},
		{ID: "9999-uuid", Title: "Audit log"},
	}
	mapping := map[string]string{"4242-uuid": "SPEC-89", "9999-uuid": "SPEC-104"}

	AttachRequirements(m, reqs, mapping)

	assert.Equal(t, "Token refresh", m["SPEC-89"].Title)
	// Requirements without code get an empty row so the gap is visible.
	require.Contains(t, m, "SPEC-104")
	assert.Equal(t, "Audit log", m["SPEC-104"].Title)
	assert.Empty(t, m["SPEC-104"].Files)

	md, err := RenderMatrix(m, "md")
	require.NoError(t, err)
	assert.Contains(t, md, "| SPEC-89: Token refresh |")
	assert.Contains(t, md, "| SPEC-104: Audit log | 0% | 0 | 0 | 0 | No tests |")
}

func TestRenderMatrix(t *testing.T) {
	m := Matrix{
		"SPEC-89": {Commits: []string{"abcd1234"}, Files: []string{"src/auth.py"}, Tests: []string{"TC-210"}, AIPercent: 100, Reviewed: true},
		"SPEC-90": {Commits: []string{"ffff0000"}, AIPercent: 100},
	}

	md, err := RenderMatrix(m, "md")
	require.NoError(t, err)
	assert.Contains(t, md, "| SPEC-89 | 100% | 1 | 1 | 1 | Reviewed |")
	assert.Contains(t, md, "| SPEC-90 | 100% | 1 | 0 | 0 | No tests |")

	jsonOut, err := RenderMatrix(m, "json")
	require.NoError(t, err)
	var decoded map[string]MatrixEntry
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &decoded))
	assert.Len(t, decoded, 2)

	htmlOut, err := RenderMatrix(m, "html")
	require.NoError(t, err)
	assert.Contains(t, htmlOut, "<td>SPEC-89</td>")

	_, err = RenderMatrix(m, "csv")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := seededStore(t)

	errs, err := Validate(nil, s, ValidateOptions{})
	require.NoError(t, err)
	// copilot hunk has no confidence.
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "src/auth.py:40")
	assert.Contains(t, errs[0], "Missing confidence")

	errs, err = Validate(nil, s, ValidateOptions{RequireReview: true})
	require.NoError(t, err)
	assert.Len(t, errs, 3) // missing confidence + two unreviewed hunks

	errs, err = Validate(nil, s, ValidateOptions{RequireTests: true})
	require.NoError(t, err)
	assert.Len(t, errs, 1) // SPEC-89 hunk has tests, nothing else is traced
}

func TestFileReportFormats(t *testing.T) {
	data := &FileData{
		File:     "src/auth.py",
		Revision: "HEAD",
		Meta: &meta.FileMeta{
			File:       "src/auth.py",
			AITool:     tag.ToolClaude,
			Confidence: tag.ConfidenceHigh,
			ReviewedBy: "alice@example.com",
			Trace:      []string{"SPEC-89"},
			Blocks: []meta.BlockMeta{
				{Kind: meta.KindFunction, Name: "refresh_token", Lines: [2]int{42, 68}, AI: true},
				{Kind: meta.KindFunction, Name: "helper", Lines: [2]int{1, 41}},
			},
		},
		Inline: []tag.Located{{Line: 42, Record: tag.Record{Tool: tag.ToolClaude, Confidence: tag.ConfidenceHigh}}},
		Hunks:  []tag.Hunk{{Start: 42, End: 68, Record: tag.Record{Tool: tag.ToolClaude, Confidence: tag.ConfidenceHigh}}},
	}

	text, err := FileReport(data, FormatText)
	require.NoError(t, err)
	assert.Contains(t, text, "AI Metadata Report: src/auth.py @ HEAD")
	assert.Contains(t, text, "AI Tool:     claude")
	assert.Contains(t, text, "lines 42-68")

	md, err := FileReport(data, FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, md, "# AI Metadata Report: src/auth.py")
	assert.Contains(t, md, "**refresh_token** (function, lines 42-68) AI")
	assert.Contains(t, md, "**helper** (function, lines 1-41) Human")

	jsonOut, err := FileReport(data, FormatJSON)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &decoded))
	assert.Equal(t, "src/auth.py", decoded["file"])
}
