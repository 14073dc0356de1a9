package prompts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiprov/internal/tag"
)

func TestSaveAssignsIDAndTimestamp(t *testing.T) {
	s := NewStore(t.TempDir())
	p, err := s.Save(Prompt{Text: "write a JWT refresh endpoint", Tool: tag.ToolClaude})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.False(t, p.Timestamp.IsZero())
	assert.Equal(t, TypeOther, p.Type)

	got, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Text, got.Text)
	assert.Equal(t, tag.ToolClaude, got.Tool)
}

func TestGetMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Get("does-not-exist")
	assert.ErrorContains(t, err, "not found")
}

func TestListNewestFirst(t *testing.T) {
	s := NewStore(t.TempDir())
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"oldest", "middle", "newest"} {
		_, err := s.Save(Prompt{Text: text, Tool: tag.ToolCursor, Timestamp: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "newest", all[0].Text)
	assert.Equal(t, "oldest", all[2].Text)
}

func TestListEmptyStore(t *testing.T) {
	s := NewStore(t.TempDir())
	all, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListForFile(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Save(Prompt{Text: "a", Tool: tag.ToolClaude, Files: []string{"src/auth.py"}})
	require.NoError(t, err)
	_, err = s.Save(Prompt{Text: "b", Tool: tag.ToolClaude, Files: []string{"src/db.py"}})
	require.NoError(t, err)

	got, err := s.ListForFile("src/auth.py")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Text)
}

func TestListForRequirement(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Save(Prompt{Text: "a", Tool: tag.ToolGemini, Requirements: []string{"SPEC-89"}})
	require.NoError(t, err)
	_, err = s.Save(Prompt{Text: "b", Tool: tag.ToolGemini, Requirements: []string{"SPEC-90", "SPEC-89"}})
	require.NoError(t, err)

	got, err := s.ListForRequirement("SPEC-89")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.ListForRequirement("SPEC-404")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseType(t *testing.T) {
	assert.Equal(t, TypeGenerate, ParseType("generate"))
	assert.Equal(t, TypeFix, ParseType(" Fix "))
	assert.Equal(t, TypeOther, ParseType("banana"))
}
