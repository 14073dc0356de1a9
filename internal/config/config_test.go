package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialOverride(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, Dir), 0o755))
	data := `[tagging]
default_tool = "copilot"
position = "bottom"

[git]
reviewer = "alice@example.com"
`
	require.NoError(t, os.WriteFile(Path(root), []byte(data), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "copilot", cfg.Tagging.DefaultTool)
	assert.Equal(t, "bottom", cfg.Tagging.Position)
	assert.Equal(t, "alice@example.com", cfg.Git.Reviewer)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "med", cfg.Tagging.DefaultConfidence)
	assert.Equal(t, "ai-provenance", cfg.Git.NotesRef)
}

func TestLoadRejectsBadValues(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, Dir), 0o755))
	data := `[tagging]
default_tool = "skynet"
`
	require.NoError(t, os.WriteFile(Path(root), []byte(data), 0o644))

	_, err := Load(root)
	assert.Error(t, err)
}

func TestLoadRejectsBadPosition(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, Dir), 0o755))
	require.NoError(t, os.WriteFile(Path(root), []byte("[tagging]\nposition = \"middle\"\n"), 0o644))

	_, err := Load(root)
	assert.ErrorContains(t, err, "position")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Tagging.DefaultTool = "gemini"
	cfg.Scan.Extensions = []string{"py", "go"}
	require.NoError(t, Save(root, cfg))

	got, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
