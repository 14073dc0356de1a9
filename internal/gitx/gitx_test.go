package gitx

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a throwaway git repository with one committed file.
func initRepo(t *testing.T) *Repo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()

	mustGit(t, dir, "init", "-q")
	mustGit(t, dir, "config", "user.name", "Test")
	mustGit(t, dir, "config", "user.email", "test@example.com")

	writeFile(t, dir, "app.py", "# ai:claude:high\nprint('hi')\n")
	mustGit(t, dir, "add", ".")
	mustGit(t, dir, "commit", "-q", "-m", "initial")

	repo, err := Open(dir)
	require.NoError(t, err)
	return repo
}

func mustGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestOpenOutsideRepo(t *testing.T) {
	_, err := Open(os.TempDir())
	assert.Error(t, err)
}

func TestLsFilesAndShowFile(t *testing.T) {
	repo := initRepo(t)

	paths, err := repo.LsFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py"}, paths)

	content, err := repo.ShowFile("HEAD", "app.py")
	require.NoError(t, err)
	assert.Contains(t, content, "ai:claude:high")

	_, err = repo.ShowFile("HEAD", "missing.py")
	assert.Error(t, err)
}

func TestResolveRevAndDescribe(t *testing.T) {
	repo := initRepo(t)

	head, err := repo.Head()
	require.NoError(t, err)

	sha, err := repo.ResolveRev("HEAD")
	require.NoError(t, err)
	assert.Equal(t, head, sha)

	_, err = repo.ResolveRev("no-such-branch")
	assert.Error(t, err)

	info, err := repo.Describe(head)
	require.NoError(t, err)
	assert.Equal(t, head, info.SHA)
	assert.Equal(t, "initial", info.Subject)
	assert.Len(t, info.Date, len("2006-01-02"))
}

func TestNotesRoundTrip(t *testing.T) {
	repo := initRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)

	// No note yet.
	got, err := repo.GetNote(head)
	require.NoError(t, err)
	assert.Nil(t, got)

	meta := CommitMeta{
		Tool:       "claude",
		Confidence: "high",
		Trace:      []string{"SPEC-1", "SPEC-2"},
		Tests:      []string{"TC-9"},
		ReviewedBy: "alice",
	}
	require.NoError(t, repo.SetNote(head, meta))

	got, err = repo.GetNote(head)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, meta.Tool, got.Tool)
	assert.Equal(t, meta.Trace, got.Trace)
	assert.Equal(t, "alice", got.ReviewedBy)

	shas, err := repo.ListNoted()
	require.NoError(t, err)
	assert.Equal(t, []string{head}, shas)

	commits, err := repo.AICommits()
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, head, commits[0].SHA)
	assert.Equal(t, meta.Tests, commits[0].Meta.Tests)

	require.NoError(t, repo.RemoveNote(head))
	got, err = repo.GetNote(head)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNotesRefOverride(t *testing.T) {
	repo := initRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)

	repo.NotesRef = "team-provenance"
	require.NoError(t, repo.SetNote(head, CommitMeta{Tool: "claude"}))

	got, err := repo.GetNote(head)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, "claude", got.Tool)

	// The default namespace was never touched.
	repo.NotesRef = ""
	got, err = repo.GetNote(head)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInstallHooksUsesNotesRef(t *testing.T) {
	repo := initRepo(t)
	repo.NotesRef = "team-provenance"

	_, err := repo.InstallHooks()
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(repo.Root, ".git", "hooks", "post-commit"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "--ref=team-provenance")
	assert.Contains(t, string(data), "--format=%s")
}

func TestSetNoteOverwrites(t *testing.T) {
	repo := initRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)

	require.NoError(t, repo.SetNote(head, CommitMeta{Tool: "claude"}))
	require.NoError(t, repo.SetNote(head, CommitMeta{Tool: "gemini"}))

	got, err := repo.GetNote(head)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, "gemini", got.Tool)
}

func TestCommitAttachesNote(t *testing.T) {
	repo := initRepo(t)
	writeFile(t, repo.Root, "app.py", "# ai:claude:high\nprint('bye')\n")

	meta := CommitMeta{
		Tool:       "claude",
		Confidence: "med",
		Trace:      []string{"SPEC-3"},
		ReviewedBy: "bob",
	}
	sha, err := repo.Commit("rewrite greeting", meta)
	require.NoError(t, err)

	info, err := repo.Describe(sha)
	require.NoError(t, err)
	assert.Equal(t, "[AI:claude:med] rewrite greeting", info.Subject)

	got, err := repo.GetNote(sha)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "bob", got.ReviewedBy)
	require.NotNil(t, got.ReviewedAt)
	assert.WithinDuration(t, time.Now().UTC(), *got.ReviewedAt, time.Minute)
}

func TestCommitWithoutMetaSkipsNote(t *testing.T) {
	repo := initRepo(t)
	writeFile(t, repo.Root, "app.py", "print('plain')\n")

	sha, err := repo.Commit("plain change", CommitMeta{})
	require.NoError(t, err)

	info, err := repo.Describe(sha)
	require.NoError(t, err)
	assert.Equal(t, "plain change", info.Subject)

	got, err := repo.GetNote(sha)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInstallHooks(t *testing.T) {
	repo := initRepo(t)

	installed, err := repo.InstallHooks()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"commit-msg", "post-commit"}, installed)
	assert.True(t, repo.IsInitialized())

	for _, name := range installed {
		data, err := os.ReadFile(filepath.Join(repo.Root, ".git", "hooks", name))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "#!/bin/sh"))
	}

	// Re-install is a no-op, not a backup storm.
	_, err = repo.InstallHooks()
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(repo.Root, ".git", "hooks", "commit-msg.backup"))
	assert.True(t, os.IsNotExist(err))
}

func TestInstallHooksBacksUpForeignHook(t *testing.T) {
	repo := initRepo(t)
	hookPath := filepath.Join(repo.Root, ".git", "hooks", "commit-msg")
	require.NoError(t, os.WriteFile(hookPath, []byte("#!/bin/sh\necho custom\n"), 0o755))

	_, err := repo.InstallHooks()
	require.NoError(t, err)

	backup, err := os.ReadFile(hookPath + ".backup")
	require.NoError(t, err)
	assert.Contains(t, string(backup), "echo custom")
}

func TestEnsureGitAttributes(t *testing.T) {
	repo := initRepo(t)

	added, err := repo.EnsureGitAttributes()
	require.NoError(t, err)
	assert.Equal(t, len(attributePatterns), added)

	// Second run adds nothing.
	added, err = repo.EnsureGitAttributes()
	require.NoError(t, err)
	assert.Zero(t, added)

	data, err := os.ReadFile(filepath.Join(repo.Root, ".gitattributes"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "*.py ai-prov=track")
}

func TestEnsureGitAttributesKeepsExisting(t *testing.T) {
	repo := initRepo(t)
	existing := "*.bin binary\n*.py ai-prov=track\n"
	require.NoError(t, os.WriteFile(filepath.Join(repo.Root, ".gitattributes"), []byte(existing), 0o644))

	added, err := repo.EnsureGitAttributes()
	require.NoError(t, err)
	assert.Equal(t, len(attributePatterns)-1, added)

	data, err := os.ReadFile(filepath.Join(repo.Root, ".gitattributes"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "*.bin binary")
	assert.Equal(t, 1, strings.Count(string(data), "*.py ai-prov=track"))
}
