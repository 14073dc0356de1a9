package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiprov/internal/comment"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func collect(t *testing.T, root string) []string {
	t.Helper()
	files, errs := Walk(root, comment.Extensions())

	var rels []string
	for fi := range files {
		rels = append(rels, fi.RelPath)
	}
	require.NoError(t, <-errs)
	sort.Strings(rels)
	return rels
}

func TestWalkFiltersByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "x = 1\n")
	writeFile(t, root, "sub/b.go", "package sub\n")
	writeFile(t, root, "c.bin", "data\n")
	writeFile(t, root, "README", "hi\n")

	got := collect(t, root)
	assert.Equal(t, []string{"a.py", "sub/b.go"}, got)
}

func TestWalkSkipsIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.py", "x\n")
	writeFile(t, root, "node_modules/dep/index.js", "x\n")
	writeFile(t, root, ".git/hooks/pre-commit.sh", "x\n")
	writeFile(t, root, "vendor/lib.go", "x\n")

	got := collect(t, root)
	assert.Equal(t, []string{"keep.py"}, got)
}

func TestWalkHonorsCustomIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, IgnoreFile, "generated/\n*.sql\n")
	writeFile(t, root, "main.py", "x\n")
	writeFile(t, root, "generated/gen.py", "x\n")
	writeFile(t, root, "schema.sql", "SELECT 1;\n")

	got := collect(t, root)
	assert.Equal(t, []string{"main.py"}, got)
}

func TestWalkCreatesDefaultIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "x\n")

	collect(t, root)

	data, err := os.ReadFile(filepath.Join(root, IgnoreFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "node_modules/")
}

func TestWalkSkipsEmptyFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "empty.py", "")
	writeFile(t, root, "full.py", "x\n")

	got := collect(t, root)
	assert.Equal(t, []string{"full.py"}, got)
}
