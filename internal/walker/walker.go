// Package walker discovers taggable source files under a repository root.
package walker

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// FileInfo holds metadata about a discovered source file.
type FileInfo struct {
	Path    string
	RelPath string
	Ext     string
	Size    int64
}

// maxFileSize is the largest file we'll consider (1 MB).
const maxFileSize = 1 << 20

// IgnoreFile holds the patterns excluded from scanning, gitignore syntax.
const IgnoreFile = ".aiprovignore"

// defaultIgnores are used when no .aiprovignore file exists.
var defaultIgnores = []string{
	".git/",
	".svn/",
	".hg/",
	"node_modules/",
	"vendor/",
	"__pycache__/",
	".idea/",
	".vscode/",
	".ai-prov/",
	"dist/",
	"build/",
}

// Walk traverses the directory tree rooted at root and sends discovered
// source files on the returned channel. It only emits files whose extension
// is in allowedExts, and skips paths matching .aiprovignore patterns.
func Walk(root string, allowedExts map[string]bool) (<-chan FileInfo, <-chan error) {
	files := make(chan FileInfo, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			errs <- err
			return
		}

		matcher := loadIgnoreMatcher(absRoot)

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip errors, keep walking
			}

			rel, _ := filepath.Rel(absRoot, path)
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if path == absRoot {
					return nil
				}
				if matcher.MatchesPath(rel + "/") {
					return filepath.SkipDir
				}
				return nil
			}

			// Skip symlinks.
			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}

			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
			if !allowedExts[ext] {
				return nil
			}
			if matcher.MatchesPath(rel) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}

			// Skip large or empty files.
			if info.Size() > maxFileSize || info.Size() == 0 {
				return nil
			}

			files <- FileInfo{
				Path:    path,
				RelPath: rel,
				Ext:     ext,
				Size:    info.Size(),
			}
			return nil
		})
		if err != nil {
			errs <- err
		}
	}()

	return files, errs
}

// loadIgnoreMatcher reads .aiprovignore from the project root. If the file
// doesn't exist, it creates one with the default patterns.
func loadIgnoreMatcher(root string) *ignore.GitIgnore {
	ignorePath := filepath.Join(root, IgnoreFile)

	f, err := os.Open(ignorePath)
	if err != nil {
		createDefaultIgnoreFile(ignorePath)
		return ignore.CompileIgnoreLines(defaultIgnores...)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if len(patterns) == 0 {
		return ignore.CompileIgnoreLines(defaultIgnores...)
	}
	return ignore.CompileIgnoreLines(patterns...)
}

func createDefaultIgnoreFile(path string) {
	var b strings.Builder
	b.WriteString("# Paths to exclude from provenance scanning.\n")
	b.WriteString("# Gitignore syntax, one pattern per line.\n\n")
	for _, p := range defaultIgnores {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	// Best-effort write; if it fails the defaults are still used in memory.
	os.WriteFile(path, []byte(b.String()), 0o644)
}
