package gitx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// commitMsgHook warns when a commit message carries a malformed AI tag.
// Warning only: hooks must never block a commit over provenance formatting.
const commitMsgHook = `#!/bin/sh
# Installed by ai-prov init.
msg_file="$1"
first_line=$(head -n 1 "$msg_file")
case "$first_line" in
  \[AI:*\]*) ;;
  \[AI:*)
    echo "warning: unterminated [AI:...] tag in commit message" >&2
    ;;
esac
exit 0
`

// postCommitHook reminds the author to attach a provenance note when the
// commit message declares an AI tag but no note exists yet. The notes
// namespace is substituted on install.
const postCommitHook = `#!/bin/sh
# Installed by ai-prov init.
if git log -1 --format=%%s | grep -q '^\[AI:'; then
  if ! git notes --ref=%s show HEAD >/dev/null 2>&1; then
    echo "hint: AI-tagged commit has no provenance note; run 'ai-prov commit' next time" >&2
  fi
fi
exit 0
`

func (r *Repo) hookScripts() map[string]string {
	return map[string]string{
		"commit-msg":  commitMsgHook,
		"post-commit": fmt.Sprintf(postCommitHook, r.notesRef()),
	}
}

// InstallHooks writes the provenance git hooks, backing up any existing
// hook with the same name. Returns the names of the hooks it installed.
func (r *Repo) InstallHooks() ([]string, error) {
	hooksDir := filepath.Join(r.Root, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return nil, fmt.Errorf("create hooks dir: %w", err)
	}

	var installed []string
	for name, script := range r.hookScripts() {
		dst := filepath.Join(hooksDir, name)
		if data, err := os.ReadFile(dst); err == nil && string(data) != script {
			if err := os.WriteFile(dst+".backup", data, 0o755); err != nil {
				return installed, fmt.Errorf("back up %s hook: %w", name, err)
			}
		}
		if err := os.WriteFile(dst, []byte(script), 0o755); err != nil {
			return installed, fmt.Errorf("install %s hook: %w", name, err)
		}
		installed = append(installed, name)
	}
	return installed, nil
}

// attributePatterns are the file types whose tags the tooling tracks.
var attributePatterns = []string{
	"*.py ai-prov=track",
	"*.js ai-prov=track",
	"*.ts ai-prov=track",
	"*.tsx ai-prov=track",
	"*.jsx ai-prov=track",
	"*.java ai-prov=track",
	"*.c ai-prov=track",
	"*.cpp ai-prov=track",
	"*.h ai-prov=track",
	"*.go ai-prov=track",
	"*.rs ai-prov=track",
	"*.rb ai-prov=track",
	"*.php ai-prov=track",
}

// EnsureGitAttributes creates or extends .gitattributes with the tracked
// file patterns. Existing entries are left alone.
func (r *Repo) EnsureGitAttributes() (added int, err error) {
	path := filepath.Join(r.Root, ".gitattributes")

	existing := ""
	if data, readErr := os.ReadFile(path); readErr == nil {
		existing = string(data)
	}

	var missing []string
	for _, p := range attributePatterns {
		if !strings.Contains(existing, p) {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	var b strings.Builder
	b.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		b.WriteByte('\n')
	}
	if existing != "" {
		b.WriteString("\n# AI provenance tracking\n")
	} else {
		b.WriteString("# AI provenance tracking\n")
	}
	for _, p := range missing {
		b.WriteString(p)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return 0, fmt.Errorf("write .gitattributes: %w", err)
	}
	return len(missing), nil
}

// IsInitialized reports whether the provenance hooks are installed.
func (r *Repo) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.Root, ".git", "hooks", "commit-msg"))
	return err == nil
}
