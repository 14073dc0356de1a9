// Package gitx wraps the git plumbing this tool needs: commits, notes in the
// ai-provenance namespace, file content at a revision, and hook installation.
// Everything shells out to the git binary; there is no libgit dependency.
package gitx

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Repo is a handle to a git working tree.
type Repo struct {
	Root string
	// NotesRef overrides the provenance notes namespace when non-empty.
	NotesRef string
}

// Open locates the repository containing dir and returns a handle rooted at
// its top level.
func Open(dir string) (*Repo, error) {
	if dir == "" {
		dir = "."
	}
	out, err := runGit(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("not a git repository (or git not installed): %w", err)
	}
	return &Repo{Root: strings.TrimSpace(out)}, nil
}

func (r *Repo) git(args ...string) (string, error) {
	return runGit(r.Root, args...)
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return stdout.String(), nil
}

// LsFiles returns all tracked paths, relative to the repo root.
func (r *Repo) LsFiles() ([]string, error) {
	out, err := r.git("ls-files")
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// ShowFile returns the content of path at the given revision.
func (r *Repo) ShowFile(rev, path string) (string, error) {
	out, err := r.git("show", rev+":"+path)
	if err != nil {
		return "", fmt.Errorf("file %s not found at revision %s: %w", path, rev, err)
	}
	return out, nil
}

// Head returns the SHA of the current HEAD commit.
func (r *Repo) Head() (string, error) {
	out, err := r.git("rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ResolveRev resolves a revision expression to a full SHA.
func (r *Repo) ResolveRev(rev string) (string, error) {
	out, err := r.git("rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("unknown revision %q: %w", rev, err)
	}
	return strings.TrimSpace(out), nil
}

// CommitInfo is the short description of a commit used in reports.
type CommitInfo struct {
	SHA     string
	Date    string // YYYY-MM-DD committer date
	Subject string
}

// Describe returns the short info for a commit.
func (r *Repo) Describe(sha string) (CommitInfo, error) {
	out, err := r.git("show", "-s", "--format=%H%x00%cs%x00%s", sha)
	if err != nil {
		return CommitInfo{}, err
	}
	parts := strings.SplitN(strings.TrimRight(out, "\n"), "\x00", 3)
	if len(parts) != 3 {
		return CommitInfo{}, fmt.Errorf("unexpected git show output for %s", sha)
	}
	return CommitInfo{SHA: parts[0], Date: parts[1], Subject: parts[2]}, nil
}
