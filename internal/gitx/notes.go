package gitx

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aiprov/internal/tag"
)

// NotesRef is the default git notes namespace for provenance metadata.
const NotesRef = "ai-provenance"

// notesRef returns the namespace in effect for this repo.
func (r *Repo) notesRef() string {
	if r.NotesRef != "" {
		return r.NotesRef
	}
	return NotesRef
}

// CommitMeta is the structured provenance metadata stored in a git note.
type CommitMeta struct {
	Tool       tag.Tool       `json:"ai_tool,omitempty"`
	Confidence tag.Confidence `json:"confidence,omitempty"`
	Trace      []string       `json:"trace,omitempty"`
	Tests      []string       `json:"tests,omitempty"`
	ReviewedBy string         `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time     `json:"reviewed_at,omitempty"`
	Files      []string       `json:"files,omitempty"`
}

// Empty reports whether the meta carries no provenance at all.
func (m CommitMeta) Empty() bool {
	return m.Tool == "" && m.Confidence == "" && len(m.Trace) == 0 &&
		len(m.Tests) == 0 && m.ReviewedBy == "" && len(m.Files) == 0
}

// SetNote attaches (or overwrites) the provenance note on a commit.
func (r *Repo) SetNote(sha string, meta CommitMeta) error {
	payload, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal note: %w", err)
	}
	if _, err := r.git("notes", "--ref="+r.notesRef(), "add", "-f", "-m", string(payload), sha); err != nil {
		return fmt.Errorf("add note: %w", err)
	}
	return nil
}

// GetNote returns the provenance note for a commit, or nil when the commit
// has none. A note that exists but is not valid JSON is reported as an
// error rather than silently dropped.
func (r *Repo) GetNote(sha string) (*CommitMeta, error) {
	out, err := r.git("notes", "--ref="+r.notesRef(), "show", sha)
	if err != nil {
		return nil, nil // no note
	}
	var meta CommitMeta
	if err := json.Unmarshal([]byte(out), &meta); err != nil {
		return nil, fmt.Errorf("note on %s is not valid JSON: %w", sha, err)
	}
	return &meta, nil
}

// RemoveNote deletes the provenance note for a commit, if any.
func (r *Repo) RemoveNote(sha string) error {
	_, err := r.git("notes", "--ref="+r.notesRef(), "remove", "--ignore-missing", sha)
	return err
}

// ListNoted returns the SHAs of all commits carrying a provenance note.
func (r *Repo) ListNoted() ([]string, error) {
	out, err := r.git("notes", "--ref="+r.notesRef(), "list")
	if err != nil {
		return nil, nil // namespace doesn't exist yet
	}
	var shas []string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		// Format: <note-sha> <commit-sha>
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			shas = append(shas, fields[1])
		}
	}
	return shas, nil
}

// NotedCommit pairs a commit SHA with its decoded provenance note.
type NotedCommit struct {
	SHA  string
	Meta CommitMeta
}

// AICommits returns every commit with a valid provenance note, in the order
// git lists them. Commits whose notes fail to decode are skipped: notes are
// organic repository content and must not break reporting.
func (r *Repo) AICommits() ([]NotedCommit, error) {
	shas, err := r.ListNoted()
	if err != nil {
		return nil, err
	}
	var commits []NotedCommit
	for _, sha := range shas {
		meta, err := r.GetNote(sha)
		if err != nil || meta == nil {
			continue
		}
		commits = append(commits, NotedCommit{SHA: sha, Meta: *meta})
	}
	return commits, nil
}

// Commit stages modified tracked files, creates a commit with a structured
// provenance message, and attaches a note when the meta is non-empty.
// Returns the new commit's SHA.
func (r *Repo) Commit(subject string, meta CommitMeta) (string, error) {
	message := BuildCommitMessage(subject, meta)

	if _, err := r.git("add", "-u"); err != nil {
		return "", fmt.Errorf("stage changes: %w", err)
	}
	if _, err := r.git("commit", "-m", message); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	sha, err := r.Head()
	if err != nil {
		return "", err
	}

	if !meta.Empty() {
		if meta.ReviewedBy != "" && meta.ReviewedAt == nil {
			now := time.Now().UTC()
			meta.ReviewedAt = &now
		}
		if err := r.SetNote(sha, meta); err != nil {
			return sha, err
		}
	}
	return sha, nil
}
