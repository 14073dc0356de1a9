package report

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"

	"aiprov/internal/gitx"
	"aiprov/internal/requirements"
	"aiprov/internal/store"
)

// MatrixEntry aggregates everything linked to one requirement ID.
type MatrixEntry struct {
	Title     string   `json:"title,omitempty"`
	Commits   []string `json:"commits"`
	Files     []string `json:"files"`
	Tests     []string `json:"tests"`
	AIPercent float64  `json:"ai_percent"`
	Reviewed  bool     `json:"reviewed"`
}

// Matrix maps requirement IDs to their traceability data.
type Matrix map[string]*MatrixEntry

// BuildMatrix collects trace data from commit notes and scanned hunks.
func BuildMatrix(repo *gitx.Repo, s store.Store) (Matrix, error) {
	m := Matrix{}
	entry := func(id string) *MatrixEntry {
		e, ok := m[id]
		if !ok {
			e = &MatrixEntry{}
			m[id] = e
		}
		return e
	}

	commits, err := noteCommits(repo)
	if err == nil {
		aiCount := map[string]int{}
		for _, c := range commits {
			for _, id := range c.Meta.Trace {
				e := entry(id)
				e.Commits = append(e.Commits, c.SHA[:8])
				e.Files = mergeSorted(e.Files, c.Meta.Files)
				e.Tests = mergeSorted(e.Tests, c.Meta.Tests)
				if c.Meta.ReviewedBy != "" {
					e.Reviewed = true
				}
				if c.Meta.Tool != "" {
					aiCount[id]++
				}
			}
		}
		for id, e := range m {
			if n := len(e.Commits); n > 0 {
				e.AIPercent = 100 * float64(aiCount[id]) / float64(n)
			}
		}
	}

	// Inline hunks contribute files and tests even without commit notes.
	if s != nil {
		files, err := s.FileStats()
		if err != nil {
			return nil, fmt.Errorf("file stats: %w", err)
		}
		for _, fh := range files {
			for _, h := range fh.Hunks {
				for _, id := range h.Trace {
					e := entry(id)
					e.Files = mergeSorted(e.Files, []string{fh.File.Path})
					e.Tests = mergeSorted(e.Tests, h.Tests)
					if h.Reviewed != "" {
						e.Reviewed = true
					}
				}
			}
		}
	}
	return m, nil
}

// AttachRequirements annotates matrix entries with requirement titles and
// adds rows for requirements nothing traces to yet, so coverage gaps show
// up instead of silently vanishing from the table.
func AttachRequirements(m Matrix, reqs []requirements.Requirement, mapping map[string]string) {
	for id, e := range m {
		if req, ok := requirements.BySpecID(reqs, mapping, id); ok {
			e.Title = req.Title
		}
	}
	for _, req := range reqs {
		id := requirements.SpecIDFor(mapping, req.ID)
		if _, ok := m[id]; !ok {
			m[id] = &MatrixEntry{Title: req.Title}
		}
	}
}

// RenderMatrix formats the matrix as md, json, or html.
func RenderMatrix(m Matrix, format string) (string, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case "html":
		return matrixHTML(m), nil
	case "", "md":
		return matrixMarkdown(m), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected md, json, or html)", format)
	}
}

func matrixMarkdown(m Matrix) string {
	var b strings.Builder
	b.WriteString("# Traceability Matrix\n\n")
	b.WriteString("| Feature | AI % | Commits | Files | Tests | Status |\n")
	b.WriteString("|---------|------|---------|-------|-------|--------|\n")

	for _, id := range sortedKeys(m) {
		e := m[id]
		fmt.Fprintf(&b, "| %s | %.0f%% | %d | %d | %d | %s |\n",
			featureLabel(id, e), e.AIPercent, len(e.Commits), len(e.Files), len(e.Tests), matrixStatus(e))
	}

	b.WriteString("\n## Legend\n")
	b.WriteString("- **AI %**: Percentage of commits that used AI tools\n")
	b.WriteString("- **Commits**: Number of commits implementing this feature\n")
	b.WriteString("- **Files**: Number of files affected\n")
	b.WriteString("- **Tests**: Number of test cases covering this feature\n")
	return b.String()
}

func featureLabel(id string, e *MatrixEntry) string {
	if e.Title == "" {
		return id
	}
	return id + ": " + e.Title
}

func matrixStatus(e *MatrixEntry) string {
	switch {
	case len(e.Tests) == 0:
		return "No tests"
	case e.AIPercent > 0 && e.Reviewed:
		return "Reviewed"
	case e.AIPercent > 0:
		return "Needs review"
	default:
		return "Complete"
	}
}

func matrixHTML(m Matrix) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
  <title>Traceability Matrix</title>
  <style>
    table { border-collapse: collapse; width: 100%; }
    th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
    th { background-color: #4CAF50; color: white; }
    tr:nth-child(even) { background-color: #f2f2f2; }
  </style>
</head>
<body>
  <h1>Traceability Matrix</h1>
  <table>
    <tr><th>Feature</th><th>AI %</th><th>Commits</th><th>Files</th><th>Tests</th><th>Status</th></tr>
`)
	for _, id := range sortedKeys(m) {
		e := m[id]
		fmt.Fprintf(&b, "    <tr><td>%s</td><td>%.0f%%</td><td>%d</td><td>%d</td><td>%d</td><td>%s</td></tr>\n",
			html.EscapeString(featureLabel(id, e)), e.AIPercent, len(e.Commits), len(e.Files), len(e.Tests), matrixStatus(e))
	}
	b.WriteString("  </table>\n</body>\n</html>\n")
	return b.String()
}

// mergeSorted unions two string sets, keeping the result sorted.
func mergeSorted(dst, add []string) []string {
	seen := make(map[string]bool, len(dst)+len(add))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range add {
		if v != "" {
			seen[v] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
