package report

import (
	"fmt"
	"sort"
	"strings"

	"aiprov/internal/gitx"
	"aiprov/internal/store"
)

// AIPercent formats repository-wide AI line coverage from the scan store.
// With byFile set, the files with the highest coverage are listed too.
func AIPercent(s store.Store, byFile bool) (string, error) {
	stats, err := s.AIStats()
	if err != nil {
		return "", fmt.Errorf("stats: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "AI-Generated Code: %.2f%%\n", stats.AIPercent())
	fmt.Fprintf(&b, "  Total lines: %d\n", stats.TotalLines)
	fmt.Fprintf(&b, "  AI lines: %d\n", stats.AILines)
	for _, ts := range stats.ByTool {
		fmt.Fprintf(&b, "  %-8s %d hunks, %d lines\n", ts.Tool, ts.Hunks, ts.Lines)
	}

	if byFile {
		files, err := s.FileStats()
		if err != nil {
			return "", fmt.Errorf("file stats: %w", err)
		}
		type row struct {
			path    string
			ai      int
			total   int
			percent float64
		}
		rows := make([]row, 0, len(files))
		for _, fh := range files {
			ai := 0
			for _, h := range fh.Hunks {
				ai += h.Lines()
			}
			r := row{path: fh.File.Path, ai: ai, total: fh.File.LineCount}
			if r.total > 0 {
				r.percent = 100 * float64(r.ai) / float64(r.total)
			}
			rows = append(rows, r)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].percent > rows[j].percent })

		b.WriteString("\nBy File:\n")
		for i, r := range rows {
			if i == 20 {
				break
			}
			fmt.Fprintf(&b, "  %s: %.1f%% (%d/%d)\n", r.path, r.percent, r.ai, r.total)
		}
	}
	return b.String(), nil
}

// Unreviewed lists AI commits without a reviewer and AI hunks without a
// reviewed field.
func Unreviewed(repo *gitx.Repo, s store.Store) (string, error) {
	var b strings.Builder
	found := false

	if commits, err := noteCommits(repo); err == nil {
		var missing []gitx.NotedCommit
		for _, c := range commits {
			if c.Meta.ReviewedBy == "" {
				missing = append(missing, c)
			}
		}
		if len(missing) > 0 {
			found = true
			fmt.Fprintf(&b, "Found %d unreviewed AI commits:\n\n", len(missing))
			for _, c := range missing {
				info, err := repo.Describe(c.SHA)
				if err != nil {
					fmt.Fprintf(&b, "  %.8s [%s]\n", c.SHA, orDefault(string(c.Meta.Tool), "unknown"))
					continue
				}
				fmt.Fprintf(&b, "  %.8s (%s) [%s] %s\n",
					c.SHA, info.Date, orDefault(string(c.Meta.Tool), "unknown"), info.Subject)
			}
		}
	}

	files, err := s.Unreviewed()
	if err != nil {
		return "", fmt.Errorf("unreviewed hunks: %w", err)
	}
	if len(files) > 0 {
		found = true
		b.WriteString("\nUnreviewed AI hunks:\n\n")
		for _, fh := range files {
			for _, h := range fh.Hunks {
				fmt.Fprintf(&b, "  %s:%d-%d [%s]\n", fh.File.Path, h.StartLine, h.EndLine, h.Tool)
			}
		}
	}

	if !found {
		return "No unreviewed AI code found", nil
	}
	return b.String(), nil
}

// Trace lists the commits and files implementing a requirement.
func Trace(repo *gitx.Repo, s store.Store, traceID string) (string, error) {
	var b strings.Builder
	found := false

	if commits, err := noteCommits(repo); err == nil {
		var matched []gitx.NotedCommit
		for _, c := range commits {
			for _, tr := range c.Meta.Trace {
				if tr == traceID {
					matched = append(matched, c)
					break
				}
			}
		}
		if len(matched) > 0 {
			found = true
			fmt.Fprintf(&b, "Commits for %s:\n\n", traceID)
			for _, c := range matched {
				if info, err := repo.Describe(c.SHA); err == nil {
					fmt.Fprintf(&b, "  %.8s (%s) %s\n", c.SHA, info.Date, info.Subject)
				} else {
					fmt.Fprintf(&b, "  %.8s\n", c.SHA)
				}
				for _, f := range c.Meta.Files {
					fmt.Fprintf(&b, "    - %s\n", f)
				}
			}
		}
	}

	files, err := s.ByTrace(traceID)
	if err != nil {
		return "", fmt.Errorf("trace hunks: %w", err)
	}
	if len(files) > 0 {
		found = true
		fmt.Fprintf(&b, "\nHunks for %s:\n\n", traceID)
		for _, fh := range files {
			for _, h := range fh.Hunks {
				fmt.Fprintf(&b, "  %s:%d-%d [%s]\n", fh.File.Path, h.StartLine, h.EndLine, h.Tool)
			}
		}
	}

	if !found {
		return fmt.Sprintf("No commits found for %s", traceID), nil
	}
	return b.String(), nil
}

// noteCommits tolerates a nil repo so store-only queries still work outside
// a git checkout.
func noteCommits(repo *gitx.Repo) ([]gitx.NotedCommit, error) {
	if repo == nil {
		return nil, nil
	}
	return repo.AICommits()
}
