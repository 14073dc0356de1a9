package report

import (
	"fmt"

	"aiprov/internal/gitx"
	"aiprov/internal/store"
)

// ValidateOptions selects which validation rules to apply. Basic integrity
// checks always run.
type ValidateOptions struct {
	RequireReview bool
	RequireTests  bool
}

// Validate checks provenance integrity across commit notes and scanned
// hunks. It returns one message per violation; an empty slice means the
// repository passes.
func Validate(repo *gitx.Repo, s store.Store, opts ValidateOptions) ([]string, error) {
	var errs []string

	if repo != nil {
		commits, err := repo.AICommits()
		if err != nil {
			return nil, fmt.Errorf("list AI commits: %w", err)
		}
		for _, c := range commits {
			subject := ""
			if info, err := repo.Describe(c.SHA); err == nil {
				subject = truncate(info.Subject, 50)
			}
			if opts.RequireReview && c.Meta.ReviewedBy == "" {
				errs = append(errs, fmt.Sprintf("Commit %.8s has AI code but no review: %s", c.SHA, subject))
			}
			if opts.RequireTests && len(c.Meta.Trace) > 0 && len(c.Meta.Tests) == 0 {
				errs = append(errs, fmt.Sprintf("Commit %.8s has traces but no test coverage: %s", c.SHA, subject))
			}
		}
	}

	files, err := s.FileStats()
	if err != nil {
		return nil, fmt.Errorf("file stats: %w", err)
	}
	for _, fh := range files {
		for _, h := range fh.Hunks {
			loc := fmt.Sprintf("%s:%d", fh.File.Path, h.StartLine)
			if h.Confidence == "" {
				errs = append(errs, loc+" - Missing confidence level")
			}
			if opts.RequireReview && h.Reviewed == "" {
				errs = append(errs, loc+" - AI code not reviewed")
			}
			if opts.RequireTests && len(h.Trace) > 0 && len(h.Tests) == 0 {
				errs = append(errs, loc+" - Traced code has no test coverage")
			}
		}
	}
	return errs, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
