package gitx

import (
	"strings"
)

// CommitMessage is a commit message parsed against the provenance
// convention:
//
//	[AI:tool:conf] type(scope): subject
//	Trace: SPEC-123, SPEC-456
//	Test: TC-789
//	Reviewed-by: AI+alice@example.com
type CommitMessage struct {
	Raw        string
	AITag      string // "AI:claude:high", brackets stripped
	Type       string // conventional commit type: feat, fix, ...
	Scope      string
	Subject    string
	Trace      []string
	Tests      []string
	ReviewedBy string
}

// ParseCommitMessage parses a commit message. Every field is best-effort:
// a message with none of the conventions still parses, with Subject set to
// its first line.
func ParseCommitMessage(message string) CommitMessage {
	lines := strings.Split(strings.TrimSpace(message), "\n")
	first := ""
	if len(lines) > 0 {
		first = lines[0]
	}

	msg := CommitMessage{Raw: message, Subject: first}

	// [AI:tool:conf] prefix.
	if strings.HasPrefix(first, "[AI:") {
		if end := strings.IndexByte(first, ']'); end > 0 {
			msg.AITag = first[1:end]
			first = strings.TrimSpace(first[end+1:])
			msg.Subject = first
		}
	}

	// type(scope): subject.
	if prefix, subject, ok := strings.Cut(first, ":"); ok {
		msg.Subject = strings.TrimSpace(subject)
		prefix = strings.TrimSpace(prefix)
		if open := strings.IndexByte(prefix, '('); open >= 0 && strings.HasSuffix(prefix, ")") {
			msg.Type = strings.TrimSpace(prefix[:open])
			msg.Scope = strings.TrimSpace(prefix[open+1 : len(prefix)-1])
		} else {
			msg.Type = prefix
		}
	}

	// Footer metadata.
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Trace:"):
			msg.Trace = splitCSV(strings.TrimPrefix(line, "Trace:"))
		case strings.HasPrefix(line, "Test:"):
			msg.Tests = splitCSV(strings.TrimPrefix(line, "Test:"))
		case strings.HasPrefix(line, "Reviewed-by:"):
			msg.ReviewedBy = strings.TrimSpace(strings.TrimPrefix(line, "Reviewed-by:"))
		}
	}

	return msg
}

// BuildCommitMessage renders a subject plus provenance meta into the
// conventional message format. A subject that already carries an [AI:...]
// tag is kept as is.
func BuildCommitMessage(subject string, meta CommitMeta) string {
	first := subject
	if meta.Tool != "" && !strings.HasPrefix(strings.TrimSpace(subject), "[AI:") {
		conf := meta.Confidence
		if conf == "" {
			conf = "med"
		}
		first = "[AI:" + string(meta.Tool) + ":" + string(conf) + "] " + subject
	}

	var footers []string
	if len(meta.Trace) > 0 {
		footers = append(footers, "Trace: "+strings.Join(meta.Trace, ", "))
	}
	if len(meta.Tests) > 0 {
		footers = append(footers, "Test: "+strings.Join(meta.Tests, ", "))
	}
	if meta.ReviewedBy != "" {
		reviewer := meta.ReviewedBy
		if !strings.HasPrefix(reviewer, "AI+") {
			reviewer = "AI+" + reviewer
		}
		footers = append(footers, "Reviewed-by: "+reviewer)
	}
	if len(footers) == 0 {
		return first
	}

	// The blank line keeps the footers out of the subject: git's %s stops
	// at the first paragraph.
	return first + "\n\n" + strings.Join(footers, "\n")
}

func splitCSV(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
