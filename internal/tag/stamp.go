package tag

import (
	"fmt"
	"strings"

	"aiprov/internal/comment"
)

// Position controls where Stamp inserts a new tag line.
type Position string

const (
	Top    Position = "top"
	Bottom Position = "bottom"
)

// Stamp returns the file content with the record's tag inserted or replaced.
// It is a pure transform; writing the result back is the caller's problem.
//
// If the file already carries a tag for the same tool, only that line is
// rewritten, so stamping is idempotent and never duplicates a tag. Otherwise
// the encoded line is inserted at the requested position: Top goes after a
// leading shebang and an encoding declaration when present, Bottom appends
// after a single blank line.
//
// Unlike decoding, stamping validates its inputs loudly: the tool must be in
// the recognized set and the confidence must be one of the three levels,
// because here they are user-authored rather than organic file content.
func Stamp(content, ext string, rec Record, pos Position) (string, error) {
	if _, err := ParseToolStrict(string(rec.Tool)); err != nil {
		return "", err
	}
	if _, err := ParseConfidenceStrict(string(rec.Confidence)); err != nil {
		return "", err
	}
	if pos != Top && pos != Bottom {
		return "", fmt.Errorf("invalid position %q (expected top or bottom)", pos)
	}

	style := comment.Resolve(ext)
	tagLine := Encode(rec, style)
	lines := strings.Split(content, "\n")

	// Replace in place when the same tool is already stamped.
	for _, t := range Scan(lines, ext) {
		if t.Record.Tool == rec.Tool {
			lines[t.Line-1] = tagLine
			return strings.Join(lines, "\n"), nil
		}
	}

	if pos == Bottom {
		return strings.TrimRight(content, " \t\n") + "\n\n" + tagLine + "\n", nil
	}

	insert := 0
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#!") {
		insert = 1
	}
	if insert < len(lines) &&
		(strings.Contains(lines[insert], "coding:") || strings.Contains(lines[insert], "encoding:")) {
		insert++
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:insert]...)
	out = append(out, tagLine)
	out = append(out, lines[insert:]...)
	return strings.Join(out, "\n"), nil
}
