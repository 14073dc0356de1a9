package tag

import (
	"strings"

	"aiprov/internal/comment"
)

// Scan walks the lines of a file in order and returns every provenance tag
// found, with 1-based line numbers. A file with no tags yields an empty
// result, not an error. The output ordering (ascending line number) is a
// hard contract: ExtractHunks depends on it.
func Scan(lines []string, ext string) []Located {
	style := comment.Resolve(ext)

	var tags []Located
	for i, line := range lines {
		if rec, ok := Decode(line, style); ok {
			tags = append(tags, Located{Line: i + 1, Record: rec})
		}
	}
	return tags
}

// ScanContent is Scan over raw file content.
func ScanContent(content, ext string) []Located {
	return Scan(strings.Split(content, "\n"), ext)
}

// ExtractHunks computes the line range each tag governs. A hunk runs from
// its tag line to the line before the next tag, or to the last line of the
// file for the final tag.
//
// All lines between one tag and the next are attributed to the earlier tag,
// blank lines and unrelated code included. This next-tag-or-EOF rule is
// deliberately crude and must stay exactly as is: reports depend on its
// deterministic output, and a semantic-boundary rewrite is a behavior change.
func ExtractHunks(tags []Located, totalLines int) []Hunk {
	if len(tags) == 0 {
		return nil
	}

	hunks := make([]Hunk, 0, len(tags))
	for i, t := range tags {
		end := totalLines
		if i+1 < len(tags) {
			end = tags[i+1].Line - 1
		}
		hunks = append(hunks, Hunk{Start: t.Line, End: end, Record: t.Record})
	}
	return hunks
}

// ScanHunks scans a file and extracts its hunks in one step.
func ScanHunks(content, ext string) []Hunk {
	lines := strings.Split(content, "\n")
	return ExtractHunks(Scan(lines, ext), len(lines))
}
