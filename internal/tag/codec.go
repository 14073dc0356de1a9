package tag

import (
	"strings"

	"aiprov/internal/comment"
)

const fieldSep = "|"

// markers are every comment token the decoder strips before matching the
// grammar. Tags written by one style must still decode when a caller passes
// a different style, so all known tokens are stripped, longest first.
var markers = []string{"(*", "*)", "/*", "*/", "//", "--", "#"}

// Decode parses a single line into a Record. The second result is false when
// the line is not a tag at all, which is the common case and not an error.
// Every malformed fragment inside a recognized tag degrades gracefully:
// unknown tools become ToolOther, unparseable confidence is dropped, unknown
// field keys are ignored.
func Decode(line string, style comment.Style) (Record, bool) {
	clean := stripMarkers(line, style)

	if !strings.HasPrefix(clean, "ai:") {
		return Record{}, false
	}

	var rec Record
	for i, part := range strings.Split(clean, fieldSep) {
		part = strings.TrimSpace(part)

		if i == 0 {
			// ai:<tool>[:<confidence>]
			tokens := strings.Split(part, ":")
			if len(tokens) < 2 || tokens[1] == "" {
				return Record{}, false
			}
			rec.Tool = ParseTool(tokens[1])
			if len(tokens) >= 3 {
				if conf, ok := ParseConfidence(tokens[2]); ok {
					rec.Confidence = conf
				}
			}
			continue
		}

		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "trace":
			rec.Trace = splitIDs(value)
		case "test":
			rec.Tests = splitIDs(value)
		case "reviewed":
			rec.Reviewed = value
		}
		// Unknown keys are skipped for forward compatibility.
	}

	return rec, true
}

// Encode serializes a Record into canonical tag text wrapped in the given
// comment style. Field order is fixed: tool[:confidence], trace, test,
// reviewed. Decode(Encode(r, s), s) == r for any record with a recognized
// tool.
func Encode(rec Record, style comment.Style) string {
	parts := []string{encodeToolField(rec)}

	if len(rec.Trace) > 0 {
		parts = append(parts, "trace:"+strings.Join(rec.Trace, ","))
	}
	if len(rec.Tests) > 0 {
		parts = append(parts, "test:"+strings.Join(rec.Tests, ","))
	}
	if rec.Reviewed != "" {
		parts = append(parts, "reviewed:"+rec.Reviewed)
	}

	body := strings.Join(parts, " "+fieldSep+" ")
	if style.Suffix != "" {
		return style.Prefix + " " + body + " " + style.Suffix
	}
	return style.Prefix + " " + body
}

func encodeToolField(rec Record) string {
	if rec.Confidence != "" {
		return "ai:" + string(rec.Tool) + ":" + string(rec.Confidence)
	}
	return "ai:" + string(rec.Tool)
}

// stripMarkers removes comment tokens and surrounding whitespace from a line.
// The file's own style is stripped first so an unusual prefix still works.
func stripMarkers(line string, style comment.Style) string {
	clean := strings.TrimSpace(line)

	tokens := markers
	if style.Prefix != "" && !contains(tokens, style.Prefix) {
		tokens = append([]string{style.Prefix}, tokens...)
	}

	for changed := true; changed; {
		changed = false
		for _, m := range tokens {
			if strings.HasPrefix(clean, m) {
				clean = strings.TrimSpace(strings.TrimPrefix(clean, m))
				changed = true
			}
			if strings.HasSuffix(clean, m) {
				clean = strings.TrimSpace(strings.TrimSuffix(clean, m))
				changed = true
			}
		}
	}
	return clean
}

func splitIDs(csv string) []string {
	raw := strings.Split(csv, ",")
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
