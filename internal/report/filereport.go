// Package report formats provenance data for humans and machines: per-file
// reports, repository queries, traceability matrices, and validation.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"aiprov/internal/comment"
	"aiprov/internal/gitx"
	"aiprov/internal/meta"
	"aiprov/internal/tag"
)

// Format selects a report output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatMarkdown:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text, json, or md)", s)
	}
}

// FileData is everything known about one file at a revision.
type FileData struct {
	File       string           `json:"file"`
	Revision   string           `json:"revision"`
	Meta       *meta.FileMeta   `json:"file_metadata"`
	CommitMeta *gitx.CommitMeta `json:"commit_metadata"`
	Inline     []tag.Located    `json:"inline_metadata"`
	Hunks      []tag.Hunk       `json:"hunks"`
}

// CollectFile gathers the provenance of a file at a revision: its content's
// inline tags and hunks, the .meta.json sidecar, and the commit's git note.
func CollectFile(repo *gitx.Repo, path, revision string) (*FileData, error) {
	content, err := repo.ShowFile(revision, path)
	if err != nil {
		return nil, fmt.Errorf("file not found at revision %s: %s", revision, path)
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")

	data := &FileData{
		File:     path,
		Revision: revision,
		Inline:   tag.ScanContent(content, ext),
		Hunks:    tag.ScanHunks(content, ext),
	}

	// Sidecar at the same revision, if committed.
	if sidecar, err := repo.ShowFile(revision, meta.SidecarPath(path)); err == nil {
		var m meta.FileMeta
		if err := json.Unmarshal([]byte(sidecar), &m); err == nil {
			data.Meta = &m
		}
	}

	sha, err := repo.ResolveRev(revision)
	if err == nil {
		if note, err := repo.GetNote(sha); err == nil && note != nil {
			data.CommitMeta = note
		}
	}
	return data, nil
}

// FileReport renders the collected data in the requested format.
func FileReport(data *FileData, format Format) (string, error) {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case FormatMarkdown:
		return fileMarkdown(data), nil
	default:
		return fileText(data), nil
	}
}

func fileMarkdown(d *FileData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# AI Metadata Report: %s\n", d.File)
	fmt.Fprintf(&b, "**Revision:** `%s`\n", d.Revision)

	if m := d.Meta; m != nil {
		b.WriteString("\n## File-Level Metadata\n\n")
		fmt.Fprintf(&b, "- **AI Tool:** %s\n", orNA(string(m.AITool)))
		fmt.Fprintf(&b, "- **Confidence:** %s\n", orNA(string(m.Confidence)))
		fmt.Fprintf(&b, "- **Reviewed by:** %s\n", orDefault(m.ReviewedBy, "Not reviewed"))
		if len(m.Trace) > 0 {
			fmt.Fprintf(&b, "- **Traces:** %s\n", strings.Join(m.Trace, ", "))
		}
		if len(m.Tests) > 0 {
			fmt.Fprintf(&b, "- **Tests:** %s\n", strings.Join(m.Tests, ", "))
		}
		if len(m.Blocks) > 0 {
			b.WriteString("\n### Code Blocks\n\n")
			for _, blk := range m.Blocks {
				marker := "Human"
				if blk.AI {
					marker = "AI"
				}
				fmt.Fprintf(&b, "- **%s** (%s, lines %d-%d) %s\n",
					blk.Name, blk.Kind, blk.Lines[0], blk.Lines[1], marker)
			}
		}
		fmt.Fprintf(&b, "\n**AI-generated:** %.1f%%\n", m.AIPercentage())
	}

	if d.CommitMeta != nil {
		b.WriteString("\n## Commit Metadata (Git Notes)\n\n```json\n")
		out, _ := json.MarshalIndent(d.CommitMeta, "", "  ")
		b.Write(out)
		b.WriteString("\n```\n")
	}

	if len(d.Inline) > 0 {
		b.WriteString("\n## Inline Metadata\n\n")
		style := comment.ResolvePath(d.File)
		for _, loc := range d.Inline {
			fmt.Fprintf(&b, "- **Line %d:** `%s`\n", loc.Line, tag.Encode(loc.Record, style))
		}
	}
	return b.String()
}

func fileText(d *FileData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "AI Metadata Report: %s @ %s\n", d.File, d.Revision)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if m := d.Meta; m != nil {
		b.WriteString("File-Level Metadata:\n")
		fmt.Fprintf(&b, "  AI Tool:     %s\n", orNA(string(m.AITool)))
		fmt.Fprintf(&b, "  Confidence:  %s\n", orNA(string(m.Confidence)))
		fmt.Fprintf(&b, "  Reviewed by: %s\n", orDefault(m.ReviewedBy, "Not reviewed"))
		if len(m.Trace) > 0 {
			fmt.Fprintf(&b, "  Traces:      %s\n", strings.Join(m.Trace, ", "))
		}
		if len(m.Tests) > 0 {
			fmt.Fprintf(&b, "  Tests:       %s\n", strings.Join(m.Tests, ", "))
		}
		fmt.Fprintf(&b, "  AI-generated: %.1f%%\n\n", m.AIPercentage())
	}

	if d.CommitMeta != nil {
		out, _ := json.MarshalIndent(d.CommitMeta, "", "  ")
		fmt.Fprintf(&b, "Commit Metadata:\n%s\n\n", indent(string(out), "  "))
	}

	if len(d.Hunks) > 0 {
		b.WriteString("AI Hunks:\n")
		for _, h := range d.Hunks {
			fmt.Fprintf(&b, "  lines %d-%d  %s", h.Start, h.End, h.Tool)
			if h.Confidence != "" {
				fmt.Fprintf(&b, ":%s", h.Confidence)
			}
			if len(h.Trace) > 0 {
				fmt.Fprintf(&b, "  trace=%s", strings.Join(h.Trace, ","))
			}
			if h.Reviewed != "" {
				fmt.Fprintf(&b, "  reviewed=%s", h.Reviewed)
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("No inline AI metadata found.\n")
	}
	return b.String()
}

func orNA(s string) string { return orDefault(s, "N/A") }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
